package main

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/otcdex-network/otcdex-router/internal/config"
	"github.com/otcdex-network/otcdex-router/internal/core/application"
	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/internal/infrastructure/broker"
	"github.com/otcdex-network/otcdex-router/internal/infrastructure/marketmaker"
	"github.com/otcdex-network/otcdex-router/pkg/onchain"
)

// services wires the whole router: chain client, wallet, both venue
// connectors and the routing orchestrator on top.
type services struct {
	trade       application.TradeService
	marketMaker *marketmaker.Connector
	close       func()
}

func buildServices(ctx context.Context) (*services, error) {
	if err := config.InitConfig(); err != nil {
		return nil, err
	}
	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	chain, err := ethclient.Dial(config.GetString(config.RPCURLKey))
	if err != nil {
		return nil, fmt.Errorf("connect to chain rpc: %w", err)
	}

	wallet, err := onchain.NewWallet(config.GetString(config.WalletKeyKey))
	if err != nil {
		chain.Close()
		return nil, err
	}
	erc20 := onchain.NewERC20(chain)
	waitOpts := onchain.WaitOptions{
		Timeout:      config.GetDuration(config.ConfirmationTimeoutKey),
		PollInterval: config.GetDuration(config.ConfirmationPollIntervalKey),
	}

	mmClient, err := marketmaker.NewClient(
		config.GetString(config.MarketMakerURLKey), wallet,
	)
	if err != nil {
		chain.Close()
		return nil, err
	}
	mmExecutor := marketmaker.NewExecutor(
		chain, erc20, wallet,
		common.HexToAddress(config.GetString(config.OfferContractKey)),
		common.HexToAddress(config.GetString(config.AffiliateAddressKey)),
		waitOpts,
	)
	mmConnector := marketmaker.NewConnector(
		mmClient, mmExecutor, config.GetNetwork(),
	)

	brokerClient, err := broker.NewClient(
		config.GetString(config.BrokerURLKey), wallet,
	)
	if err != nil {
		chain.Close()
		return nil, err
	}
	window, err := broker.NewEquityTradingWindow()
	if err != nil {
		chain.Close()
		return nil, err
	}
	brokerExecutor := broker.NewExecutor(
		brokerClient, chain, erc20, wallet, window, waitOpts,
		config.GetNetwork(), config.GetTargetNetwork(),
	)
	brokerConnector := broker.NewConnector(brokerClient, brokerExecutor, window)

	trade, err := application.NewTradeService(ctx, application.TradeServiceOpts{
		MarketMaker: mmConnector,
		Broker:      brokerConnector,
	})
	if err != nil {
		chain.Close()
		return nil, err
	}

	return &services{
		trade:       trade,
		marketMaker: mmConnector,
		close:       chain.Close,
	}, nil
}

var tradeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "sell-asset",
		Usage: "address of the asset to pay with",
	},
	&cli.StringFlag{
		Name:  "buy-asset",
		Usage: "address of the asset to acquire",
	},
	&cli.StringFlag{
		Name:  "sell-amount",
		Usage: "amount to sell; mutually exclusive with buy-amount",
	},
	&cli.StringFlag{
		Name:  "buy-amount",
		Usage: "amount to buy; mutually exclusive with sell-amount",
	},
	&cli.StringFlag{
		Name:  "symbol",
		Usage: "ticker symbol of the traded asset, required for broker trades",
	},
	&cli.StringFlag{
		Name:  "type",
		Usage: "trade direction, either buy or sell",
		Value: "buy",
	},
}

func tradeRequestFromCtx(ctx *cli.Context) (domain.TradeRequest, error) {
	req := domain.TradeRequest{
		SellAsset:  ctx.String("sell-asset"),
		BuyAsset:   ctx.String("buy-asset"),
		SymbolHint: ctx.String("symbol"),
	}

	switch ctx.String("type") {
	case "buy":
		req.Type = domain.TradeBuy
	case "sell":
		req.Type = domain.TradeSell
	default:
		return domain.TradeRequest{}, fmt.Errorf(
			"type must be either buy or sell",
		)
	}

	var err error
	if amount := ctx.String("sell-amount"); amount != "" {
		if req.SellAmount, err = decimalFromString(amount); err != nil {
			return domain.TradeRequest{}, err
		}
	}
	if amount := ctx.String("buy-amount"); amount != "" {
		if req.BuyAmount, err = decimalFromString(amount); err != nil {
			return domain.TradeRequest{}, err
		}
	}
	return req, nil
}

func decimalFromString(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", value, err)
	}
	return amount, nil
}

func strategyFromCtx(ctx *cli.Context) domain.Strategy {
	if strategy := ctx.String("strategy"); strategy != "" {
		return domain.Strategy(strategy)
	}
	return config.GetDefaultStrategy()
}
