package broker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/pkg/onchain"
)

const (
	// assetQuantityPrecision is the venue's precision for tokenized asset
	// quantities.
	assetQuantityPrecision int32 = 9
	// fiatAmountPrecision is the venue's precision for fiat-equivalent
	// amounts.
	fiatAmountPrecision int32 = 2
)

// computeAmounts derives the counter-amount from whichever side the
// caller specified at the given unit price, then applies the venue's
// rounding: asset quantity to 9 decimals, fiat-equivalent to 2.
func computeAmounts(
	req domain.TradeRequest, price decimal.Decimal,
) (qty, fiat decimal.Decimal, err error) {
	if !price.IsPositive() {
		return decimal.Zero, decimal.Zero, ErrQuoteUnavailable
	}

	// buys pay the fiat-equivalent asset and receive the tokenized
	// symbol, sells the opposite
	if req.Type.IsBuy() {
		if req.SellAmount.IsPositive() {
			fiat = req.SellAmount.Round(fiatAmountPrecision)
			qty = fiat.Div(price).Round(assetQuantityPrecision)
		} else {
			qty = req.BuyAmount.Round(assetQuantityPrecision)
			fiat = qty.Mul(price).Round(fiatAmountPrecision)
		}
		return qty, fiat, nil
	}

	if req.SellAmount.IsPositive() {
		qty = req.SellAmount.Round(assetQuantityPrecision)
		fiat = qty.Mul(price).Round(fiatAmountPrecision)
	} else {
		fiat = req.BuyAmount.Round(fiatAmountPrecision)
		qty = fiat.Div(price).Round(assetQuantityPrecision)
	}
	return qty, fiat, nil
}

// Executor runs the bridge venue's execution protocol: gate checks, price
// lookup, amount rounding, resource validation, on-chain escrow transfer
// and off-chain order submission.
type Executor struct {
	client        *Client
	chain         onchain.ChainClient
	erc20         *onchain.ERC20
	sender        *onchain.Sender
	wallet        *onchain.Wallet
	window        *TradingWindow
	waitOpts      onchain.WaitOptions
	sourceNetwork domain.Network
	// targetNetwork is where bridge settlement is received; it may differ
	// from the network the escrow transfer is sent on.
	targetNetwork domain.Network

	now func() time.Time
}

// NewExecutor ...
func NewExecutor(
	client *Client,
	chain onchain.ChainClient,
	erc20 *onchain.ERC20,
	wallet *onchain.Wallet,
	window *TradingWindow,
	waitOpts onchain.WaitOptions,
	sourceNetwork, targetNetwork domain.Network,
) *Executor {
	return &Executor{
		client:        client,
		chain:         chain,
		erc20:         erc20,
		sender:        onchain.NewSender(chain, wallet),
		wallet:        wallet,
		window:        window,
		waitOpts:      waitOpts,
		sourceNetwork: sourceNetwork,
		targetNetwork: targetNetwork,
		now:           time.Now,
	}
}

// Execute performs the full order protocol. No funds move before the
// trading window and the account status have been verified.
func (e *Executor) Execute(
	ctx context.Context, req domain.TradeRequest,
) (*domain.TradeResult, error) {
	if req.SymbolHint == "" {
		return nil, ErrSymbolRequired
	}
	if !e.window.IsOpenAt(e.now()) {
		return nil, ErrMarketClosed
	}

	status, err := e.client.AccountStatus(ctx)
	if err != nil {
		return nil, err
	}
	if status != accountStatusActive {
		return nil, fmt.Errorf("%w: status %s", ErrAccountBlocked, status)
	}

	quote, err := e.client.SymbolQuote(ctx, req.SymbolHint)
	if err != nil {
		return nil, err
	}
	bid, ask, err := quote.bidAsk()
	if err != nil {
		return nil, err
	}
	price := bid
	if req.Type.IsBuy() {
		price = ask
	}

	qty, fiat, err := computeAmounts(req, price)
	if err != nil {
		return nil, err
	}

	if err := e.checkResources(ctx, req, qty, fiat); err != nil {
		return nil, err
	}

	txHash, err := e.transferToEscrow(ctx, req, qty, fiat)
	if err != nil {
		return nil, err
	}

	side := sideSell
	if req.Type.IsBuy() {
		side = sideBuy
	}
	order := orderRequest{
		ClientOrderID:  uuid.New().String(),
		Symbol:         req.SymbolHint,
		Side:           side,
		AssetQuantity:  qty.String(),
		FiatAmount:     fiat.String(),
		TransferTxHash: txHash.Hex(),
		TargetNetwork:  string(e.targetNetwork),
	}
	reply, err := e.client.CreateOrder(ctx, order)
	if err != nil {
		// funds already moved: surface the transfer hash for manual
		// reconciliation instead of retrying
		log.WithFields(log.Fields{
			"venue": domain.VenueBroker,
			"tx":    txHash.Hex(),
		}).Error("escrow transfer confirmed but order submission failed")
		return nil, &domain.PartialExecutionError{
			Venue:  domain.VenueBroker,
			TxHash: txHash.Hex(),
			Err:    err,
		}
	}

	sellAmount, buyAmount := qty, fiat
	if req.Type.IsBuy() {
		sellAmount, buyAmount = fiat, qty
	}
	result := domain.NewTradeResult(
		txHash.Hex(), reply.OrderID,
		req.SellAsset, sellAmount,
		req.BuyAsset, buyAmount,
		domain.VenueBroker, e.targetNetwork, domain.TradeStatusSubmitted,
	)

	log.WithFields(log.Fields{
		"venue":  domain.VenueBroker,
		"order":  reply.OrderID,
		"symbol": req.SymbolHint,
		"side":   side,
	}).Info("order submitted")
	return result, nil
}

// checkResources validates buying power for buys and the on-chain asset
// balance for sells, before any transfer is attempted.
func (e *Executor) checkResources(
	ctx context.Context,
	req domain.TradeRequest,
	qty, fiat decimal.Decimal,
) error {
	if req.Type.IsBuy() {
		funds, err := e.client.AccountFunds(ctx)
		if err != nil {
			return err
		}
		power, err := funds.buyingPower()
		if err != nil {
			return err
		}
		if power.LessThan(fiat) {
			return fmt.Errorf(
				"%w: have %s, need %s", ErrInsufficientBuyingPower, power, fiat,
			)
		}
		return nil
	}

	token := common.HexToAddress(req.SellAsset)
	decimals, err := e.erc20.Decimals(ctx, token)
	if err != nil {
		return err
	}
	balance, err := e.erc20.BalanceOf(ctx, token, e.wallet.Address())
	if err != nil {
		return err
	}
	needed := onchain.ToBaseUnits(qty, decimals)
	if balance.Cmp(needed) < 0 {
		return fmt.Errorf(
			"%w: have %s, need %s base units",
			ErrInsufficientAssetBalance, balance, needed,
		)
	}
	return nil
}

// transferToEscrow moves the paying asset to the venue's escrow wallet
// and blocks until the transfer confirms.
func (e *Executor) transferToEscrow(
	ctx context.Context,
	req domain.TradeRequest,
	qty, fiat decimal.Decimal,
) (common.Hash, error) {
	escrow, err := e.client.EscrowAddress(ctx, string(e.targetNetwork))
	if err != nil {
		return common.Hash{}, err
	}

	paying := fiat
	if !req.Type.IsBuy() {
		paying = qty
	}
	token := common.HexToAddress(req.SellAsset)
	decimals, err := e.erc20.Decimals(ctx, token)
	if err != nil {
		return common.Hash{}, err
	}
	data, err := onchain.PackTransfer(
		common.HexToAddress(escrow), onchain.ToBaseUnits(paying, decimals),
	)
	if err != nil {
		return common.Hash{}, err
	}

	txHash, err := e.sender.Send(ctx, token, nil, data)
	if err != nil {
		return common.Hash{}, fmt.Errorf("escrow transfer: %w", err)
	}

	log.WithFields(log.Fields{
		"venue":  domain.VenueBroker,
		"tx":     txHash.Hex(),
		"escrow": escrow,
	}).Info("escrow transfer submitted, waiting for confirmation")

	if _, err := onchain.WaitForConfirmation(
		ctx, e.chain, txHash, e.waitOpts,
	); err != nil {
		if errors.Is(err, onchain.ErrConfirmationTimeout) {
			return txHash, &domain.TimeoutError{
				TxHash:  txHash.Hex(),
				Timeout: e.waitOpts.Timeout,
				Err:     err,
			}
		}
		return txHash, fmt.Errorf("escrow transfer: %w", err)
	}
	return txHash, nil
}
