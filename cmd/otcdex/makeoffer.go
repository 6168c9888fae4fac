package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/internal/infrastructure/marketmaker"
)

var makeoffer = cli.Command{
	Name:  "makeoffer",
	Usage: "escrow funds into a new offer on the on-chain market",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "deposit-asset",
			Usage:    "address of the asset to escrow",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "deposit-amount",
			Usage:    "amount to escrow, in the asset's smallest units",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "withdrawal-asset",
			Usage:    "address of the asset wanted in return",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "withdrawal-amount",
			Usage:    "amount wanted in return, in the asset's smallest units",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "pricing",
			Usage: "pricing mode, either fixed or dynamic",
			Value: "fixed",
		},
		&cli.StringFlag{
			Name:  "fill-mode",
			Usage: "fill mode, either partial or block",
			Value: "partial",
		},
		&cli.Int64Flag{
			Name:  "expiry",
			Usage: "unix timestamp after which the offer expires, 0 for never",
		},
		&cli.StringSliceFlag{
			Name:  "taker",
			Usage: "restrict the offer to the given taker address, repeatable",
		},
	},
	Action: makeOfferAction,
}

func makeOfferAction(ctx *cli.Context) error {
	params, err := makeOfferParamsFromCtx(ctx)
	if err != nil {
		return err
	}

	svc, err := buildServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	txHash, err := svc.marketMaker.MakeOffer(ctx.Context, params)
	if err != nil {
		return err
	}

	printRespJSON(map[string]string{"txHash": txHash})

	return nil
}

func makeOfferParamsFromCtx(ctx *cli.Context) (marketmaker.MakeOfferParams, error) {
	depositAmount, ok := new(big.Int).SetString(ctx.String("deposit-amount"), 10)
	if !ok {
		return marketmaker.MakeOfferParams{}, fmt.Errorf(
			"deposit-amount must be an integer in base units",
		)
	}
	withdrawalAmount, ok := new(big.Int).SetString(
		ctx.String("withdrawal-amount"), 10,
	)
	if !ok {
		return marketmaker.MakeOfferParams{}, fmt.Errorf(
			"withdrawal-amount must be an integer in base units",
		)
	}

	pricing := domain.PricingType(ctx.String("pricing"))
	if pricing != domain.PricingTypeFixed && pricing != domain.PricingTypeDynamic {
		return marketmaker.MakeOfferParams{}, fmt.Errorf(
			"pricing must be either fixed or dynamic",
		)
	}
	fillMode := domain.FillMode(ctx.String("fill-mode"))
	if fillMode != domain.FillModePartial && fillMode != domain.FillModeBlock {
		return marketmaker.MakeOfferParams{}, fmt.Errorf(
			"fill-mode must be either partial or block",
		)
	}

	takers := make([]common.Address, 0, len(ctx.StringSlice("taker")))
	for _, taker := range ctx.StringSlice("taker") {
		if !common.IsHexAddress(taker) {
			return marketmaker.MakeOfferParams{}, fmt.Errorf(
				"invalid taker address %q", taker,
			)
		}
		takers = append(takers, common.HexToAddress(taker))
	}

	return marketmaker.MakeOfferParams{
		DepositAsset:     common.HexToAddress(ctx.String("deposit-asset")),
		DepositAmount:    depositAmount,
		WithdrawalAsset:  common.HexToAddress(ctx.String("withdrawal-asset")),
		WithdrawalAmount: withdrawalAmount,
		PricingType:      pricing,
		FillMode:         fillMode,
		ExpiryTimestamp:  ctx.Int64("expiry"),
		AuthorizedTakers: takers,
	}, nil
}
