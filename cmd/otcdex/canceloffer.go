package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var canceloffer = cli.Command{
	Name:      "canceloffer",
	Usage:     "cancel one of the wallet's own offers and recover the escrow",
	ArgsUsage: "<offer id>",
	Action:    cancelOfferAction,
}

func cancelOfferAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("exactly one offer id is required")
	}

	svc, err := buildServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	txHash, err := svc.marketMaker.CancelOffer(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}

	printRespJSON(map[string]string{"txHash": txHash})

	return nil
}
