package main

import (
	"github.com/urfave/cli/v2"
)

var listoffers = cli.Command{
	Name:  "listoffers",
	Usage: "list the open offers of the on-chain market for a pair",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "deposit-asset",
			Usage:    "address of the asset escrowed by the makers",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "withdrawal-asset",
			Usage:    "address of the asset the makers want in return",
			Required: true,
		},
	},
	Action: listOffersAction,
}

func listOffersAction(ctx *cli.Context) error {
	svc, err := buildServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	offers, err := svc.marketMaker.ListOffers(
		ctx.Context, ctx.String("deposit-asset"), ctx.String("withdrawal-asset"),
	)
	if err != nil {
		return err
	}

	printRespJSON(offers)

	return nil
}
