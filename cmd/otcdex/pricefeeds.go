package main

import (
	"github.com/urfave/cli/v2"
)

var pricefeeds = cli.Command{
	Name:   "pricefeeds",
	Usage:  "show the reference rates the offer market derives dynamic prices from",
	Action: priceFeedsAction,
}

func priceFeedsAction(ctx *cli.Context) error {
	svc, err := buildServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	feeds, err := svc.marketMaker.PriceFeeds(ctx.Context)
	if err != nil {
		return err
	}

	printRespJSON(feeds)

	return nil
}
