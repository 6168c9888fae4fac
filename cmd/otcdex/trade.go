package main

import (
	"github.com/urfave/cli/v2"
)

var trade = cli.Command{
	Name:  "trade",
	Usage: "execute a swap on the venue picked by the routing strategy",
	Flags: append(tradeFlags, &cli.StringFlag{
		Name: "strategy",
		Usage: "routing strategy: BEST_PRICE, MARKET_MAKER_ONLY, " +
			"BROKER_ONLY, MARKET_MAKER_FIRST or BROKER_FIRST",
	}),
	Action: tradeAction,
}

func tradeAction(ctx *cli.Context) error {
	req, err := tradeRequestFromCtx(ctx)
	if err != nil {
		return err
	}

	svc, err := buildServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	result, err := svc.trade.Trade(ctx.Context, req, strategyFromCtx(ctx))
	if err != nil {
		return err
	}

	printRespJSON(result)

	return nil
}
