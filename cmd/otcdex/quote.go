package main

import (
	"github.com/urfave/cli/v2"
)

var quote = cli.Command{
	Name:   "quote",
	Usage:  "price a swap against both venues",
	Flags:  tradeFlags,
	Action: quoteAction,
}

func quoteAction(ctx *cli.Context) error {
	req, err := tradeRequestFromCtx(ctx)
	if err != nil {
		return err
	}

	svc, err := buildServices(ctx.Context)
	if err != nil {
		return err
	}
	defer svc.close()

	quotes, err := svc.trade.GetQuotes(ctx.Context, req)
	if err != nil {
		return err
	}

	printRespJSON(quotes)

	return nil
}
