package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.0.1"
	app.Name = "otcdex CLI"
	app.Usage = "Command line interface for routing asset swaps across venues"
	app.Commands = append(
		app.Commands,
		&quote,
		&trade,
		&listoffers,
		&makeoffer,
		&canceloffer,
		&pricefeeds,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[otcdex] %v\n", err)
	os.Exit(1)
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(jsonStr))
}
