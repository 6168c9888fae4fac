package broker

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	accountStatusActive = "active"

	sideBuy  = "buy"
	sideSell = "sell"
)

type accountStatusReply struct {
	Status string `json:"status"`
}

type accountFundsReply struct {
	BuyingPower string            `json:"buyingPower"`
	Balances    map[string]string `json:"balances"`
}

func (r accountFundsReply) buyingPower() (decimal.Decimal, error) {
	power, err := decimal.NewFromString(r.BuyingPower)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse buying power: %w", err)
	}
	return power, nil
}

type symbolQuoteReply struct {
	Symbol string `json:"symbol"`
	Bid    string `json:"bid"`
	Ask    string `json:"ask"`
}

func (r symbolQuoteReply) bidAsk() (bid, ask decimal.Decimal, err error) {
	bid, err = decimal.NewFromString(r.Bid)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parse bid: %w", err)
	}
	ask, err = decimal.NewFromString(r.Ask)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parse ask: %w", err)
	}
	return bid, ask, nil
}

type escrowAddressReply struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

type orderRequest struct {
	ClientOrderID  string `json:"clientOrderId"`
	Symbol         string `json:"symbol"`
	Side           string `json:"side"`
	AssetQuantity  string `json:"assetQuantity"`
	FiatAmount     string `json:"fiatAmount"`
	TransferTxHash string `json:"transferTxHash"`
	TargetNetwork  string `json:"targetNetwork"`
}

type orderReply struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}
