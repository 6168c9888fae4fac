package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeStatus represents the terminal status of a trade execution.
type TradeStatus string

const (
	// TradeStatusSettled means the trade settled fully on-chain.
	TradeStatusSettled TradeStatus = "SETTLED"
	// TradeStatusSubmitted means the venue acknowledged the order but
	// settlement happens asynchronously on the venue side.
	TradeStatusSubmitted TradeStatus = "SUBMITTED"
)

// TradeRequest describes the swap a caller wants to perform. Exactly one
// of SellAmount and BuyAmount must be set; the other side is derived by
// the executing venue.
type TradeRequest struct {
	SellAsset  string
	BuyAsset   string
	SellAmount decimal.Decimal
	BuyAmount  decimal.Decimal
	// SymbolHint carries the venue-agnostic ticker of the traded symbol,
	// needed by the broker bridge to address its off-chain market.
	SymbolHint string
	Type       TradeType
}

// Validate enforces the exclusive-amount invariant and the trade type.
func (r TradeRequest) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return err
	}
	sellSet := r.SellAmount.IsPositive()
	buySet := r.BuyAmount.IsPositive()
	if sellSet && buySet {
		return ErrAmbiguousAmount
	}
	if !sellSet && !buySet {
		return ErrAmountRequired
	}
	return nil
}

// Amount returns the caller-specified side of the request.
func (r TradeRequest) Amount() decimal.Decimal {
	if r.SellAmount.IsPositive() {
		return r.SellAmount
	}
	return r.BuyAmount
}

// TradeResult is the immutable outcome of a successful trade, created once
// by the executing venue and returned to the caller. The core does not
// store it.
type TradeResult struct {
	TxHash     string
	OrderID    string
	SellAsset  string
	SellAmount decimal.Decimal
	BuyAsset   string
	BuyAmount  decimal.Decimal
	Rate       decimal.Decimal
	Venue      Venue
	Timestamp  time.Time
	Network    Network
	Status     TradeStatus
}

// NewTradeResult builds a result with its rate derived from the settled
// amounts.
func NewTradeResult(
	txHash, orderID string,
	sellAsset string, sellAmount decimal.Decimal,
	buyAsset string, buyAmount decimal.Decimal,
	venue Venue, network Network, status TradeStatus,
) *TradeResult {
	rate := decimal.Zero
	if !sellAmount.IsZero() {
		rate = buyAmount.Div(sellAmount)
	}
	return &TradeResult{
		TxHash:     txHash,
		OrderID:    orderID,
		SellAsset:  sellAsset,
		SellAmount: sellAmount,
		BuyAsset:   buyAsset,
		BuyAmount:  buyAmount,
		Rate:       rate,
		Venue:      venue,
		Timestamp:  time.Now(),
		Network:    network,
		Status:     status,
	}
}
