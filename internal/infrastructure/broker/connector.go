// Package broker implements the centralized market bridge venue: a
// time-windowed brokerage reached over HTTP, settled through an on-chain
// escrow transfer followed by an off-chain order.
package broker

import (
	"context"
	"errors"
	"time"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/internal/core/ports"
)

// Connector exposes the bridge venue as a VenueConnector.
type Connector struct {
	client   *Client
	executor *Executor
	window   *TradingWindow

	now func() time.Time
}

// NewConnector ...
func NewConnector(client *Client, executor *Executor, window *TradingWindow) *Connector {
	return &Connector{
		client:   client,
		executor: executor,
		window:   window,
		now:      time.Now,
	}
}

var _ ports.VenueConnector = (*Connector)(nil)
var _ ports.Authenticator = (*Connector)(nil)

// Venue ...
func (c *Connector) Venue() domain.Venue {
	return domain.VenueBroker
}

// Handshake authenticates towards the brokerage API.
func (c *Connector) Handshake(ctx context.Context) error {
	return c.client.Handshake(ctx)
}

// GetQuote prices the request against the venue's real-time bid/ask,
// using ask for buys and bid for sells. Outside the trading window the
// venue does not quote at all.
func (c *Connector) GetQuote(
	ctx context.Context, req domain.TradeRequest,
) (*domain.Quote, error) {
	if req.SymbolHint == "" {
		return nil, ErrSymbolRequired
	}
	if !c.window.IsOpenAt(c.now()) {
		return nil, ErrMarketClosed
	}

	quote, err := c.client.SymbolQuote(ctx, req.SymbolHint)
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
	sellAmount, buyAmount := qty, fiat
	if req.Type.IsBuy() {
		sellAmount, buyAmount = fiat, qty
	}
	return domain.NewQuote(
		req.SellAsset, req.BuyAsset, sellAmount, buyAmount, domain.VenueBroker,
	), nil
}

// Execute runs the escrow-then-order protocol, translating venue gates
// into availability errors and everything past the gates into execution
// errors.
func (c *Connector) Execute(
	ctx context.Context, req domain.TradeRequest,
) (*domain.TradeResult, error) {
	result, err := c.executor.Execute(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMarketClosed),
			errors.Is(err, ErrAccountBlocked),
			errors.Is(err, ErrSymbolRequired):
			return nil, &domain.AvailabilityError{
				Venue:  domain.VenueBroker,
				Reason: err.Error(),
			}
		case errors.As(err, new(*domain.TimeoutError)),
			errors.As(err, new(*domain.PartialExecutionError)):
			return nil, err
		default:
			return nil, &domain.ExecutionError{
				Venue: domain.VenueBroker,
				Err:   err,
			}
		}
	}
	return result, nil
}
