// Package marketmaker implements the peer-to-peer on-chain offer market
// venue: quote discovery over its HTTP API and trade execution through
// its offer contract.
package marketmaker

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/internal/core/ports"
)

// Connector exposes the offer market as a VenueConnector.
type Connector struct {
	client   *Client
	executor *Executor
	network  domain.Network
}

// NewConnector ...
func NewConnector(
	client *Client, executor *Executor, network domain.Network,
) *Connector {
	return &Connector{client: client, executor: executor, network: network}
}

var _ ports.VenueConnector = (*Connector)(nil)
var _ ports.Authenticator = (*Connector)(nil)

// Venue ...
func (c *Connector) Venue() domain.Venue {
	return domain.VenueMarketMaker
}

// Handshake authenticates towards the discovery API.
func (c *Connector) Handshake(ctx context.Context) error {
	return c.client.Handshake(ctx)
}

// GetQuote prices the request against the offer book without touching
// on-chain state.
func (c *Connector) GetQuote(
	ctx context.Context, req domain.TradeRequest,
) (*domain.Quote, error) {
	return c.client.GetQuote(ctx, req)
}

// Execute selects the best offer combination for the requested amount and
// takes every selected offer sequentially on-chain.
func (c *Connector) Execute(
	ctx context.Context, req domain.TradeRequest,
) (*domain.TradeResult, error) {
	selected, err := c.client.SelectOffers(ctx, req)
	if err != nil {
		// nothing was submitted yet: the venue just cannot serve this request
		return nil, &domain.AvailabilityError{
			Venue:  domain.VenueMarketMaker,
			Reason: err.Error(),
		}
	}

	paidAsset := common.HexToAddress(req.SellAsset)
	totalPaid := decimal.Zero
	totalReceived := decimal.Zero
	var lastTxHash common.Hash

	for _, offer := range selected {
		txHash, err := c.executor.TakeOffer(ctx, paidAsset, offer)
		if err != nil {
			if errors.As(err, new(*domain.TimeoutError)) {
				return nil, err
			}
			return nil, &domain.ExecutionError{
				Venue: domain.VenueMarketMaker,
				Err:   err,
			}
		}

		paid := offer.AmountToPay.Shift(-offer.PaidAssetDecimals)
		totalPaid = totalPaid.Add(paid)
		if offer.PricePerUnit.IsPositive() {
			totalReceived = totalReceived.Add(paid.Div(offer.PricePerUnit))
		}
		lastTxHash = txHash
	}

	return domain.NewTradeResult(
		lastTxHash.Hex(), "",
		req.SellAsset, totalPaid,
		req.BuyAsset, totalReceived,
		domain.VenueMarketMaker, c.network, domain.TradeStatusSettled,
	), nil
}

// MakeOffer creates a new offer funded by the wallet. Not part of the
// trade execution path.
func (c *Connector) MakeOffer(
	ctx context.Context, params MakeOfferParams,
) (string, error) {
	txHash, err := c.executor.MakeOffer(ctx, params)
	if err != nil {
		return "", err
	}
	return txHash.Hex(), nil
}

// CancelOffer cancels one of the wallet's own offers.
func (c *Connector) CancelOffer(
	ctx context.Context, offerID string,
) (string, error) {
	txHash, err := c.executor.CancelOffer(ctx, offerID)
	if err != nil {
		return "", err
	}
	return txHash.Hex(), nil
}

// ListOffers exposes the raw offer book, mainly for the CLI.
func (c *Connector) ListOffers(
	ctx context.Context, depositAsset, withdrawalAsset string,
) ([]domain.Offer, error) {
	return c.client.ListOffers(ctx, depositAsset, withdrawalAsset)
}

// PriceFeeds exposes the venue's live reference rates per asset.
func (c *Connector) PriceFeeds(
	ctx context.Context,
) (map[string]decimal.Decimal, error) {
	return c.client.PriceFeeds(ctx)
}
