package marketmaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/pkg/circuitbreaker"
	"github.com/otcdex-network/otcdex-router/pkg/httputil"
	"github.com/otcdex-network/otcdex-router/pkg/venueauth"
)

const requestsPerSecond = 10

// Client talks to the offer market's discovery API: offer listings, the
// best-offer-combination selection for a target amount, price quotes and
// price feeds. All of these are reads; state mutations happen on-chain
// through the Executor.
type Client struct {
	apiURL  string
	auth    *venueauth.Client
	cb      *gobreaker.CircuitBreaker
	limiter ratelimit.Limiter
}

// NewClient ...
func NewClient(apiURL string, signer venueauth.Signer) (*Client, error) {
	auth, err := venueauth.NewClient(apiURL, signer)
	if err != nil {
		return nil, err
	}
	return &Client{
		apiURL:  apiURL,
		auth:    auth,
		cb:      circuitbreaker.NewCircuitBreaker("marketmaker"),
		limiter: ratelimit.New(requestsPerSecond),
	}, nil
}

// Handshake authenticates the client's wallet towards the venue.
func (c *Client) Handshake(ctx context.Context) error {
	return c.auth.Handshake(ctx)
}

// ListOffers returns the open offers for the given pair.
func (c *Client) ListOffers(
	ctx context.Context, depositAsset, withdrawalAsset string,
) ([]domain.Offer, error) {
	query := url.Values{}
	query.Set("depositAsset", depositAsset)
	query.Set("withdrawalAsset", withdrawalAsset)

	body, err := c.get(ctx, "/offers?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var dtos []offerDTO
	if err := json.Unmarshal([]byte(body), &dtos); err != nil {
		return nil, fmt.Errorf("parse offers: %w", err)
	}
	offers := make([]domain.Offer, 0, len(dtos))
	for _, dto := range dtos {
		offer, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}
	return offers, nil
}

// SelectOffers asks the discovery service for the best combination of
// offers satisfying the request's target amount. The reply carries the
// slippage-bounded max rate for dynamically priced offers.
func (c *Client) SelectOffers(
	ctx context.Context, req domain.TradeRequest,
) ([]domain.SelectedOffer, error) {
	body, err := c.get(ctx, "/offers/select?"+tradeQuery(req).Encode())
	if err != nil {
		return nil, err
	}

	var reply selectOffersReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, fmt.Errorf("parse selected offers: %w", err)
	}
	if len(reply.Offers) == 0 {
		return nil, ErrNoOffers
	}

	selected := make([]domain.SelectedOffer, 0, len(reply.Offers))
	for _, dto := range reply.Offers {
		offer, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		selected = append(selected, offer)
	}
	return selected, nil
}

// GetQuote prices the request against the current offer book.
func (c *Client) GetQuote(
	ctx context.Context, req domain.TradeRequest,
) (*domain.Quote, error) {
	body, err := c.get(ctx, "/quote?"+tradeQuery(req).Encode())
	if err != nil {
		return nil, err
	}

	var reply quoteReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, fmt.Errorf("parse quote: %w", err)
	}
	sellAmount, err := decimal.NewFromString(reply.SellAmount)
	if err != nil {
		return nil, fmt.Errorf("parse quote sell amount: %w", err)
	}
	buyAmount, err := decimal.NewFromString(reply.BuyAmount)
	if err != nil {
		return nil, fmt.Errorf("parse quote buy amount: %w", err)
	}

	return domain.NewQuote(
		req.SellAsset, req.BuyAsset, sellAmount, buyAmount,
		domain.VenueMarketMaker,
	), nil
}

// PriceFeeds returns the live reference rates the venue derives dynamic
// offer prices from.
func (c *Client) PriceFeeds(ctx context.Context) (map[string]decimal.Decimal, error) {
	body, err := c.get(ctx, "/price-feeds")
	if err != nil {
		return nil, err
	}

	var dtos []priceFeedDTO
	if err := json.Unmarshal([]byte(body), &dtos); err != nil {
		return nil, fmt.Errorf("parse price feeds: %w", err)
	}
	feeds := make(map[string]decimal.Decimal, len(dtos))
	for _, dto := range dtos {
		rate, err := decimal.NewFromString(dto.Rate)
		if err != nil {
			return nil, fmt.Errorf("parse feed rate for %s: %w", dto.Asset, err)
		}
		feeds[dto.Asset] = rate
	}
	return feeds, nil
}

func tradeQuery(req domain.TradeRequest) url.Values {
	query := url.Values{}
	query.Set("sellAsset", req.SellAsset)
	query.Set("buyAsset", req.BuyAsset)
	if req.SellAmount.IsPositive() {
		query.Set("sellAmount", req.SellAmount.String())
	} else {
		query.Set("buyAmount", req.BuyAmount.String())
	}
	return query
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	c.limiter.Take()

	header, err := c.auth.AuthHeader()
	if err != nil && !errors.Is(err, venueauth.ErrNotAuthenticated) {
		return "", err
	}

	// only transport failures and server errors count towards the breaker
	res, err := c.cb.Execute(func() (interface{}, error) {
		status, body, err := httputil.NewHTTPRequest(
			ctx, "GET", c.apiURL+path, "", header,
		)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("marketmaker api: status %d: %s", status, body)
		}
		return httpReply{status: status, body: body}, nil
	})
	if err != nil {
		return "", err
	}

	reply := res.(httpReply)
	switch {
	case reply.status == http.StatusNotFound:
		return "", ErrNoOffers
	case reply.status != http.StatusOK:
		return "", fmt.Errorf(
			"%w: status %d: %s", ErrQuoteUnavailable, reply.status, reply.body,
		)
	}
	return reply.body, nil
}

type httpReply struct {
	status int
	body   string
}
