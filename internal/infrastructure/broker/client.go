package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/otcdex-network/otcdex-router/pkg/circuitbreaker"
	"github.com/otcdex-network/otcdex-router/pkg/httputil"
	"github.com/otcdex-network/otcdex-router/pkg/venueauth"
)

// Client talks to the bridge venue's brokerage API. Every call carries
// the bearer token obtained through the wallet-signature handshake.
type Client struct {
	apiURL string
	auth   *venueauth.Client
	cb     *gobreaker.CircuitBreaker
}

// NewClient ...
func NewClient(apiURL string, signer venueauth.Signer) (*Client, error) {
	auth, err := venueauth.NewClient(apiURL, signer)
	if err != nil {
		return nil, err
	}
	return &Client{
		apiURL: apiURL,
		auth:   auth,
		cb:     circuitbreaker.NewCircuitBreaker("broker"),
	}, nil
}

// Handshake authenticates the client's wallet towards the venue.
func (c *Client) Handshake(ctx context.Context) error {
	return c.auth.Handshake(ctx)
}

// AccountStatus returns the raw account status string.
func (c *Client) AccountStatus(ctx context.Context) (string, error) {
	body, err := c.do(ctx, "GET", "/account/status", "")
	if err != nil {
		return "", err
	}
	var reply accountStatusReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return "", fmt.Errorf("parse account status: %w", err)
	}
	return reply.Status, nil
}

// AccountFunds returns buying power and per-symbol balances.
func (c *Client) AccountFunds(ctx context.Context) (*accountFundsReply, error) {
	body, err := c.do(ctx, "GET", "/account/funds", "")
	if err != nil {
		return nil, err
	}
	var reply accountFundsReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, fmt.Errorf("parse account funds: %w", err)
	}
	return &reply, nil
}

// SymbolQuote returns the real-time bid/ask for the symbol.
func (c *Client) SymbolQuote(
	ctx context.Context, symbol string,
) (*symbolQuoteReply, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	body, err := c.do(ctx, "GET", "/quotes?"+query.Encode(), "")
	if err != nil {
		return nil, err
	}
	var reply symbolQuoteReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, fmt.Errorf("parse symbol quote: %w", err)
	}
	return &reply, nil
}

// EscrowAddress returns the venue-controlled wallet that receives the
// taker's payment on the given settlement network.
func (c *Client) EscrowAddress(
	ctx context.Context, network string,
) (string, error) {
	query := url.Values{}
	query.Set("network", network)
	body, err := c.do(ctx, "GET", "/escrow-address?"+query.Encode(), "")
	if err != nil {
		return "", err
	}
	var reply escrowAddressReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return "", fmt.Errorf("parse escrow address: %w", err)
	}
	return reply.Address, nil
}

// CreateOrder submits the off-chain order referencing the confirmed
// escrow transfer.
func (c *Client) CreateOrder(
	ctx context.Context, order orderRequest,
) (*orderReply, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, "POST", "/orders", string(payload))
	if err != nil {
		return nil, err
	}
	var reply orderReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, fmt.Errorf("parse order reply: %w", err)
	}
	return &reply, nil
}

func (c *Client) do(ctx context.Context, method, path, payload string) (string, error) {
	header, err := c.auth.AuthHeader()
	if err != nil {
		return "", err
	}

	// only transport failures and server errors count towards the breaker
	res, err := c.cb.Execute(func() (interface{}, error) {
		status, body, err := httputil.NewHTTPRequest(
			ctx, method, c.apiURL+path, payload, header,
		)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("broker api: status %d: %s", status, body)
		}
		return httpReply{status: status, body: body}, nil
	})
	if err != nil {
		return "", err
	}

	reply := res.(httpReply)
	switch {
	case reply.status == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrQuoteUnavailable, reply.body)
	case reply.status >= http.StatusBadRequest:
		return "", fmt.Errorf(
			"%w: status %d: %s", ErrVenueException, reply.status, reply.body,
		)
	}
	return reply.body, nil
}

type httpReply struct {
	status int
	body   string
}
