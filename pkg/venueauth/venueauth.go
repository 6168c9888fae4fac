// Package venueauth implements the wallet-signature authentication
// handshake both venues use: the client requests a single-use challenge
// for its wallet address, signs it with the EIP-191 personal-sign scheme
// and exchanges the signature for a bearer token.
//
// Challenges are single-use and tied to the wallet address. Two clients
// sharing one wallet identity must therefore never handshake
// concurrently: the second challenge request invalidates the first.
package venueauth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/otcdex-network/otcdex-router/pkg/httputil"
)

var (
	// ErrNullSigner ...
	ErrNullSigner = errors.New("signer must not be null")
	// ErrNotAuthenticated is returned when requesting the auth header
	// before a successful handshake.
	ErrNotAuthenticated = errors.New("handshake has not been performed")
)

// Signer is the wallet identity used to answer challenges.
type Signer interface {
	Address() common.Address
	SignMessage(msg []byte) ([]byte, error)
}

// Client performs handshakes against one venue and caches the resulting
// bearer token.
type Client struct {
	baseURL string
	signer  Signer

	mtx   sync.RWMutex
	token string
}

// NewClient ...
func NewClient(baseURL string, signer Signer) (*Client, error) {
	if signer == nil {
		return nil, ErrNullSigner
	}
	return &Client{baseURL: baseURL, signer: signer}, nil
}

type challengeRequest struct {
	Address string `json:"address"`
}

type challengeReply struct {
	Challenge string `json:"challenge"`
}

type loginRequest struct {
	Address   string `json:"address"`
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}

type loginReply struct {
	Token string `json:"token"`
}

// Handshake runs the challenge/sign/login exchange and stores the token.
func (c *Client) Handshake(ctx context.Context) error {
	address := c.signer.Address().Hex()

	body, _ := json.Marshal(challengeRequest{Address: address})
	status, resp, err := httputil.NewHTTPRequest(
		ctx, "POST", c.baseURL+"/auth/challenge", string(body), nil,
	)
	if err != nil {
		return fmt.Errorf("request challenge: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("request challenge: status %d: %s", status, resp)
	}
	var challenge challengeReply
	if err := json.Unmarshal([]byte(resp), &challenge); err != nil {
		return fmt.Errorf("parse challenge: %w", err)
	}

	sig, err := c.signer.SignMessage([]byte(challenge.Challenge))
	if err != nil {
		return fmt.Errorf("sign challenge: %w", err)
	}

	body, _ = json.Marshal(loginRequest{
		Address:   address,
		Challenge: challenge.Challenge,
		Signature: "0x" + hex.EncodeToString(sig),
	})
	status, resp, err = httputil.NewHTTPRequest(
		ctx, "POST", c.baseURL+"/auth/login", string(body), nil,
	)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("login: status %d: %s", status, resp)
	}
	var login loginReply
	if err := json.Unmarshal([]byte(resp), &login); err != nil {
		return fmt.Errorf("parse login reply: %w", err)
	}

	c.mtx.Lock()
	c.token = login.Token
	c.mtx.Unlock()
	return nil
}

// AuthHeader returns the bearer header to attach to venue requests.
func (c *Client) AuthHeader() (map[string]string, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}
	return map[string]string{"Authorization": "Bearer " + c.token}, nil
}
