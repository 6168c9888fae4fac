package ports

import (
	"context"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
)

// VenueConnector is the capability every trading venue must expose to the
// router: pricing a request and executing it. Implementations isolate the
// venue's HTTP and on-chain details behind this contract.
//
// GetQuote never mutates state. Execute may move funds on-chain and must
// return typed venue errors so the orchestrator can decide on fallback.
type VenueConnector interface {
	Venue() domain.Venue
	GetQuote(ctx context.Context, req domain.TradeRequest) (*domain.Quote, error)
	Execute(ctx context.Context, req domain.TradeRequest) (*domain.TradeResult, error)
}

// Authenticator is implemented by venue clients that authenticate through
// a wallet-signature handshake. Handshakes of clients sharing one wallet
// identity consume single-use server-issued challenges and therefore must
// never run concurrently.
type Authenticator interface {
	Handshake(ctx context.Context) error
}
