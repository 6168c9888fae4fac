package application_test

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
)

type mockVenueConnector struct {
	venue domain.Venue

	quote    *domain.Quote
	quoteErr error

	result     *domain.TradeResult
	executeErr error

	handshakeErr error

	lock         sync.Mutex
	quoteCalls   int
	executeCalls int
	handshakes   int
}

func newMockVenueConnector(venue domain.Venue) *mockVenueConnector {
	return &mockVenueConnector{venue: venue}
}

func (m *mockVenueConnector) withQuote(
	sellAmount, buyAmount string,
) *mockVenueConnector {
	m.quote = domain.NewQuote(
		"USDC", "WETH",
		decimal.RequireFromString(sellAmount),
		decimal.RequireFromString(buyAmount),
		m.venue,
	)
	return m
}

func (m *mockVenueConnector) withQuoteErr(err error) *mockVenueConnector {
	m.quoteErr = err
	return m
}

func (m *mockVenueConnector) withResult() *mockVenueConnector {
	m.result = &domain.TradeResult{
		TxHash: "0xmock",
		Venue:  m.venue,
		Status: domain.TradeStatusSettled,
	}
	return m
}

func (m *mockVenueConnector) withExecuteErr(err error) *mockVenueConnector {
	m.executeErr = err
	return m
}

func (m *mockVenueConnector) Venue() domain.Venue { return m.venue }

func (m *mockVenueConnector) GetQuote(
	_ context.Context, _ domain.TradeRequest,
) (*domain.Quote, error) {
	m.lock.Lock()
	m.quoteCalls++
	m.lock.Unlock()
	if m.quoteErr != nil {
		return nil, m.quoteErr
	}
	return m.quote, nil
}

func (m *mockVenueConnector) Execute(
	_ context.Context, _ domain.TradeRequest,
) (*domain.TradeResult, error) {
	m.lock.Lock()
	m.executeCalls++
	m.lock.Unlock()
	if m.executeErr != nil {
		return nil, m.executeErr
	}
	return m.result, nil
}

func (m *mockVenueConnector) calls() (quotes, executes int) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.quoteCalls, m.executeCalls
}

// mockAuthConnector is a venue connector requiring a wallet-signature
// handshake before use.
type mockAuthConnector struct {
	*mockVenueConnector
}

func newMockAuthConnector(venue domain.Venue) *mockAuthConnector {
	return &mockAuthConnector{
		mockVenueConnector: newMockVenueConnector(venue),
	}
}

func (m *mockAuthConnector) Handshake(_ context.Context) error {
	m.lock.Lock()
	m.handshakes++
	m.lock.Unlock()
	return m.handshakeErr
}
