package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/otcdex-network/otcdex-router/internal/core/application"
	"github.com/otcdex-network/otcdex-router/internal/core/domain"
)

var testRequest = domain.TradeRequest{
	SellAsset:  "USDC",
	BuyAsset:   "WETH",
	SellAmount: decimal.RequireFromString("1000"),
	SymbolHint: "WETH",
	Type:       domain.TradeBuy,
}

func TestNewTradeService(t *testing.T) {
	t.Run("runs the venue handshakes at startup", func(t *testing.T) {
		marketMaker := newMockAuthConnector(domain.VenueMarketMaker)
		broker := newMockAuthConnector(domain.VenueBroker)

		_, err := application.NewTradeService(
			context.Background(), application.TradeServiceOpts{
				MarketMaker: marketMaker,
				Broker:      broker,
			},
		)
		require.NoError(t, err)
		require.Equal(t, 1, marketMaker.handshakes)
		require.Equal(t, 1, broker.handshakes)
	})

	t.Run("fails when a handshake fails", func(t *testing.T) {
		marketMaker := newMockAuthConnector(domain.VenueMarketMaker)
		broker := newMockAuthConnector(domain.VenueBroker)
		broker.handshakeErr = errors.New("challenge rejected")

		_, err := application.NewTradeService(
			context.Background(), application.TradeServiceOpts{
				MarketMaker: marketMaker,
				Broker:      broker,
			},
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "challenge rejected")
	})

	t.Run("fails without both connectors", func(t *testing.T) {
		_, err := application.NewTradeService(
			context.Background(), application.TradeServiceOpts{
				MarketMaker: newMockVenueConnector(domain.VenueMarketMaker),
			},
		)
		require.Error(t, err)
	})
}

func TestGetQuotes(t *testing.T) {
	t.Run("returns both quotes", func(t *testing.T) {
		svc := newTestService(
			t,
			newMockVenueConnector(domain.VenueMarketMaker).withQuote("1000", "0.5"),
			newMockVenueConnector(domain.VenueBroker).withQuote("1000", "0.48"),
		)

		quotes, err := svc.GetQuotes(context.Background(), testRequest)
		require.NoError(t, err)
		require.NotNil(t, quotes.MarketMaker)
		require.NotNil(t, quotes.Broker)
		require.Equal(t, "0.0005", quotes.MarketMaker.Rate.String())
	})

	t.Run("a venue failure degrades into an outage reason", func(t *testing.T) {
		svc := newTestService(
			t,
			newMockVenueConnector(domain.VenueMarketMaker).
				withQuoteErr(errors.New("no offers")),
			newMockVenueConnector(domain.VenueBroker).withQuote("1000", "0.48"),
		)

		quotes, err := svc.GetQuotes(context.Background(), testRequest)
		require.NoError(t, err)
		require.Nil(t, quotes.MarketMaker)
		require.Equal(t, "no offers", quotes.MarketMakerUnavailable)
		require.NotNil(t, quotes.Broker)
	})

	t.Run("fails on malformed request without any venue call", func(t *testing.T) {
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker)
		broker := newMockVenueConnector(domain.VenueBroker)
		svc := newTestService(t, marketMaker, broker)

		badReq := testRequest
		badReq.BuyAmount = decimal.RequireFromString("1")

		_, err := svc.GetQuotes(context.Background(), badReq)
		require.Error(t, err)
		require.IsType(t, &domain.ValidationError{}, err)
		require.ErrorIs(t, err, domain.ErrAmbiguousAmount)

		quoteCalls, _ := marketMaker.calls()
		require.Zero(t, quoteCalls)
		quoteCalls, _ = broker.calls()
		require.Zero(t, quoteCalls)
	})
}

func TestTrade(t *testing.T) {
	t.Run("best price executes on the better venue", func(t *testing.T) {
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker).
			withQuote("1000", "0.5").withResult()
		broker := newMockVenueConnector(domain.VenueBroker).
			withQuote("1000", "0.48").withResult()
		svc := newTestService(t, marketMaker, broker)

		result, err := svc.Trade(
			context.Background(), testRequest, domain.StrategyBestPrice,
		)
		require.NoError(t, err)
		require.Equal(t, domain.VenueMarketMaker, result.Venue)

		_, executes := marketMaker.calls()
		require.Equal(t, 1, executes)
		_, executes = broker.calls()
		require.Zero(t, executes)
	})

	t.Run("single-venue strategy never contacts the other venue", func(t *testing.T) {
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker).
			withQuote("1000", "0.5").withResult()
		broker := newMockVenueConnector(domain.VenueBroker).
			withQuote("1000", "0.48").withResult()
		svc := newTestService(t, marketMaker, broker)

		_, err := svc.Trade(
			context.Background(), testRequest, domain.StrategyMarketMakerOnly,
		)
		require.NoError(t, err)

		quoteCalls, executes := broker.calls()
		require.Zero(t, quoteCalls)
		require.Zero(t, executes)
	})

	t.Run("single-venue strategy wraps the execution failure", func(t *testing.T) {
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker).
			withQuote("1000", "0.5").
			withExecuteErr(&domain.ExecutionError{
				Venue: domain.VenueMarketMaker,
				Err:   errors.New("transaction reverted"),
			})
		broker := newMockVenueConnector(domain.VenueBroker).
			withQuote("1000", "0.48").withResult()
		svc := newTestService(t, marketMaker, broker)

		_, err := svc.Trade(
			context.Background(), testRequest, domain.StrategyMarketMakerOnly,
		)
		require.Error(t, err)
		require.ErrorIs(t, err, application.ErrTradingFailed)

		_, executes := broker.calls()
		require.Zero(t, executes)
	})

	t.Run("best price falls back when execution fails", func(t *testing.T) {
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker).
			withQuote("1000", "0.5").
			withExecuteErr(&domain.ExecutionError{
				Venue: domain.VenueMarketMaker,
				Err:   errors.New("transaction reverted"),
			})
		broker := newMockVenueConnector(domain.VenueBroker).
			withQuote("1000", "0.48").withResult()
		svc := newTestService(t, marketMaker, broker)

		result, err := svc.Trade(
			context.Background(), testRequest, domain.StrategyBestPrice,
		)
		require.NoError(t, err)
		require.Equal(t, domain.VenueBroker, result.Venue)
	})

	t.Run("aggregates both failures when the fallback fails too", func(t *testing.T) {
		primaryErr := &domain.ExecutionError{
			Venue: domain.VenueMarketMaker,
			Err:   errors.New("transaction reverted"),
		}
		fallbackErr := &domain.ExecutionError{
			Venue: domain.VenueBroker,
			Err:   errors.New("order rejected"),
		}
		svc := newTestService(
			t,
			newMockVenueConnector(domain.VenueMarketMaker).
				withQuote("1000", "0.5").withExecuteErr(primaryErr),
			newMockVenueConnector(domain.VenueBroker).
				withQuote("1000", "0.48").withExecuteErr(fallbackErr),
		)

		_, err := svc.Trade(
			context.Background(), testRequest, domain.StrategyBestPrice,
		)
		require.Error(t, err)

		aggErr, ok := err.(*domain.AggregateError)
		require.True(t, ok)
		require.Equal(t, domain.VenueMarketMaker, aggErr.PrimaryVenue)
		require.Equal(t, primaryErr, aggErr.PrimaryErr)
		require.Equal(t, domain.VenueBroker, aggErr.FallbackVenue)
		require.Equal(t, fallbackErr, aggErr.FallbackErr)
	})

	t.Run("never falls back after a confirmation timeout", func(t *testing.T) {
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker).
			withQuote("1000", "0.5").
			withExecuteErr(&domain.TimeoutError{
				TxHash:  "0xabc",
				Timeout: 5 * time.Minute,
			})
		broker := newMockVenueConnector(domain.VenueBroker).
			withQuote("1000", "0.48").withResult()
		svc := newTestService(t, marketMaker, broker)

		_, err := svc.Trade(
			context.Background(), testRequest, domain.StrategyBestPrice,
		)
		require.Error(t, err)
		require.IsType(t, &domain.TimeoutError{}, err)

		_, executes := broker.calls()
		require.Zero(t, executes)
	})

	t.Run("never falls back after a partial execution", func(t *testing.T) {
		broker := newMockVenueConnector(domain.VenueBroker).
			withQuote("1", "100").
			withExecuteErr(&domain.PartialExecutionError{
				Venue:  domain.VenueBroker,
				TxHash: "0xabc",
				Err:    errors.New("order rejected"),
			})
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker).
			withQuote("1", "98").withResult()
		svc := newTestService(t, marketMaker, broker)

		sellReq := domain.TradeRequest{
			SellAsset:  "WETH",
			BuyAsset:   "USDC",
			SellAmount: decimal.RequireFromString("1"),
			SymbolHint: "WETH",
			Type:       domain.TradeSell,
		}

		_, err := svc.Trade(
			context.Background(), sellReq, domain.StrategyBrokerFirst,
		)
		require.Error(t, err)

		var partialErr *domain.PartialExecutionError
		require.ErrorAs(t, err, &partialErr)
		require.Equal(t, "0xabc", partialErr.TxHash)

		_, executes := marketMaker.calls()
		require.Zero(t, executes)
	})

	t.Run("fails with no liquidity when both venues are down", func(t *testing.T) {
		svc := newTestService(
			t,
			newMockVenueConnector(domain.VenueMarketMaker).
				withQuoteErr(errors.New("no offers")),
			newMockVenueConnector(domain.VenueBroker).
				withQuoteErr(errors.New("market closed")),
		)

		_, err := svc.Trade(
			context.Background(), testRequest, domain.StrategyBestPrice,
		)
		require.Error(t, err)
		require.IsType(t, &domain.AvailabilityError{}, err)
	})

	t.Run("fails on unknown strategy without any venue call", func(t *testing.T) {
		marketMaker := newMockVenueConnector(domain.VenueMarketMaker)
		broker := newMockVenueConnector(domain.VenueBroker)
		svc := newTestService(t, marketMaker, broker)

		_, err := svc.Trade(
			context.Background(), testRequest, domain.Strategy("CHEAPEST"),
		)
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrInvalidStrategy)

		quoteCalls, _ := marketMaker.calls()
		require.Zero(t, quoteCalls)
	})
}

func newTestService(
	t *testing.T, marketMaker, broker *mockVenueConnector,
) application.TradeService {
	svc, err := application.NewTradeService(
		context.Background(), application.TradeServiceOpts{
			MarketMaker: marketMaker,
			Broker:      broker,
		},
	)
	require.NoError(t, err)
	return svc
}
