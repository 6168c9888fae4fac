package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/internal/core/ports"
)

// TradeService is the routing orchestrator. It prices a request against
// both venues, picks one according to the active strategy and drives the
// execution, including the fallback to the alternate venue when the
// strategy allows it.
type TradeService interface {
	// GetQuotes asks every venue for a price concurrently. A venue that
	// cannot serve the request does not fail the call, its outage reason
	// is reported alongside the quote of the other one.
	GetQuotes(ctx context.Context, req domain.TradeRequest) (Quotes, error)
	// Trade executes the request with the given strategy and returns the
	// outcome of the winning attempt.
	Trade(
		ctx context.Context, req domain.TradeRequest, strategy domain.Strategy,
	) (*domain.TradeResult, error)
}

type tradeService struct {
	marketMaker ports.VenueConnector
	broker      ports.VenueConnector
}

// TradeServiceOpts groups the venue connectors the orchestrator routes
// between.
type TradeServiceOpts struct {
	MarketMaker ports.VenueConnector
	Broker      ports.VenueConnector
}

func (o TradeServiceOpts) validate() error {
	if o.MarketMaker == nil {
		return fmt.Errorf("missing market maker venue connector")
	}
	if o.Broker == nil {
		return fmt.Errorf("missing broker venue connector")
	}
	return nil
}

// NewTradeService returns a TradeService routing between the given
// venues. Connectors that authenticate through a wallet-signature
// handshake are initialized here, strictly one after the other because
// the signed challenges are single-use.
func NewTradeService(
	ctx context.Context, opts TradeServiceOpts,
) (TradeService, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid trade service opts: %s", err)
	}

	for _, connector := range []ports.VenueConnector{
		opts.MarketMaker, opts.Broker,
	} {
		auth, ok := connector.(ports.Authenticator)
		if !ok {
			continue
		}
		if err := auth.Handshake(ctx); err != nil {
			return nil, fmt.Errorf(
				"failed to authenticate with %s: %s", connector.Venue(), err,
			)
		}
		log.WithField("venue", connector.Venue()).Debug("venue authenticated")
	}

	return &tradeService{
		marketMaker: opts.MarketMaker,
		broker:      opts.Broker,
	}, nil
}

func (s *tradeService) GetQuotes(
	ctx context.Context, req domain.TradeRequest,
) (Quotes, error) {
	if err := req.Validate(); err != nil {
		return Quotes{}, &domain.ValidationError{Err: err}
	}

	optA, optB := s.venueOptions(ctx, req)

	quotes := Quotes{
		MarketMakerUnavailable: optA.Reason,
		BrokerUnavailable:      optB.Reason,
	}
	if optA.Available {
		quotes.MarketMaker = optA.Quote
	}
	if optB.Available {
		quotes.Broker = optB.Quote
	}
	return quotes, nil
}

func (s *tradeService) Trade(
	ctx context.Context, req domain.TradeRequest, strategy domain.Strategy,
) (*domain.TradeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Err: err}
	}
	if err := strategy.Validate(); err != nil {
		return nil, &domain.ValidationError{Err: err}
	}

	optA, optB := s.strategyOptions(ctx, req, strategy)

	selected, err := SelectVenue(optA, optB, strategy, req.Type.IsBuy())
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"venue":    selected.Venue,
		"strategy": strategy,
		"type":     req.Type,
	}).Debug("venue selected")

	result, err := s.connector(selected.Venue).Execute(ctx, req)
	if err == nil {
		return result, nil
	}

	if !strategy.AllowsFallback() || !fallbackEligible(err) {
		if _, ok := strategy.OnlyVenue(); ok {
			return nil, fmt.Errorf("%w: %w", ErrTradingFailed, err)
		}
		return nil, err
	}

	fallback := optionFor(otherVenue(selected.Venue), optA, optB)
	if !fallback.Available {
		return nil, &domain.AggregateError{
			PrimaryVenue:  selected.Venue,
			PrimaryErr:    err,
			FallbackVenue: fallback.Venue,
			FallbackErr:   &domain.AvailabilityError{Venue: fallback.Venue, Reason: fallback.Reason},
		}
	}

	log.WithFields(log.Fields{
		"venue": fallback.Venue,
		"cause": err,
	}).Debug("falling back to alternate venue")

	result, fallbackErr := s.connector(fallback.Venue).Execute(ctx, req)
	if fallbackErr != nil {
		return nil, &domain.AggregateError{
			PrimaryVenue:  selected.Venue,
			PrimaryErr:    err,
			FallbackVenue: fallback.Venue,
			FallbackErr:   fallbackErr,
		}
	}
	return result, nil
}

// strategyOptions prices the request against the venues the strategy can
// actually use. Single-venue strategies never contact the other venue at
// all.
func (s *tradeService) strategyOptions(
	ctx context.Context, req domain.TradeRequest, strategy domain.Strategy,
) (domain.VenueOption, domain.VenueOption) {
	if venue, ok := strategy.OnlyVenue(); ok {
		opt := s.fetchOption(ctx, s.connector(venue), req)
		other := domain.UnavailableOption(
			otherVenue(venue), "venue excluded by strategy",
		)
		if venue == domain.VenueMarketMaker {
			return opt, other
		}
		return other, opt
	}
	return s.venueOptions(ctx, req)
}

// venueOptions fans the quote requests out concurrently. A venue failure
// never propagates, it degrades into an unavailable option.
func (s *tradeService) venueOptions(
	ctx context.Context, req domain.TradeRequest,
) (domain.VenueOption, domain.VenueOption) {
	var optA, optB domain.VenueOption
	wg := &sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()
		optA = s.fetchOption(ctx, s.marketMaker, req)
	}()
	go func() {
		defer wg.Done()
		optB = s.fetchOption(ctx, s.broker, req)
	}()

	wg.Wait()
	return optA, optB
}

func (s *tradeService) fetchOption(
	ctx context.Context, connector ports.VenueConnector, req domain.TradeRequest,
) domain.VenueOption {
	quote, err := connector.GetQuote(ctx, req)
	if err != nil {
		log.WithFields(log.Fields{
			"venue": connector.Venue(),
			"err":   err,
		}).Debug("venue cannot quote request")
		return domain.UnavailableOption(connector.Venue(), err.Error())
	}
	return domain.AvailableOption(quote)
}

func (s *tradeService) connector(venue domain.Venue) ports.VenueConnector {
	if venue == domain.VenueMarketMaker {
		return s.marketMaker
	}
	return s.broker
}

// fallbackEligible reports whether a failed execution may be retried on
// the alternate venue. Timeouts leave the transaction outcome unknown and
// partial executions already moved funds, so both are terminal.
func fallbackEligible(err error) bool {
	var timeoutErr *domain.TimeoutError
	if errors.As(err, &timeoutErr) {
		return false
	}
	var partialErr *domain.PartialExecutionError
	if errors.As(err, &partialErr) {
		return false
	}
	return true
}
