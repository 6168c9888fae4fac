package application

import "github.com/otcdex-network/otcdex-router/internal/core/domain"

// Quotes holds the outcome of asking every venue for a price. A nil quote
// means the venue could not serve the request; its reason lives in the
// matching Unavailable field.
type Quotes struct {
	MarketMaker            *domain.Quote
	MarketMakerUnavailable string
	Broker                 *domain.Quote
	BrokerUnavailable      string
}

// Best returns the option selected by the given strategy, so callers can
// preview the routing decision without executing.
func (q Quotes) Best(
	strategy domain.Strategy, isBuy bool,
) (domain.VenueOption, error) {
	return SelectVenue(
		q.marketMakerOption(), q.brokerOption(), strategy, isBuy,
	)
}

func (q Quotes) marketMakerOption() domain.VenueOption {
	if q.MarketMaker == nil {
		return domain.UnavailableOption(
			domain.VenueMarketMaker, q.MarketMakerUnavailable,
		)
	}
	return domain.AvailableOption(q.MarketMaker)
}

func (q Quotes) brokerOption() domain.VenueOption {
	if q.Broker == nil {
		return domain.UnavailableOption(domain.VenueBroker, q.BrokerUnavailable)
	}
	return domain.AvailableOption(q.Broker)
}
