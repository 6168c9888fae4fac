package domain

// Strategy selects how the router picks a venue for a trade.
type Strategy string

const (
	// StrategyBestPrice compares the quotes of both venues and picks the
	// one with the better effective rate.
	StrategyBestPrice Strategy = "BEST_PRICE"
	// StrategyMarketMakerOnly trades on the offer market exclusively, even
	// when the broker quotes a better price.
	StrategyMarketMakerOnly Strategy = "MARKET_MAKER_ONLY"
	// StrategyBrokerOnly trades on the broker bridge exclusively.
	StrategyBrokerOnly Strategy = "BROKER_ONLY"
	// StrategyMarketMakerFirst prefers the offer market and falls back to
	// the broker when it is unavailable or fails.
	StrategyMarketMakerFirst Strategy = "MARKET_MAKER_FIRST"
	// StrategyBrokerFirst prefers the broker and falls back to the offer
	// market when it is unavailable or fails.
	StrategyBrokerFirst Strategy = "BROKER_FIRST"
)

// Validate returns an error if the strategy is not one of the five
// supported routing strategies.
func (s Strategy) Validate() error {
	switch s {
	case StrategyBestPrice, StrategyMarketMakerOnly, StrategyBrokerOnly,
		StrategyMarketMakerFirst, StrategyBrokerFirst:
		return nil
	default:
		return ErrInvalidStrategy
	}
}

// AllowsFallback reports whether a failed execution may be retried on the
// alternate venue. Single-venue strategies never fall back.
func (s Strategy) AllowsFallback() bool {
	switch s {
	case StrategyBestPrice, StrategyMarketMakerFirst, StrategyBrokerFirst:
		return true
	default:
		return false
	}
}

// OnlyVenue returns the venue a single-venue strategy is pinned to, and
// whether the strategy is single-venue at all.
func (s Strategy) OnlyVenue() (Venue, bool) {
	switch s {
	case StrategyMarketMakerOnly:
		return VenueMarketMaker, true
	case StrategyBrokerOnly:
		return VenueBroker, true
	default:
		return "", false
	}
}

// PreferredVenue returns the venue a venue-first strategy tries first, and
// whether the strategy expresses such a preference.
func (s Strategy) PreferredVenue() (Venue, bool) {
	switch s {
	case StrategyMarketMakerFirst:
		return VenueMarketMaker, true
	case StrategyBrokerFirst:
		return VenueBroker, true
	default:
		return "", false
	}
}
