package application

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
)

// SelectVenue picks the venue to execute on given the two quote outcomes,
// the active strategy and the trade direction. It is a pure function: no
// I/O, no randomness, identical inputs always yield identical selections.
//
// The first argument is the first-evaluated venue and wins exact ties
// under the best-price strategy.
func SelectVenue(
	optA, optB domain.VenueOption,
	strategy domain.Strategy,
	isBuy bool,
) (domain.VenueOption, error) {
	if !optA.Available && !optB.Available {
		return domain.VenueOption{}, &domain.AvailabilityError{
			Reason: fmt.Sprintf(
				"%s: %s: %s; %s: %s",
				ErrNoLiquidity, optA.Venue, optA.Reason, optB.Venue, optB.Reason,
			),
		}
	}

	// single-venue strategies ignore the other venue entirely, even when
	// it quotes a better price
	if venue, ok := strategy.OnlyVenue(); ok {
		opt := optionFor(venue, optA, optB)
		if !opt.Available {
			return domain.VenueOption{}, &domain.AvailabilityError{
				Venue:  venue,
				Reason: fmt.Sprintf("%s: %s", ErrNoLiquidity, opt.Reason),
			}
		}
		return opt, nil
	}

	if venue, ok := strategy.PreferredVenue(); ok {
		opt := optionFor(venue, optA, optB)
		if opt.Available {
			return opt, nil
		}
		return optionFor(otherVenue(venue), optA, optB), nil
	}

	// best price
	if !optB.Available {
		return optA, nil
	}
	if !optA.Available {
		return optB, nil
	}
	return selectBestPrice(optA, optB, isBuy), nil
}

// selectBestPrice compares the two quotes, whose rate is always the buy
// amount per unit of sell amount. For buys the comparison runs on the
// inverted rate, the unit price actually paid per acquired unit, and the
// lower price wins; for sells the higher rate wins. Both comparisons
// break ties in favor of the first-evaluated venue.
func selectBestPrice(optA, optB domain.VenueOption, isBuy bool) domain.VenueOption {
	rateA := optA.Quote.Rate
	rateB := optB.Quote.Rate

	if isBuy {
		// a zero rate cannot be inverted and loses against any priced quote
		switch {
		case rateA.IsZero() && rateB.IsZero():
			return optA
		case rateA.IsZero():
			return optB
		case rateB.IsZero():
			return optA
		}
		priceA := decimal.New(1, 0).Div(rateA)
		priceB := decimal.New(1, 0).Div(rateB)
		if priceA.LessThanOrEqual(priceB) {
			return optA
		}
		return optB
	}

	if rateA.GreaterThanOrEqual(rateB) {
		return optA
	}
	return optB
}

func optionFor(
	venue domain.Venue, optA, optB domain.VenueOption,
) domain.VenueOption {
	if optA.Venue == venue {
		return optA
	}
	return optB
}

func otherVenue(venue domain.Venue) domain.Venue {
	if venue == domain.VenueMarketMaker {
		return domain.VenueBroker
	}
	return domain.VenueMarketMaker
}
