package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is an ephemeral price indication returned by a venue. It is never
// persisted and never mutated after creation.
type Quote struct {
	SellAsset  string
	BuyAsset   string
	SellAmount decimal.Decimal
	BuyAmount  decimal.Decimal
	Rate       decimal.Decimal
	Venue      Venue
	Timestamp  time.Time
}

// NewQuote returns a quote for the given pair with its rate derived as
// buy amount per unit of sell amount. A zero sell amount yields a zero
// rate.
func NewQuote(
	sellAsset, buyAsset string,
	sellAmount, buyAmount decimal.Decimal,
	venue Venue,
) *Quote {
	rate := decimal.Zero
	if !sellAmount.IsZero() {
		rate = buyAmount.Div(sellAmount)
	}
	return &Quote{
		SellAsset:  sellAsset,
		BuyAsset:   buyAsset,
		SellAmount: sellAmount,
		BuyAmount:  buyAmount,
		Rate:       rate,
		Venue:      venue,
		Timestamp:  time.Now(),
	}
}

// VenueOption is the outcome of asking one venue for a quote. Either the
// venue is available and carries a quote, or it is unavailable and carries
// the reason why.
type VenueOption struct {
	Venue     Venue
	Quote     *Quote
	Available bool
	Reason    string
}

// AvailableOption wraps a quote into an available venue option.
func AvailableOption(quote *Quote) VenueOption {
	return VenueOption{
		Venue:     quote.Venue,
		Quote:     quote,
		Available: true,
	}
}

// UnavailableOption records why a venue could not quote the request.
func UnavailableOption(venue Venue, reason string) VenueOption {
	return VenueOption{
		Venue:     venue,
		Available: false,
		Reason:    reason,
	}
}
