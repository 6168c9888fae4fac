package marketmaker

import "errors"

var (
	// ErrNoOffers means no maker currently offers the requested pair.
	ErrNoOffers = errors.New("no offers available for the requested pair")
	// ErrQuoteUnavailable means the discovery service could not price the
	// request for a reason other than empty liquidity.
	ErrQuoteUnavailable = errors.New("market maker could not quote the request")
	// ErrOfferNotFound ...
	ErrOfferNotFound = errors.New("offer not found on-chain")
	// ErrOfferNotActive ...
	ErrOfferNotActive = errors.New("offer is not active")
	// ErrInsufficientOfferBalance ...
	ErrInsufficientOfferBalance = errors.New("offer has not enough balance left")
	// ErrOfferExpired ...
	ErrOfferExpired = errors.New("offer is expired")
	// ErrUnauthorizedTaker ...
	ErrUnauthorizedTaker = errors.New("taker is not authorized for this offer")
	// ErrMissingMaxRate is thrown when taking a dynamically priced offer
	// without the maximum acceptable rate bound from the selection step.
	ErrMissingMaxRate = errors.New("dynamic pricing requires a maximum rate bound")
	// ErrInvalidOfferID ...
	ErrInvalidOfferID = errors.New("offer id must be a decimal integer")
	// ErrVenueException wraps any market maker failure that maps to no
	// specific reason.
	ErrVenueException = errors.New("market maker venue error")
)
