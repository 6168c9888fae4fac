package broker

import "errors"

var (
	// ErrMarketClosed means the venue's trading window (time of day and
	// weekday) is not open.
	ErrMarketClosed = errors.New("market is closed")
	// ErrAccountBlocked means the account is blocked, suspended or
	// transfer-restricted.
	ErrAccountBlocked = errors.New("account is not allowed to trade")
	// ErrInsufficientBuyingPower ...
	ErrInsufficientBuyingPower = errors.New("insufficient buying power")
	// ErrInsufficientAssetBalance ...
	ErrInsufficientAssetBalance = errors.New("insufficient asset balance")
	// ErrSymbolRequired is returned when a request carries no symbol hint;
	// the bridge addresses its off-chain market by ticker symbol.
	ErrSymbolRequired = errors.New("broker trades require a symbol hint")
	// ErrQuoteUnavailable ...
	ErrQuoteUnavailable = errors.New("broker could not quote the symbol")
	// ErrVenueException wraps any broker failure that maps to no specific
	// reason.
	ErrVenueException = errors.New("broker venue error")
)
