package application

import "errors"

var (
	// ErrTradingFailed wraps an execution failure on a single-venue
	// strategy, where falling back to the alternate venue is forbidden.
	ErrTradingFailed = errors.New("trading failed")
	// ErrNoLiquidity means no venue can serve the request.
	ErrNoLiquidity = errors.New("no liquidity")
)
