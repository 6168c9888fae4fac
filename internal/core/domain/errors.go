package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidTradeType ...
	ErrInvalidTradeType = errors.New("trade type must be either BUY or SELL")
	// ErrInvalidNetwork ...
	ErrInvalidNetwork = errors.New("network is not one of the supported chains")
	// ErrInvalidStrategy ...
	ErrInvalidStrategy = errors.New("strategy is not supported")
	// ErrAmountRequired is returned when a request specifies neither the
	// sell nor the buy amount.
	ErrAmountRequired = errors.New("either the sell or the buy amount must be specified")
	// ErrAmbiguousAmount is returned when a request specifies both the
	// sell and the buy amount.
	ErrAmbiguousAmount = errors.New("only one of sell and buy amount can be specified")
	// ErrOfferNotCancellable is thrown when trying to cancel an offer that
	// has already been fully taken.
	ErrOfferNotCancellable = errors.New("offer cannot be cancelled once fully taken")
	// ErrOfferNotTakeable is thrown when trying to take an offer that is
	// cancelled or fully taken.
	ErrOfferNotTakeable = errors.New("offer is not open for taking")
	// ErrOfferInsufficientAmount is thrown when the requested fill exceeds
	// the offer's available amount.
	ErrOfferInsufficientAmount = errors.New("fill amount exceeds offer available amount")
	// ErrOfferBlockFillOnly is thrown when partially filling an offer that
	// only supports block fills.
	ErrOfferBlockFillOnly = errors.New("offer must be taken in full")
	// ErrOfferExpired ...
	ErrOfferExpired = errors.New("offer is expired")
)

// ValidationError is a malformed request detected locally, before any
// network call is made. It is never retried.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AvailabilityError signals that a venue cannot serve the current request
// (market closed, account blocked, no liquidity). Depending on the active
// strategy it may trigger a fallback to the alternate venue.
type AvailabilityError struct {
	Venue  Venue
	Reason string
}

func (e *AvailabilityError) Error() string {
	if e.Venue == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s unavailable: %s", e.Venue, e.Reason)
}

// ExecutionError signals a failure after an execution attempt was actually
// submitted to a venue.
type ExecutionError struct {
	Venue Venue
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution on %s failed: %s", e.Venue, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// TimeoutError signals that an on-chain confirmation was not observed
// within the configured bound. It is fatal for the attempt and is never
// auto-retried against the same venue.
type TimeoutError struct {
	TxHash  string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf(
		"transaction %s not confirmed within %s", e.TxHash, e.Timeout,
	)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// AggregateError carries the failures of both the primary and the fallback
// execution attempt.
type AggregateError struct {
	PrimaryVenue  Venue
	PrimaryErr    error
	FallbackVenue Venue
	FallbackErr   error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf(
		"all venues failed: %s: %s; %s: %s",
		e.PrimaryVenue, e.PrimaryErr, e.FallbackVenue, e.FallbackErr,
	)
}

// PartialExecutionError signals that funds were moved on-chain but the
// off-chain order referencing the transfer was not recorded. The transfer
// hash is preserved for manual reconciliation; the attempt must not be
// silently retried.
type PartialExecutionError struct {
	Venue  Venue
	TxHash string
	Err    error
}

func (e *PartialExecutionError) Error() string {
	return fmt.Sprintf(
		"funds transferred on %s (tx %s) but order submission failed: %s",
		e.Venue, e.TxHash, e.Err,
	)
}

func (e *PartialExecutionError) Unwrap() error { return e.Err }
