package onchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"golang.org/x/time/rate"
)

const (
	// DefaultConfirmationTimeout bounds how long a confirmation wait can
	// block the calling flow.
	DefaultConfirmationTimeout = 300 * time.Second
	// DefaultPollInterval is the pace of receipt lookups while waiting.
	DefaultPollInterval = 3 * time.Second
)

var (
	// ErrTxReverted is returned when the receipt reports a failed status.
	// A reverted transaction is a distinct failure from a timeout.
	ErrTxReverted = errors.New("transaction reverted on-chain")
	// ErrConfirmationTimeout is returned when no receipt is observed
	// within the bound. The transaction may still confirm later; it is
	// never resubmitted.
	ErrConfirmationTimeout = errors.New("transaction not confirmed in time")
)

// WaitOptions tweaks a confirmation wait. Zero values fall back to the
// package defaults.
type WaitOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

// WaitForConfirmation polls the chain until the transaction is mined, the
// timeout expires or the context is cancelled. On revert it returns both
// the receipt and ErrTxReverted so callers can inspect the failed receipt.
func WaitForConfirmation(
	ctx context.Context,
	client ChainClient,
	txHash common.Hash,
	opts WaitOptions,
) (*types.Receipt, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultConfirmationTimeout
	}
	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(pollInterval), 1)
	for {
		if err := limiter.Wait(ctx); err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, fmt.Errorf(
					"%w: %s after %s", ErrConfirmationTimeout, txHash.Hex(), timeout,
				)
			}
			return nil, ctx.Err()
		}

		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				continue
			}
			// transient lookup failures are absorbed by the poll loop
			continue
		}

		if receipt.Status == types.ReceiptStatusFailed {
			return receipt, fmt.Errorf("%w: %s", ErrTxReverted, txHash.Hex())
		}
		return receipt, nil
	}
}
