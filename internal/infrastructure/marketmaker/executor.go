package marketmaker

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
	"github.com/otcdex-network/otcdex-router/pkg/onchain"
)

// Executor performs the on-chain half of the offer market protocol:
// taking, making and cancelling offers, with allowance management and
// bounded confirmation waits.
type Executor struct {
	client          onchain.ChainClient
	erc20           *onchain.ERC20
	sender          *onchain.Sender
	wallet          *onchain.Wallet
	contractAddress common.Address
	affiliate       common.Address
	waitOpts        onchain.WaitOptions
}

// NewExecutor ...
func NewExecutor(
	client onchain.ChainClient,
	erc20 *onchain.ERC20,
	wallet *onchain.Wallet,
	contractAddress, affiliate common.Address,
	waitOpts onchain.WaitOptions,
) *Executor {
	return &Executor{
		client:          client,
		erc20:           erc20,
		sender:          onchain.NewSender(client, wallet),
		wallet:          wallet,
		contractAddress: contractAddress,
		affiliate:       affiliate,
		waitOpts:        waitOpts,
	}
}

// TakeOffer fills the selected offer with its pre-computed amount in the
// paid asset's smallest units. Dynamically priced offers require the max
// rate bound resolved during offer selection.
func (e *Executor) TakeOffer(
	ctx context.Context,
	paidAsset common.Address,
	offer domain.SelectedOffer,
) (common.Hash, error) {
	if offer.PricingType == domain.PricingTypeDynamic &&
		!offer.MaxRateForDynamicPricing.IsPositive() {
		return common.Hash{}, ErrMissingMaxRate
	}

	amountToPay := offer.AmountToPay.Truncate(0).BigInt()
	if err := e.ensureAllowance(ctx, paidAsset, amountToPay); err != nil {
		return common.Hash{}, err
	}

	var data []byte
	var err error
	if offer.PricingType == domain.PricingTypeDynamic {
		data, err = packTakeOfferDynamic(
			offer.ID, amountToPay, offer.MaxRateForDynamicPricing, e.affiliate,
		)
	} else {
		data, err = packTakeOfferFixed(offer.ID, amountToPay, e.affiliate)
	}
	if err != nil {
		return common.Hash{}, err
	}

	txHash, err := e.sender.Send(ctx, e.contractAddress, nil, data)
	if err != nil {
		// gas estimation simulates the call, so reverts surface here too
		return common.Hash{}, mapRevertError(err)
	}

	log.WithFields(log.Fields{
		"venue":   domain.VenueMarketMaker,
		"offer":   offer.ID,
		"tx":      txHash.Hex(),
		"pricing": string(offer.PricingType),
	}).Info("take-offer transaction submitted")

	if err := e.waitConfirmed(ctx, txHash, data); err != nil {
		return txHash, err
	}
	return txHash, nil
}

// MakeOfferParams carries the on-chain arguments of a new offer.
type MakeOfferParams struct {
	DepositAsset     common.Address
	DepositAmount    *big.Int
	WithdrawalAsset  common.Address
	WithdrawalAmount *big.Int
	PricingType      domain.PricingType
	FillMode         domain.FillMode
	ExpiryTimestamp  int64
	AuthorizedTakers []common.Address
}

// MakeOffer escrows the deposit asset into a new offer. Same allowance
// and confirmation pattern as offer taking.
func (e *Executor) MakeOffer(
	ctx context.Context, params MakeOfferParams,
) (common.Hash, error) {
	if err := e.ensureAllowance(
		ctx, params.DepositAsset, params.DepositAmount,
	); err != nil {
		return common.Hash{}, err
	}

	takers := params.AuthorizedTakers
	if takers == nil {
		takers = []common.Address{}
	}
	data, err := offerMarketABI.Pack(
		"makeOffer",
		params.DepositAsset, params.DepositAmount,
		params.WithdrawalAsset, params.WithdrawalAmount,
		pricingTypeToUint8(params.PricingType),
		fillModeToUint8(params.FillMode),
		big.NewInt(params.ExpiryTimestamp),
		takers,
	)
	if err != nil {
		return common.Hash{}, err
	}

	txHash, err := e.sender.Send(ctx, e.contractAddress, nil, data)
	if err != nil {
		return common.Hash{}, mapRevertError(err)
	}
	if err := e.waitConfirmed(ctx, txHash, data); err != nil {
		return txHash, err
	}
	return txHash, nil
}

// CancelOffer withdraws a not-yet-taken offer owned by the wallet.
func (e *Executor) CancelOffer(
	ctx context.Context, offerID string,
) (common.Hash, error) {
	id, err := parseOfferID(offerID)
	if err != nil {
		return common.Hash{}, err
	}
	data, err := offerMarketABI.Pack("cancelOffer", id)
	if err != nil {
		return common.Hash{}, err
	}

	txHash, err := e.sender.Send(ctx, e.contractAddress, nil, data)
	if err != nil {
		return common.Hash{}, mapRevertError(err)
	}
	if err := e.waitConfirmed(ctx, txHash, data); err != nil {
		return txHash, err
	}
	return txHash, nil
}

// ensureAllowance grants the venue contract the missing allowance and
// waits for the approval to confirm before returning. The approval and
// the trade transaction are never in flight at the same time, otherwise
// the trade could be mined against the stale allowance.
func (e *Executor) ensureAllowance(
	ctx context.Context, token common.Address, amount *big.Int,
) error {
	allowance, err := e.erc20.Allowance(
		ctx, token, e.wallet.Address(), e.contractAddress,
	)
	if err != nil {
		return fmt.Errorf("check allowance: %w", err)
	}
	if allowance.Cmp(amount) >= 0 {
		return nil
	}

	data, err := onchain.PackApprove(e.contractAddress, amount)
	if err != nil {
		return err
	}
	txHash, err := e.sender.Send(ctx, token, nil, data)
	if err != nil {
		return fmt.Errorf("submit approval: %w", err)
	}

	log.WithFields(log.Fields{
		"venue": domain.VenueMarketMaker,
		"token": token.Hex(),
		"tx":    txHash.Hex(),
	}).Info("approval transaction submitted, waiting for confirmation")

	if err := e.waitConfirmed(ctx, txHash, nil); err != nil {
		return fmt.Errorf("approval: %w", err)
	}
	return nil
}

// waitConfirmed blocks until the transaction confirms. A revert and a
// timeout are distinct failures: the revert is replayed to recover the
// reason, the timeout is surfaced as such and never retried.
func (e *Executor) waitConfirmed(
	ctx context.Context, txHash common.Hash, calldata []byte,
) error {
	receipt, err := onchain.WaitForConfirmation(ctx, e.client, txHash, e.waitOpts)
	if err == nil {
		return nil
	}

	if errors.Is(err, onchain.ErrConfirmationTimeout) {
		log.WithFields(log.Fields{
			"venue": domain.VenueMarketMaker,
			"tx":    txHash.Hex(),
		}).Warn("confirmation timed out")
		return &domain.TimeoutError{
			TxHash:  txHash.Hex(),
			Timeout: e.waitOpts.Timeout,
			Err:     err,
		}
	}

	if errors.Is(err, onchain.ErrTxReverted) {
		log.WithFields(log.Fields{
			"venue": domain.VenueMarketMaker,
			"tx":    txHash.Hex(),
		}).Warn("transaction reverted")
		if calldata != nil && receipt != nil {
			if reason := e.replayForReason(
				ctx, calldata, receipt.BlockNumber,
			); reason != nil {
				return mapRevertError(reason)
			}
		}
		return mapRevertError(err)
	}

	return err
}

// replayForReason re-executes the calldata at the failing block to
// recover the revert reason the receipt does not carry.
func (e *Executor) replayForReason(
	ctx context.Context, calldata []byte, blockNumber *big.Int,
) error {
	from := e.wallet.Address()
	_, err := e.client.CallContract(ctx, ethereum.CallMsg{
		From: from,
		To:   &e.contractAddress,
		Data: calldata,
	}, blockNumber)
	return err
}
