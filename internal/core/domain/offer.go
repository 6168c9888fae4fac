package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferStatus represents the different statuses an on-chain offer can
// assume during its lifecycle.
type OfferStatus int

const (
	// OfferStatusNotTaken ...
	OfferStatusNotTaken OfferStatus = iota
	// OfferStatusPartiallyTaken ...
	OfferStatusPartiallyTaken
	// OfferStatusTaken is terminal.
	OfferStatusTaken
	// OfferStatusCancelled is terminal and reachable only by the maker.
	OfferStatusCancelled
)

// String ...
func (s OfferStatus) String() string {
	switch s {
	case OfferStatusNotTaken:
		return "NOT_TAKEN"
	case OfferStatusPartiallyTaken:
		return "PARTIALLY_TAKEN"
	case OfferStatusTaken:
		return "TAKEN"
	default:
		return "CANCELLED"
	}
}

// PricingType is the pricing mode of an offer: fixed locks the rate at
// creation time, dynamic derives it from a live price feed at take time.
type PricingType string

const (
	PricingTypeFixed   PricingType = "fixed"
	PricingTypeDynamic PricingType = "dynamic"
)

// FillMode tells whether an offer can be filled in parts or only in full.
type FillMode string

const (
	FillModePartial FillMode = "partial"
	FillModeBlock   FillMode = "block"
)

// Offer is a maker-created order in the peer-to-peer on-chain market.
type Offer struct {
	ID               string
	Maker            string
	DepositAsset     string
	DepositAmount    decimal.Decimal
	WithdrawalAsset  string
	WithdrawalAmount decimal.Decimal
	AvailableAmount  decimal.Decimal
	PricingType      PricingType
	Status           OfferStatus
	FillMode         FillMode
	ExpiryTimestamp  int64
	// AuthorizedTakers restricts who can take the offer. Empty means the
	// offer is open to anyone.
	AuthorizedTakers []string
}

// IsExpired ...
func (o *Offer) IsExpired() bool {
	return o.ExpiryTimestamp > 0 &&
		time.Now().After(time.Unix(o.ExpiryTimestamp, 0))
}

// IsAuthorized reports whether the given taker address may take the offer.
func (o *Offer) IsAuthorized(taker string) bool {
	if len(o.AuthorizedTakers) == 0 {
		return true
	}
	for _, addr := range o.AuthorizedTakers {
		if addr == taker {
			return true
		}
	}
	return false
}

// Take consumes the given amount from the offer's available balance and
// advances its status. Block offers must be taken in full; partial offers
// move through PartiallyTaken until depleted, which is terminal.
func (o *Offer) Take(amount decimal.Decimal) error {
	if o.Status == OfferStatusTaken || o.Status == OfferStatusCancelled {
		return ErrOfferNotTakeable
	}
	if o.IsExpired() {
		return ErrOfferExpired
	}
	if amount.GreaterThan(o.AvailableAmount) {
		return ErrOfferInsufficientAmount
	}
	if o.FillMode == FillModeBlock && !amount.Equal(o.AvailableAmount) {
		return ErrOfferBlockFillOnly
	}

	o.AvailableAmount = o.AvailableAmount.Sub(amount)
	if o.AvailableAmount.IsZero() {
		o.Status = OfferStatusTaken
	} else {
		o.Status = OfferStatusPartiallyTaken
	}
	return nil
}

// Cancel brings the offer to the Cancelled status. A fully taken offer is
// immutable and cannot be cancelled anymore.
func (o *Offer) Cancel() error {
	if o.Status == OfferStatusTaken {
		return ErrOfferNotCancellable
	}
	o.Status = OfferStatusCancelled
	return nil
}

// SelectedOffer is the subset of one or more offers picked by the market
// discovery service to satisfy a target amount. Amounts are expressed in
// the paid asset's smallest units.
type SelectedOffer struct {
	ID                       string
	AmountToPay              decimal.Decimal
	PaidAssetDecimals        int32
	PricePerUnit             decimal.Decimal
	PricingType              PricingType
	MaxRateForDynamicPricing decimal.Decimal
}
