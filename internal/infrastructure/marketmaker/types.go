package marketmaker

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
)

type offerDTO struct {
	ID               string   `json:"id"`
	Maker            string   `json:"maker"`
	DepositAsset     string   `json:"depositAsset"`
	DepositAmount    string   `json:"depositAmount"`
	WithdrawalAsset  string   `json:"withdrawalAsset"`
	WithdrawalAmount string   `json:"withdrawalAmount"`
	AvailableAmount  string   `json:"availableAmount"`
	PricingType      string   `json:"pricingType"`
	Status           string   `json:"status"`
	FillMode         string   `json:"fillMode"`
	ExpiryTimestamp  int64    `json:"expiryTimestamp"`
	AuthorizedTakers []string `json:"authorizedTakers"`
}

var offerStatusByName = map[string]domain.OfferStatus{
	"NOT_TAKEN":       domain.OfferStatusNotTaken,
	"PARTIALLY_TAKEN": domain.OfferStatusPartiallyTaken,
	"TAKEN":           domain.OfferStatusTaken,
	"CANCELLED":       domain.OfferStatusCancelled,
}

func (o offerDTO) toDomain() (*domain.Offer, error) {
	depositAmount, err := decimal.NewFromString(o.DepositAmount)
	if err != nil {
		return nil, fmt.Errorf("parse deposit amount: %w", err)
	}
	withdrawalAmount, err := decimal.NewFromString(o.WithdrawalAmount)
	if err != nil {
		return nil, fmt.Errorf("parse withdrawal amount: %w", err)
	}
	availableAmount, err := decimal.NewFromString(o.AvailableAmount)
	if err != nil {
		return nil, fmt.Errorf("parse available amount: %w", err)
	}
	status, ok := offerStatusByName[o.Status]
	if !ok {
		return nil, fmt.Errorf("unknown offer status %q", o.Status)
	}

	return &domain.Offer{
		ID:               o.ID,
		Maker:            o.Maker,
		DepositAsset:     o.DepositAsset,
		DepositAmount:    depositAmount,
		WithdrawalAsset:  o.WithdrawalAsset,
		WithdrawalAmount: withdrawalAmount,
		AvailableAmount:  availableAmount,
		PricingType:      domain.PricingType(o.PricingType),
		Status:           status,
		FillMode:         domain.FillMode(o.FillMode),
		ExpiryTimestamp:  o.ExpiryTimestamp,
		AuthorizedTakers: o.AuthorizedTakers,
	}, nil
}

type selectedOfferDTO struct {
	ID                string `json:"id"`
	AmountToPay       string `json:"amountToPay"`
	PaidAssetDecimals uint8  `json:"paidAssetDecimals"`
	PricePerUnit      string `json:"pricePerUnit"`
	PricingType       string `json:"pricingType"`
	MaxRate           string `json:"maxRateForDynamicPricing,omitempty"`
}

func (o selectedOfferDTO) toDomain() (domain.SelectedOffer, error) {
	amountToPay, err := decimal.NewFromString(o.AmountToPay)
	if err != nil {
		return domain.SelectedOffer{}, fmt.Errorf("parse amount to pay: %w", err)
	}
	pricePerUnit, err := decimal.NewFromString(o.PricePerUnit)
	if err != nil {
		return domain.SelectedOffer{}, fmt.Errorf("parse price per unit: %w", err)
	}
	maxRate := decimal.Zero
	if o.MaxRate != "" {
		maxRate, err = decimal.NewFromString(o.MaxRate)
		if err != nil {
			return domain.SelectedOffer{}, fmt.Errorf("parse max rate: %w", err)
		}
	}

	return domain.SelectedOffer{
		ID:                       o.ID,
		AmountToPay:              amountToPay,
		PaidAssetDecimals:        int32(o.PaidAssetDecimals),
		PricePerUnit:             pricePerUnit,
		PricingType:              domain.PricingType(o.PricingType),
		MaxRateForDynamicPricing: maxRate,
	}, nil
}

type selectOffersReply struct {
	Offers []selectedOfferDTO `json:"offers"`
}

type quoteReply struct {
	SellAmount string `json:"sellAmount"`
	BuyAmount  string `json:"buyAmount"`
}

type priceFeedDTO struct {
	Asset string `json:"asset"`
	Rate  string `json:"rate"`
}
