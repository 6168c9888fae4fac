package marketmaker

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/otcdex-network/otcdex-router/internal/core/domain"
)

// Rates are exchanged with the offer contract as 18-decimals fixed-point
// integers.
const rateDecimals = 18

const offerMarketABIJSON = `[
	{"inputs":[{"name":"offerId","type":"uint256"},{"name":"amountPaid","type":"uint256"},{"name":"affiliate","type":"address"}],"name":"takeOfferFixed","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"offerId","type":"uint256"},{"name":"amountPaid","type":"uint256"},{"name":"maximumRate","type":"uint256"},{"name":"affiliate","type":"address"}],"name":"takeOfferDynamic","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"depositAsset","type":"address"},{"name":"depositAmount","type":"uint256"},{"name":"withdrawalAsset","type":"address"},{"name":"withdrawalAmount","type":"uint256"},{"name":"pricingType","type":"uint8"},{"name":"fillMode","type":"uint8"},{"name":"expiryTimestamp","type":"uint256"},{"name":"authorizedTakers","type":"address[]"}],"name":"makeOffer","outputs":[{"name":"offerId","type":"uint256"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"offerId","type":"uint256"}],"name":"cancelOffer","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var offerMarketABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(offerMarketABIJSON))
	if err != nil {
		panic(fmt.Errorf("parse offer market abi: %w", err))
	}
	offerMarketABI = parsed
}

func parseOfferID(id string) (*big.Int, error) {
	offerID, ok := new(big.Int).SetString(id, 10)
	if !ok {
		return nil, ErrInvalidOfferID
	}
	return offerID, nil
}

func rateToFixedPoint(rate decimal.Decimal) *big.Int {
	return rate.Shift(rateDecimals).Truncate(0).BigInt()
}

func packTakeOfferFixed(
	offerID string, amountPaid *big.Int, affiliate common.Address,
) ([]byte, error) {
	id, err := parseOfferID(offerID)
	if err != nil {
		return nil, err
	}
	return offerMarketABI.Pack("takeOfferFixed", id, amountPaid, affiliate)
}

func packTakeOfferDynamic(
	offerID string, amountPaid *big.Int, maxRate decimal.Decimal,
	affiliate common.Address,
) ([]byte, error) {
	id, err := parseOfferID(offerID)
	if err != nil {
		return nil, err
	}
	return offerMarketABI.Pack(
		"takeOfferDynamic", id, amountPaid, rateToFixedPoint(maxRate), affiliate,
	)
}

func pricingTypeToUint8(pricingType domain.PricingType) uint8 {
	if pricingType == domain.PricingTypeDynamic {
		return 1
	}
	return 0
}

func fillModeToUint8(fillMode domain.FillMode) uint8 {
	if fillMode == domain.FillModeBlock {
		return 1
	}
	return 0
}

// revert reason strings emitted by the offer market contract
var revertReasons = map[string]error{
	"OfferNotFound":            ErrOfferNotFound,
	"OfferNotActive":           ErrOfferNotActive,
	"InsufficientOfferBalance": ErrInsufficientOfferBalance,
	"OfferExpired":             ErrOfferExpired,
	"UnauthorizedTaker":        ErrUnauthorizedTaker,
}

// mapRevertError translates an on-chain revert into one of the venue's
// typed errors, falling back to a generic venue exception when no known
// reason matches.
func mapRevertError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for reason, mapped := range revertReasons {
		if strings.Contains(msg, reason) {
			return mapped
		}
	}
	return fmt.Errorf("%w: %v", ErrVenueException, err)
}
