package onchain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToBaseUnits converts a human-readable amount into the token's smallest
// units, truncating any precision the token cannot represent.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// FromBaseUnits converts an amount in smallest units back to its
// human-readable representation.
func FromBaseUnits(units *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(units, -int32(decimals))
}
