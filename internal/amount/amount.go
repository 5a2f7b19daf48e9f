// Package amount converts wire-encoded fixed-point integers into scaled
// decimal values.
package amount

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ErrMalformedHex marks a hex fragment that cannot be interpreted as an
// unsigned big-endian integer. Callers are expected to have validated byte
// offsets already, so this is not a recoverable condition.
var ErrMalformedHex = fmt.Errorf("malformed hex fragment")

// HexFixed interprets a big-endian hex fragment as an unsigned integer and
// scales it down by 10^decimals.
func HexFixed(fragment string, decimals int32) (decimal.Decimal, error) {
	if fragment == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrMalformedHex)
	}
	raw, err := hex.DecodeString(fragment)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedHex, fragment)
	}
	value := new(big.Int).SetBytes(raw)
	return IntegerFixed(value, decimals), nil
}

// IntegerFixed scales an already-typed big integer amount down by
// 10^decimals.
func IntegerFixed(value *big.Int, decimals int32) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, -decimals)
}

// Rescale divides an unscaled decimal amount down to the token's native
// precision. Used where an event reports a raw integer quantity that the
// token defines at its own decimal scale.
func Rescale(value decimal.Decimal, decimals int32) decimal.Decimal {
	return value.Shift(-decimals)
}
