package types

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit token amount in the token's smallest unit.
//
// On the wire it is a JSON string holding the decimal value, which keeps large
// amounts exact. Decoding is lenient on purpose: a string that is not a valid
// unsigned decimal (garbage, negative, wider than 256 bits) decodes to zero
// instead of failing the whole response.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an Amount holding u.
func NewAmount(u uint64) Amount {
	var a Amount
	a.v.SetUint64(u)
	return a
}

// AmountFromBig converts b into an Amount. It fails if b is negative or does not fit
// in 256 bits.
func AmountFromBig(b *big.Int) (Amount, error) {
	var a Amount
	if b == nil {
		return a, nil
	}
	if b.Sign() < 0 {
		return a, fmt.Errorf("amount %s is negative", b)
	}
	if overflow := a.v.SetFromBig(b); overflow {
		return Amount{}, fmt.Errorf("amount %s overflows 256 bits", b)
	}
	return a, nil
}

// ParseAmount parses a base-10 unsigned integer.
func ParseAmount(s string) (Amount, error) {
	var a Amount
	if err := a.v.SetFromDecimal(s); err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return a, nil
}

// Big returns the amount as a new big.Int.
func (a Amount) Big() *big.Int {
	return a.v.ToBig()
}

// Uint256 returns a copy of the underlying 256-bit integer.
func (a Amount) Uint256() *uint256.Int {
	return new(uint256.Int).Set(&a.v)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

func (a Amount) String() string {
	return a.v.Dec()
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.v.Dec())
}

// UnmarshalJSON decodes a decimal string. Unparsable strings decode to zero.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a decimal string: %w", err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		*a = Amount{}
		return nil
	}
	*a = parsed
	return nil
}
