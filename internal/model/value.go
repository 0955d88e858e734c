package model

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"lukechampine.com/uint128"
)

// U128Size is the storage width of 128-bit amounts.
const U128Size = 16

// U128 is an unsigned 128-bit integer. Its big-endian encoding sorts in numeric order.
type U128 struct {
	v uint128.Uint128
}

// CoinValue is the amount carried by a coin.
type CoinValue = U128

// NewU128 builds a value from a uint64.
func NewU128(v uint64) U128 {
	return U128{v: uint128.From64(v)}
}

// U128FromBytes decodes a 16-byte big-endian amount.
func U128FromBytes(b []byte) (U128, error) {
	if len(b) != U128Size {
		return U128{}, fmt.Errorf("u128: expected %d bytes, got %d", U128Size, len(b))
	}
	return U128{v: uint128.FromBytesBE(b)}, nil
}

// ParseU128 parses a base-10 string.
func ParseU128(s string) (U128, error) {
	v, err := uint128.FromString(s)
	if err != nil {
		return U128{}, fmt.Errorf("u128 %q: %w", s, err)
	}
	return U128{v: v}, nil
}

// U128FromBig converts a non-negative big.Int that fits in 128 bits.
func U128FromBig(b *big.Int) (U128, error) {
	if b.Sign() < 0 || b.BitLen() > 128 {
		return U128{}, fmt.Errorf("u128: %s out of range", b)
	}
	return U128{v: uint128.FromBig(b)}, nil
}

// Bytes encodes the value as 16 big-endian bytes.
func (u U128) Bytes() []byte {
	out := make([]byte, U128Size)
	u.v.PutBytesBE(out)
	return out
}

func (u U128) Cmp(o U128) int {
	return u.v.Cmp(o.v)
}

func (u U128) IsZero() bool {
	return u.v.IsZero()
}

// Add panics on overflow, like the underlying type.
func (u U128) Add(o U128) U128 {
	return U128{v: u.v.Add(o.v)}
}

// Sub panics on underflow.
func (u U128) Sub(o U128) U128 {
	return U128{v: u.v.Sub(o.v)}
}

func (u U128) Big() *big.Int {
	return u.v.Big()
}

// Uint64 reports the value and whether it fits into 64 bits.
func (u U128) Uint64() (uint64, bool) {
	return u.v.Lo, u.v.Hi == 0
}

func (u U128) String() string {
	return u.v.String()
}

// Decimal scales the value down by 10^places.
func (u U128) Decimal(places int32) decimal.Decimal {
	return decimal.NewFromBigInt(u.v.Big(), -places)
}

func (u U128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *U128) UnmarshalText(text []byte) error {
	parsed, err := ParseU128(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
