package types

import (
	"database/sql/driver"
	"fmt"
	"math/big"
	"strings"
)

// BigInt is an arbitrary-precision signed integer used consistently from
// ingestion to storage. It is decoded exactly once at the JSON boundary and
// stored as numeric(78,0) in PostgreSQL.
type BigInt struct {
	big.Int
}

// NewBigInt creates a BigInt from an int64
func NewBigInt(v int64) *BigInt {
	b := &BigInt{}
	b.SetInt64(v)
	return b
}

// ParseBigInt parses a base-10 string into a BigInt
func ParseBigInt(s string) (*BigInt, error) {
	b := &BigInt{}
	if _, ok := b.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid numeric value %q", s)
	}
	return b, nil
}

// MustBigInt parses a base-10 string, panicking on failure. Test helper.
func MustBigInt(s string) *BigInt {
	b, err := ParseBigInt(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Copy returns an independent copy of the value
func (b *BigInt) Copy() *BigInt {
	out := &BigInt{}
	out.Set(&b.Int)
	return out
}

// IsZero reports whether the value is exactly zero
func (b *BigInt) IsZero() bool {
	return b.Sign() == 0
}

// Negated returns the negated value as a new BigInt
func (b *BigInt) Negated() *BigInt {
	out := &BigInt{}
	out.Int.Neg(&b.Int)
	return out
}

// MarshalJSON encodes the value as a JSON string to avoid precision loss in
// consumers that decode numbers as float64
func (b *BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or a bare number. Anything
// non-numeric fails, which surfaces as a malformed event at the boundary.
func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	return nil
}

// Value implements driver.Valuer, storing the canonical base-10 representation
func (b BigInt) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan implements sql.Scanner for numeric(78,0) columns
func (b *BigInt) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		b.SetInt64(v)
		return nil
	case nil:
		b.SetInt64(0)
		return nil
	default:
		return fmt.Errorf("unsupported scan type %T for BigInt", value)
	}

	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	return nil
}

// GormDataType tells gorm the column type to use for BigInt fields
func (BigInt) GormDataType() string {
	return "numeric(78,0)"
}
