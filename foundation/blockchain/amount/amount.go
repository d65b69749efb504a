// Package amount provides arbitrary precision balance arithmetic with a
// fixed fractional scale.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Decimals represents the number of fractional digits carried by every
// balance on the ledger.
const Decimals = 8

// scale is the multiplier between whole units and the smallest unit.
var scale = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)

// ErrNegative is returned when a parsed or computed amount would drop
// below zero. Balances on the ledger are non-negative.
var ErrNegative = errors.New("amount is negative")

// =============================================================================

// Amount represents a non-negative balance in the smallest unit. The zero
// value is a valid zero balance.
type Amount struct {
	value *big.Int
}

// Zero constructs a zero amount.
func Zero() Amount {
	return Amount{value: big.NewInt(0)}
}

// New constructs an amount from a count of whole units.
func New(units uint64) Amount {
	v := new(big.Int).SetUint64(units)
	return Amount{value: v.Mul(v, scale)}
}

// Parse converts a decimal string like "4501.25" into an amount. Fractional
// digits beyond the fixed scale are rejected rather than rounded.
func Parse(s string) (Amount, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(s), ".")
	if whole == "" {
		whole = "0"
	}

	w, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return Amount{}, fmt.Errorf("parsing amount %q", s)
	}
	if w.Sign() < 0 {
		return Amount{}, ErrNegative
	}
	w.Mul(w, scale)

	if frac != "" {
		if len(frac) > Decimals {
			return Amount{}, fmt.Errorf("parsing amount %q: more than %d fractional digits", s, Decimals)
		}
		f, ok := new(big.Int).SetString(frac+strings.Repeat("0", Decimals-len(frac)), 10)
		if !ok {
			return Amount{}, fmt.Errorf("parsing amount %q", s)
		}
		w.Add(w, f)
	}

	return Amount{value: w}, nil
}

// =============================================================================

// Add returns the sum of the two amounts. Addition never loses precision.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: new(big.Int).Add(a.units(), b.units())}
}

// Sub returns a minus b or an error if the result would be negative.
func (a Amount) Sub(b Amount) (Amount, error) {
	v := new(big.Int).Sub(a.units(), b.units())
	if v.Sign() < 0 {
		return Amount{}, ErrNegative
	}
	return Amount{value: v}, nil
}

// Cmp compares two amounts returning -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.units().Cmp(b.units())
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.units().Sign() == 0
}

// Copy returns an amount that shares no state with the receiver.
func (a Amount) Copy() Amount {
	return Amount{value: new(big.Int).Set(a.units())}
}

// String renders the amount as a decimal string with the fractional part
// trimmed of trailing zeros. This rendering participates in the wallet
// checksum and must stay stable.
func (a Amount) String() string {
	q, r := new(big.Int).QuoRem(a.units(), scale, new(big.Int))
	if r.Sign() == 0 {
		return q.String()
	}

	frac := strings.TrimRight(fmt.Sprintf("%0*d", Decimals, r), "0")
	return q.String() + "." + frac
}

// MarshalText implements encoding.TextMarshaler so amounts serialize as
// decimal strings in JSON payloads.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	v, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// units returns the backing integer, treating the zero value as zero.
func (a Amount) units() *big.Int {
	if a.value == nil {
		return big.NewInt(0)
	}
	return a.value
}
