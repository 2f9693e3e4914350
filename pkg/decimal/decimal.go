// Package decimal holds the small set of apd helpers shared by the
// expression, polynomial and interval packages.
package decimal

import (
	"math"
	"math/big"
	"strings"

	"github.com/cockroachdb/apd"
	"github.com/pkg/errors"
)

// exact is wide enough that Add, Mul, Floor and Ceil on parsed literals
// never round.
var exact = apd.BaseContext.WithPrecision(1000)

var (
	Zero = apd.New(0, 0)
	One  = apd.New(1, 0)
)

var bigTen = big.NewInt(10)

// New returns the decimal for an integer.
func New(i int64) *apd.Decimal {
	return apd.New(i, 0)
}

// Parse reads a plain decimal literal such as "12" or "0.125".
func Parse(s string) (*apd.Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid number %q", s)
	}
	return d, nil
}

// Strip returns a copy of d with trailing zero digits removed from the
// coefficient.
func Strip(d *apd.Decimal) *apd.Decimal {
	out := new(apd.Decimal).Set(d)
	if out.Form != apd.Finite {
		return out
	}
	if out.Coeff.Sign() == 0 {
		out.Exponent = 0
		out.Negative = false
		return out
	}
	q, r := new(big.Int), new(big.Int)
	for {
		q.QuoRem(&out.Coeff, bigTen, r)
		if r.Sign() != 0 {
			break
		}
		out.Coeff.Set(q)
		out.Exponent++
	}
	return out
}

// IsInteger reports whether d has no fractional digits once trailing
// zeros are stripped.
func IsInteger(d *apd.Decimal) bool {
	if d.Form != apd.Finite {
		return false
	}
	return Strip(d).Exponent >= 0
}

// Int64 returns d as an int64 when it is integral and fits.
func Int64(d *apd.Decimal) (int64, bool) {
	if !IsInteger(d) {
		return 0, false
	}
	i, err := d.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// BigInt returns the integral value of d.
func BigInt(d *apd.Decimal) (*big.Int, bool) {
	if !IsInteger(d) {
		return nil, false
	}
	s := Strip(d)
	out := new(big.Int).Set(&s.Coeff)
	if s.Exponent > 0 {
		out.Mul(out, new(big.Int).Exp(bigTen, big.NewInt(int64(s.Exponent)), nil))
	}
	if s.Negative {
		out.Neg(out)
	}
	return out, true
}

// FromBigInt converts an integer to a decimal.
func FromBigInt(i *big.Int) *apd.Decimal {
	out := new(apd.Decimal)
	out.Coeff.Abs(i)
	out.Negative = i.Sign() < 0
	return out
}

// Format renders d in plain notation without non-significant zeros.
func Format(d *apd.Decimal) string {
	if d.Form != apd.Finite {
		if d.Negative {
			return "-∞"
		}
		return "∞"
	}
	s := Strip(d)
	digits := s.Coeff.String()
	var b strings.Builder
	if s.Negative && s.Coeff.Sign() != 0 {
		b.WriteByte('-')
	}
	switch {
	case s.Exponent >= 0:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", int(s.Exponent)))
	case int(-s.Exponent) >= len(digits):
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", int(-s.Exponent)-len(digits)))
		b.WriteString(digits)
	default:
		cut := len(digits) + int(s.Exponent)
		b.WriteString(digits[:cut])
		b.WriteByte('.')
		b.WriteString(digits[cut:])
	}
	return b.String()
}

// Floor returns the greatest integer not above d.
func Floor(d *apd.Decimal) *apd.Decimal {
	out := new(apd.Decimal)
	if _, err := exact.Floor(out, d); err != nil {
		return out.Set(d)
	}
	return out
}

// Ceil returns the least integer not below d.
func Ceil(d *apd.Decimal) *apd.Decimal {
	out := new(apd.Decimal)
	if _, err := exact.Ceil(out, d); err != nil {
		return out.Set(d)
	}
	return out
}

// Add returns x+y without rounding.
func Add(x, y *apd.Decimal) *apd.Decimal {
	out := new(apd.Decimal)
	if _, err := exact.Add(out, x, y); err != nil {
		return out.Set(x)
	}
	return out
}

// Neg returns -x.
func Neg(x *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Neg(x)
}

// Abs returns |x|.
func Abs(x *apd.Decimal) *apd.Decimal {
	return new(apd.Decimal).Abs(x)
}

// InInt32 reports whether the integral value d lies in the int32 range.
func InInt32(d *apd.Decimal) bool {
	return d.Cmp(apd.New(math.MinInt32, 0)) >= 0 && d.Cmp(apd.New(math.MaxInt32, 0)) <= 0
}
