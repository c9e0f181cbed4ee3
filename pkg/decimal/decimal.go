// Package decimal implements exact base-10 arithmetic for display values.
//
// Binary floating point cannot represent most decimal fractions, so chained
// updates like add(0.1) drift away from the value a user expects to read
// (0.1+0.2 becomes 0.30000000000000004). Value avoids that by storing an
// integer mantissa and a base-10 scale: operands are aligned to a common
// scale, the operation runs on integers, and the result is rescaled. This is
// the only arithmetic path the odometer controller uses, which keeps a long
// sequence of increments exactly on the decimal grid.
//
// Values are immutable; every operation returns a new Value. The zero Value
// is the number 0 and is ready to use.
package decimal

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrDivisionByZero is returned by Div when the divisor is zero.
	ErrDivisionByZero = errors.New("decimal: division by zero")

	// ErrNotFinite is returned when a NaN or infinite float is offered to
	// a conversion.
	ErrNotFinite = errors.New("decimal: not a finite number")

	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("decimal: invalid syntax")
)

// DivScale is the number of fractional digits a non-terminating quotient is
// truncated to. Terminating quotients shorter than this stay exact.
const DivScale = 28

// Value is an exact decimal number: mantissa * 10^-scale.
//
// The mantissa carries the sign. A nil mantissa means zero. Value is
// immutable: the internal big.Int is never written after construction, so
// copying a Value is safe and cheap.
type Value struct {
	mant  *big.Int
	scale int
}

// Zero is the number 0.
var Zero Value

// FromInt64 returns the Value for i.
func FromInt64(i int64) Value {
	if i == 0 {
		return Zero
	}
	return Value{mant: big.NewInt(i)}
}

// FromFloat64 converts f using its shortest round-tripping decimal
// representation, so FromFloat64(0.1) is exactly 1/10. NaN and infinities
// return ErrNotFinite.
func FromFloat64(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Zero, ErrNotFinite
	}
	// 'f' with precision -1 never emits an exponent and uses the fewest
	// digits that still parse back to f.
	v, err := Parse(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		return Zero, err
	}
	return v, nil
}

// Parse reads a plain decimal string: an optional sign, integer digits, and
// an optional fractional part ("123", "-4.05", ".5"). Exponent notation is
// not accepted.
func Parse(s string) (Value, error) {
	input := s
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return Zero, fmt.Errorf("%w: %q", ErrSyntax, input)
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, fracPart = s[:dot], s[dot+1:]
		if fracPart == "" {
			return Zero, fmt.Errorf("%w: %q", ErrSyntax, input)
		}
	}
	if intPart == "" && fracPart == "" {
		return Zero, fmt.Errorf("%w: %q", ErrSyntax, input)
	}
	for _, part := range [2]string{intPart, fracPart} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return Zero, fmt.Errorf("%w: %q", ErrSyntax, input)
			}
		}
	}

	mant, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		// Unreachable after the digit check above, kept as a guard.
		return Zero, fmt.Errorf("%w: %q", ErrSyntax, input)
	}
	if neg {
		mant.Neg(mant)
	}
	return normalize(mant, len(fracPart)), nil
}

// MustParse is Parse for constants and tests; it panics on malformed input.
func MustParse(s string) Value {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// normalize trims trailing zero digits out of the scale and collapses a zero
// mantissa to the canonical Zero.
func normalize(mant *big.Int, scale int) Value {
	if mant.Sign() == 0 {
		return Zero
	}
	var q, r big.Int
	for scale > 0 {
		q.QuoRem(mant, ten, &r)
		if r.Sign() != 0 {
			break
		}
		mant.Set(&q)
		scale--
	}
	return Value{mant: mant, scale: scale}
}

var ten = big.NewInt(10)

// pow10 returns 10^n for n >= 0.
func pow10(n int) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

// mantissa returns the mantissa as a big.Int that callers may read but must
// not write. A zero Value yields a shared zero.
func (v Value) mantissa() *big.Int {
	if v.mant == nil {
		return bigZero
	}
	return v.mant
}

var bigZero = new(big.Int)

// align brings both operands to the larger of the two scales and returns the
// scaled mantissas. The returned ints are freshly allocated when scaling was
// needed and may alias the operands otherwise, so they are read-only.
func align(a, b Value) (am, bm *big.Int, scale int) {
	am, bm = a.mantissa(), b.mantissa()
	switch {
	case a.scale == b.scale:
		return am, bm, a.scale
	case a.scale < b.scale:
		return new(big.Int).Mul(am, pow10(b.scale-a.scale)), bm, b.scale
	default:
		return am, new(big.Int).Mul(bm, pow10(a.scale-b.scale)), a.scale
	}
}

// Add returns v + o exactly.
func (v Value) Add(o Value) Value {
	am, bm, scale := align(v, o)
	return normalize(new(big.Int).Add(am, bm), scale)
}

// Sub returns v - o exactly.
func (v Value) Sub(o Value) Value {
	am, bm, scale := align(v, o)
	return normalize(new(big.Int).Sub(am, bm), scale)
}

// Mul returns v * o exactly.
func (v Value) Mul(o Value) Value {
	mant := new(big.Int).Mul(v.mantissa(), o.mantissa())
	return normalize(mant, v.scale+o.scale)
}

// Div returns v / o. The quotient is exact whenever it terminates within
// DivScale fractional digits and truncated toward zero at DivScale digits
// otherwise. Dividing by zero returns ErrDivisionByZero.
func (v Value) Div(o Value) (Value, error) {
	if o.IsZero() {
		return Zero, ErrDivisionByZero
	}
	if v.IsZero() {
		return Zero, nil
	}
	// v/o = vm/om * 10^(o.scale-v.scale). Widen the numerator so the
	// integer quotient carries DivScale fractional digits.
	e := o.scale - v.scale + DivScale
	num := v.mantissa()
	den := o.mantissa()
	if e >= 0 {
		num = new(big.Int).Mul(num, pow10(e))
	} else {
		den = new(big.Int).Mul(den, pow10(-e))
	}
	return normalize(new(big.Int).Quo(num, den), DivScale), nil
}

// Neg returns -v.
func (v Value) Neg() Value {
	if v.IsZero() {
		return Zero
	}
	return Value{mant: new(big.Int).Neg(v.mant), scale: v.scale}
}

// Abs returns the magnitude of v.
func (v Value) Abs() Value {
	if !v.IsNegative() {
		return v
	}
	return v.Neg()
}

// IsZero reports whether v is 0.
func (v Value) IsZero() bool {
	return v.mant == nil || v.mant.Sign() == 0
}

// IsNegative reports whether v < 0.
func (v Value) IsNegative() bool {
	return v.mant != nil && v.mant.Sign() < 0
}

// Scale returns the number of stored fractional digits.
func (v Value) Scale() int {
	return v.scale
}

// Cmp compares v and o, returning -1, 0, or 1.
func (v Value) Cmp(o Value) int {
	am, bm, _ := align(v, o)
	return am.Cmp(bm)
}

// Equal reports whether v and o represent the same number.
func (v Value) Equal(o Value) bool {
	return v.Cmp(o) == 0
}

// String renders v as a plain decimal with no exponent: "0", "-4.05",
// "0.0000001". The fractional part keeps exactly Scale digits.
func (v Value) String() string {
	if v.IsZero() {
		return "0"
	}
	digits := new(big.Int).Abs(v.mant).String()
	var b strings.Builder
	if v.mant.Sign() < 0 {
		b.WriteByte('-')
	}
	if v.scale == 0 {
		b.WriteString(digits)
		return b.String()
	}
	if len(digits) <= v.scale {
		b.WriteString("0.")
		for i := len(digits); i < v.scale; i++ {
			b.WriteByte('0')
		}
		b.WriteString(digits)
		return b.String()
	}
	split := len(digits) - v.scale
	b.WriteString(digits[:split])
	b.WriteByte('.')
	b.WriteString(digits[split:])
	return b.String()
}

// Float64 returns the nearest binary float to v.
func (v Value) Float64() float64 {
	f, _ := strconv.ParseFloat(v.String(), 64)
	return f
}
