// Package numfmt turns decimal values into the character sequence an
// odometer displays.
//
// Formatting is pure: a value and an [Options] produce a [Formatted] whose
// Text maps one rune per display slot. The sign never appears in Text; it
// travels on the Negative flag so the host can render it outside the slot
// row. Fraction digits are truncated, never rounded, because a rolling
// display that rounds up briefly shows a total the value has not reached.
package numfmt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-drift/odometer/pkg/decimal"
	odoerrors "github.com/go-drift/odometer/pkg/errors"
)

// ErrInvalidConfig is the sentinel wrapped by all configuration validation
// errors, both the Options checks here and the engine's own Config checks.
var ErrInvalidConfig = errors.New("invalid configuration")

// Options controls how a value is rendered into slot characters.
// The zero value is usable but DefaultOptions supplies the conventional
// separator and group size. Options are read-only to the engine; callers own
// them and pass fresh copies on reconfiguration.
type Options struct {
	// FractionDigits is the exact number of fraction characters emitted.
	// Longer natural fractions are truncated, shorter ones right-padded
	// with '0'. Must be >= 0.
	FractionDigits int

	// EnableGrouping inserts GroupingSymbol between integer digit groups.
	EnableGrouping bool

	// GroupingSymbol separates integer digit groups. An empty string
	// disables insertion even when EnableGrouping is set.
	GroupingSymbol string

	// GroupSize is the number of integer digits per group. Must be >= 1.
	GroupSize int

	// DecimalSeparator sits between the integer and fraction parts. Only
	// emitted when FractionDigits > 0.
	DecimalSeparator string

	// Loop selects the rolling strategy for digit slots: a repeating
	// forward-scrolling 0-9 strip when true, a fixed 0-9 strip scrolled to
	// absolute positions when false. Carried here because it is part of the
	// single caller-facing configuration block; the formatter itself does
	// not read it.
	Loop bool

	// PostFormat, when set, receives the assembled string and its return
	// value replaces the result verbatim. It may change the length; the
	// diff layer honors whatever comes back.
	PostFormat func(string) string
}

// DefaultOptions returns the conventional configuration: no fraction digits,
// grouping off, "," groups of three, "." separator, loop mode on.
func DefaultOptions() Options {
	return Options{
		GroupingSymbol:   ",",
		GroupSize:        3,
		DecimalSeparator: ".",
		Loop:             true,
	}
}

// ConfigError reports an Options field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid format options: %s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks the Options at construction time. Formatting itself never
// fails, so misconfiguration surfaces here and nowhere else.
func (o Options) Validate() error {
	if o.GroupSize < 1 {
		return &ConfigError{Field: "GroupSize", Reason: "must be at least 1"}
	}
	if o.FractionDigits < 0 {
		return &ConfigError{Field: "FractionDigits", Reason: "must not be negative"}
	}
	return nil
}

// Formatted is the output of Format: the slot character sequence and the
// separately tracked sign.
type Formatted struct {
	// Text holds the sign-stripped characters, one rune per slot.
	Text string

	// Negative reports whether the source value was below zero. The host
	// renders the sign independently of the slot row.
	Negative bool
}

// Runes returns Text split into per-slot runes.
func (f Formatted) Runes() []rune {
	return []rune(f.Text)
}

// Format renders v according to o. It is pure and never fails for any finite
// value; invalid Options degrade to the nearest sensible output rather than
// erroring mid-frame.
func Format(v decimal.Value, o Options) Formatted {
	out := Formatted{Negative: v.IsNegative()}

	intPart, fracPart := splitParts(v.Abs().String())

	if o.FractionDigits <= 0 && !o.EnableGrouping {
		// Plain integer rendering: no fraction, no separator.
		fracPart = ""
	} else {
		fracPart = fitFraction(fracPart, o.FractionDigits)
	}

	if o.EnableGrouping {
		intPart = groupDigits(intPart, o.GroupingSymbol, o.GroupSize)
	}

	var sb strings.Builder
	sb.WriteString(intPart)
	if o.FractionDigits > 0 {
		sb.WriteString(o.DecimalSeparator)
		sb.WriteString(fracPart)
	}
	out.Text = sb.String()

	if o.PostFormat != nil {
		out.Text = applyPostFormat(o.PostFormat, out.Text)
	}
	return out
}

// splitParts cuts a canonical decimal string into integer and fraction
// digits. The input never carries a sign or exponent.
func splitParts(s string) (intPart, fracPart string) {
	intPart, fracPart, _ = strings.Cut(s, ".")
	return intPart, fracPart
}

// fitFraction truncates or right-pads the natural fraction digits to exactly
// n characters. Truncation never rounds.
func fitFraction(frac string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(frac) >= n {
		return frac[:n]
	}
	return frac + strings.Repeat("0", n-len(frac))
}

// groupDigits inserts symbol between groups of size digits, scanning right
// to left. No symbol lands before the leftmost group.
func groupDigits(digits, symbol string, size int) string {
	if symbol == "" || size < 1 || len(digits) <= size {
		return digits
	}

	first := len(digits) % size
	if first == 0 {
		first = size
	}

	var sb strings.Builder
	sb.WriteString(digits[:first])
	for i := first; i < len(digits); i += size {
		sb.WriteString(symbol)
		sb.WriteString(digits[i : i+size])
	}
	return sb.String()
}

// applyPostFormat runs the caller's post-formatter with panic recovery.
// A panicking post-formatter is reported and the default rendering is kept;
// a formatting pass must never take down the host frame.
func applyPostFormat(fn func(string) string, s string) string {
	out := s
	func() {
		defer func() {
			if r := recover(); r != nil {
				odoerrors.ReportPanic(&odoerrors.PanicError{
					Op:         "numfmt.PostFormat",
					Value:      r,
					StackTrace: odoerrors.CaptureStack(),
				})
			}
		}()
		out = fn(s)
	}()
	return out
}
