package numfmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-drift/odometer/pkg/decimal"
	odoerrors "github.com/go-drift/odometer/pkg/errors"
)

func TestFormat(t *testing.T) {
	grouped := Options{
		FractionDigits:   2,
		EnableGrouping:   true,
		GroupingSymbol:   ",",
		GroupSize:        3,
		DecimalSeparator: ".",
	}
	groupedNoFraction := DefaultOptions()
	groupedNoFraction.EnableGrouping = true

	tests := []struct {
		name     string
		value    string
		opts     Options
		want     string
		negative bool
	}{
		{"grouped with truncated fraction", "1000520.987", grouped, "1,000,520.98", false},
		{"zero padded fraction", "5", Options{FractionDigits: 3, DecimalSeparator: "."}, "5.000", false},
		{"grouping only", "1234567", Options{EnableGrouping: true, GroupingSymbol: ",", GroupSize: 3}, "1,234,567", false},
		{"plain integer", "42", DefaultOptions(), "42", false},
		{"zero", "0", DefaultOptions(), "0", false},
		{"zero with fraction padding", "0", Options{FractionDigits: 3, DecimalSeparator: "."}, "0.000", false},
		{"negative sign stripped", "-12.5", Options{FractionDigits: 1, DecimalSeparator: "."}, "12.5", true},
		{"truncates never rounds", "3.999", Options{FractionDigits: 2, DecimalSeparator: "."}, "3.99", false},
		{"empty symbol disables grouping", "1234567", Options{EnableGrouping: true, GroupSize: 3}, "1234567", false},
		{"group size two", "12345", Options{EnableGrouping: true, GroupingSymbol: ",", GroupSize: 2}, "1,23,45", false},
		{"group size exceeds digits", "12", Options{EnableGrouping: true, GroupingSymbol: ",", GroupSize: 3}, "12", false},
		{"custom decimal separator", "1.5", Options{FractionDigits: 2, DecimalSeparator: ","}, "1,50", false},
		{"grouping without fraction emits no separator", "1234", groupedNoFraction, "1,234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(decimal.MustParse(tt.value), tt.opts)
			if got.Text != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.value, got.Text, tt.want)
			}
			if got.Negative != tt.negative {
				t.Errorf("Format(%s).Negative = %v, want %v", tt.value, got.Negative, tt.negative)
			}
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	opts := Options{
		FractionDigits:   2,
		EnableGrouping:   true,
		GroupingSymbol:   ",",
		GroupSize:        3,
		DecimalSeparator: ".",
	}

	value := decimal.MustParse("1000520.987")
	got := Format(value, opts)

	// Stripping grouping symbols must reconstruct the truncated value.
	back, err := decimal.Parse(strings.ReplaceAll(got.Text, ",", ""))
	if err != nil {
		t.Fatalf("parse back %q: %v", got.Text, err)
	}
	if want := decimal.MustParse("1000520.98"); !back.Equal(want) {
		t.Errorf("round trip = %s, want %s", back, want)
	}
}

func TestFormatRunesMapToSlots(t *testing.T) {
	opts := Options{EnableGrouping: true, GroupingSymbol: "٬", GroupSize: 3}

	got := Format(decimal.MustParse("1234567"), opts)
	runes := got.Runes()

	// 7 digits plus 2 multi-byte grouping symbols is 9 slots.
	if len(runes) != 9 {
		t.Fatalf("expected 9 slots, got %d (%q)", len(runes), got.Text)
	}
	if runes[1] != '٬' || runes[5] != '٬' {
		t.Errorf("expected grouping symbols at slots 1 and 5, got %q", string(runes))
	}
}

func TestPostFormatReplacesVerbatim(t *testing.T) {
	opts := DefaultOptions()
	opts.FractionDigits = 2
	opts.PostFormat = func(s string) string { return "$" + s + " /mo" }

	got := Format(decimal.MustParse("9.9"), opts)
	if want := "$9.90 /mo"; got.Text != want {
		t.Errorf("PostFormat result = %q, want %q", got.Text, want)
	}
}

type captureHandler struct {
	panics []*odoerrors.PanicError
}

func (h *captureHandler) HandleError(*odoerrors.EngineError) {}

func (h *captureHandler) HandlePanic(p *odoerrors.PanicError) {
	h.panics = append(h.panics, p)
}

func TestPostFormatPanicKeepsDefaultRendering(t *testing.T) {
	capture := &captureHandler{}
	odoerrors.SetHandler(capture)
	defer odoerrors.SetHandler(nil)

	opts := DefaultOptions()
	opts.FractionDigits = 1
	opts.PostFormat = func(string) string { panic("boom") }

	got := Format(decimal.MustParse("7"), opts)
	if want := "7.0"; got.Text != want {
		t.Errorf("expected default rendering %q after panic, got %q", want, got.Text)
	}
	if len(capture.panics) != 1 {
		t.Fatalf("expected one reported panic, got %d", len(capture.panics))
	}
	if capture.panics[0].Op != "numfmt.PostFormat" {
		t.Errorf("expected op numfmt.PostFormat, got %q", capture.panics[0].Op)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
		field   string
	}{
		{"defaults valid", func(*Options) {}, false, ""},
		{"group size one valid", func(o *Options) { o.GroupSize = 1 }, false, ""},
		{"group size zero", func(o *Options) { o.GroupSize = 0 }, true, "GroupSize"},
		{"group size negative", func(o *Options) { o.GroupSize = -3 }, true, "GroupSize"},
		{"negative fraction digits", func(o *Options) { o.FractionDigits = -1 }, true, "FractionDigits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)

			err := opts.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig in chain, got %v", err)
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("expected ConfigError for field %s, got %v", tt.field, err)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	if o.FractionDigits != 0 {
		t.Errorf("FractionDigits = %d, want 0", o.FractionDigits)
	}
	if o.EnableGrouping {
		t.Error("EnableGrouping should default to false")
	}
	if o.GroupingSymbol != "," {
		t.Errorf("GroupingSymbol = %q, want %q", o.GroupingSymbol, ",")
	}
	if o.GroupSize != 3 {
		t.Errorf("GroupSize = %d, want 3", o.GroupSize)
	}
	if o.DecimalSeparator != "." {
		t.Errorf("DecimalSeparator = %q, want %q", o.DecimalSeparator, ".")
	}
	if !o.Loop {
		t.Error("Loop should default to true")
	}
	if err := o.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}
