package cmd

import (
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/go-drift/odometer/pkg/decimal"
	"github.com/go-drift/odometer/pkg/numfmt"
)

func init() {
	RegisterCommand(&Command{
		Name:  "format",
		Short: "Format a value into its slot row",
		Long: `Format a value into the slot characters an odometer would display.

The sign never occupies a slot, so a negative value prints the same row
as its absolute value with the negative flag set. The fraction is
truncated to the configured digits and right padded with zeros; the
integer part is grouped right to left when grouping is on.

Negative values need a leading -- so the sign is not read as a flag:

  odometer format -- -12.5

Examples:
  odometer format 1000520.98 --grouping --digits 2
  odometer format 5 --digits 3
  odometer format 1234.56 --group-symbol "." --separator ","`,
		Usage: "odometer format <value> [flags]",
		Run:   runFormat,
	})
}

func runFormat(args []string) error {
	res, err := loadResolved()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	digits := fs.IntP("digits", "d", res.Options.FractionDigits, "fraction digits to keep (truncated, zero padded)")
	grouping := fs.BoolP("grouping", "g", res.Options.EnableGrouping, "group the integer part")
	groupSymbol := fs.String("group-symbol", res.Options.GroupingSymbol, "symbol between digit groups")
	groupSize := fs.Int("group-size", res.Options.GroupSize, "digits per group")
	separator := fs.String("separator", res.Options.DecimalSeparator, "decimal separator")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("exactly one value is required\n\nUsage: odometer format <value> [flags]")
	}

	v, err := decimal.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := res.Options
	opts.FractionDigits = *digits
	opts.EnableGrouping = *grouping
	opts.GroupingSymbol = *groupSymbol
	opts.GroupSize = *groupSize
	opts.DecimalSeparator = *separator
	if err := opts.Validate(); err != nil {
		return err
	}

	out := numfmt.Format(v, opts)
	runes := out.Runes()

	fmt.Printf("Display:  %s\n", out.Text)
	fmt.Printf("Negative: %v\n", out.Negative)
	fmt.Printf("Slots:    %d\n", len(runes))
	for i, r := range runes {
		kind := "symbol"
		if r >= '0' && r <= '9' {
			kind = "digit"
		}
		fmt.Printf("  [%2d] %q %s\n", i, r, kind)
	}

	return nil
}
