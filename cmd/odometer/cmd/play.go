package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	flag "github.com/spf13/pflag"

	"github.com/go-drift/odometer/cmd/odometer/internal/config"
	"github.com/go-drift/odometer/pkg/animation"
	"github.com/go-drift/odometer/pkg/decimal"
	"github.com/go-drift/odometer/pkg/odometer"
)

func init() {
	RegisterCommand(&Command{
		Name:  "play",
		Short: "Animate a transition in the terminal",
		Long: `Animate an odometer through a sequence of values in the terminal.

The row repaints in place once per frame while digits roll between
values; a short hold separates consecutive transitions. The frame loop
runs on the wall clock and steps the animation tickers exactly the way
an embedding UI host would.

A transition that changes the row length (say 99.99 to 100.00) rebuilds
the row at rest instead of rolling; same-length transitions roll every
changed digit, carries included.

Examples:
  odometer play 120 135 128
  odometer play 41.50 42.50 --digits 2 --duration 1.5s
  odometer play 9 3 7 --curve ease-in-out --no-loop`,
		Usage: "odometer play <value> <value>... [flags]",
		Run:   runPlay,
	})
}

func runPlay(args []string) error {
	res, err := loadResolved()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	duration := fs.DurationP("duration", "t", res.Duration, "duration of one transition")
	curveName := fs.String("curve", res.CurveName, "easing curve (linear, ease, ease-in, ease-out, ease-in-out)")
	fps := fs.Int("fps", 30, "frames per second")
	hold := fs.Duration("hold", 400*time.Millisecond, "pause between transitions")
	digits := fs.IntP("digits", "d", res.Options.FractionDigits, "fraction digits")
	grouping := fs.BoolP("grouping", "g", res.Options.EnableGrouping, "group the integer part")
	noLoop := fs.Bool("no-loop", !res.Options.Loop, "roll through every intermediate digit instead of wrapping")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("at least two values are required\n\nUsage: odometer play <value> <value>... [flags]")
	}
	if *fps < 1 {
		return fmt.Errorf("fps must be at least 1")
	}

	curve, err := config.ResolveCurve(*curveName)
	if err != nil {
		return err
	}

	values := make([]decimal.Value, fs.NArg())
	for i, arg := range fs.Args() {
		v, err := decimal.Parse(arg)
		if err != nil {
			return err
		}
		values[i] = v
	}

	opts := res.Options
	opts.FractionDigits = *digits
	opts.EnableGrouping = *grouping
	opts.Loop = !*noLoop

	ctrl := odometer.NewControllerValue(values[0])
	defer ctrl.Dispose()

	// Terminal cells have no sub-character positions, so slot height 1
	// makes offsets count whole digit steps.
	eng, err := odometer.NewEngine(odometer.Config{
		Format:     opts,
		SlotHeight: 1,
		Duration:   *duration,
		Curve:      curve,
	})
	if err != nil {
		return err
	}
	defer eng.Dispose()

	detach := eng.Attach(ctrl)
	defer detach()

	var width int
	paint := func() {
		line := displayLine(eng)
		if n := utf8.RuneCountInString(line); n < width {
			line += strings.Repeat(" ", width-n)
		} else {
			width = n
		}
		fmt.Printf("\r%s", line)
	}
	paint()

	tick := time.NewTicker(time.Second / time.Duration(*fps))
	defer tick.Stop()

	for i, target := range values[1:] {
		if i > 0 {
			time.Sleep(*hold)
		}
		ctrl.ResetValue(target)
		for range tick.C {
			animation.StepTickers()
			paint()
			if !eng.Animating() {
				break
			}
		}
	}

	fmt.Println()
	return nil
}

// displayLine samples each slot at its current scroll position. A slot
// mid-roll shows the digit nearest its window, a stepped rendition of the
// pixel-space animation.
func displayLine(eng *odometer.Engine) string {
	var b strings.Builder
	if eng.Negative() {
		b.WriteRune('-')
	}
	for _, s := range eng.Slots() {
		b.WriteRune(visibleRune(s))
	}
	return b.String()
}

func visibleRune(s *odometer.Slot) rune {
	if !s.IsNumeric() {
		return s.Char()
	}
	steps := int(math.Round(s.Offset()/s.Height())) % 10
	return rune('0' + steps)
}
