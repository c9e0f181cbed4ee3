package cmd

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/go-drift/odometer/cmd/odometer/internal/config"
	"github.com/go-drift/odometer/cmd/odometer/internal/strip"
	"github.com/go-drift/odometer/pkg/animation"
	"github.com/go-drift/odometer/pkg/decimal"
	"github.com/go-drift/odometer/pkg/numfmt"
	"github.com/go-drift/odometer/pkg/odometer"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render a transition to an animated GIF",
		Long: `Render an odometer transition to an animated GIF.

Frames are rasterized on a deterministic clock stepped at exactly the
frame interval, so the same invocation always produces the same file.
Each numeric slot is a window onto a vertical digit strip that scrolls
between values; the row is held briefly at both ends. The canvas is
sized for the widest value in the sequence and rows grow leftward, the
way a mechanical counter gains digits.

The minus sign never occupies a slot and is not drawn.

Examples:
  odometer render 41.50 42.50 -o roll.gif --digits 2
  odometer render 1000520.98 1000521.00 -o carry.gif --grouping --digits 2
  odometer render 9 3 -o down.gif --no-loop --curve ease-in-out`,
		Usage: "odometer render <value> <value>... [flags]",
		Run:   runRender,
	})
}

// renderClock is a manually stepped animation clock. Advancing it by the
// frame interval between ticker steps keeps GIF output reproducible.
type renderClock struct {
	now time.Time
}

func (c *renderClock) Now() time.Time { return c.now }

func (c *renderClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func runRender(args []string) error {
	res, err := loadResolved()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	output := fs.StringP("output", "o", "odometer.gif", "output file")
	duration := fs.DurationP("duration", "t", res.Duration, "duration of one transition")
	curveName := fs.String("curve", res.CurveName, "easing curve (linear, ease, ease-in, ease-out, ease-in-out)")
	fps := fs.Int("fps", 25, "frames per second (1-100)")
	hold := fs.Duration("hold", 500*time.Millisecond, "hold time at each end")
	digits := fs.IntP("digits", "d", res.Options.FractionDigits, "fraction digits")
	grouping := fs.BoolP("grouping", "g", res.Options.EnableGrouping, "group the integer part")
	noLoop := fs.Bool("no-loop", !res.Options.Loop, "roll through every intermediate digit instead of wrapping")
	slotWidth := fs.Int("slot-width", res.SlotWidth, "slot cell width in pixels")
	slotHeight := fs.Int("slot-height", res.SlotHeight, "slot cell height in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("at least two values are required\n\nUsage: odometer render <value> <value>... [flags]")
	}
	if *fps < 1 || *fps > 100 {
		return fmt.Errorf("fps must be between 1 and 100")
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

	// Canvas columns for the widest row in the sequence.
	cells := 1
	for _, v := range values {
		if n := len(numfmt.Format(v, opts).Runes()); n > cells {
			cells = n
		}
	}

	renderer, err := strip.NewRenderer(strip.Geometry{SlotWidth: *slotWidth, SlotHeight: *slotHeight}, cells)
	if err != nil {
		return err
	}

	clk := &renderClock{now: time.Unix(0, 0)}
	prev := animation.SetClock(clk)
	defer animation.SetClock(prev)

	ctrl := odometer.NewControllerValue(values[0])
	defer ctrl.Dispose()

	eng, err := odometer.NewEngine(odometer.Config{
		Format:     opts,
		SlotHeight: float64(*slotHeight),
		SlotWidth:  float64(*slotWidth),
		Duration:   *duration,
		Curve:      curve,
	})
	if err != nil {
		return err
	}
	defer eng.Dispose()

	detach := eng.Attach(ctrl)
	defer detach()

	frame := time.Second / time.Duration(*fps)
	anim := strip.Animation{DelayCS: int(frame / (10 * time.Millisecond))}
	holdFrames := int(*hold / frame)

	appendHold := func() {
		for i := 0; i < holdFrames; i++ {
			anim.Append(renderer.Frame(eng.Slots()))
		}
	}

	appendHold()
	for _, target := range values[1:] {
		ctrl.ResetValue(target)
		for eng.Animating() {
			clk.advance(frame)
			animation.StepTickers()
			anim.Append(renderer.Frame(eng.Slots()))
		}
		appendHold()
	}

	f, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := anim.EncodeGIF(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	bounds := renderer.Bounds()
	fmt.Printf("Wrote %s: %d frames, %dx%d px\n", *output, anim.Len(), bounds.Dx(), bounds.Dy())
	return nil
}
