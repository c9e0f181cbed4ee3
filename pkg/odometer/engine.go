package odometer

import (
	"fmt"
	"time"

	"github.com/go-drift/odometer/pkg/decimal"
	odoerrors "github.com/go-drift/odometer/pkg/errors"
	"github.com/go-drift/odometer/pkg/numfmt"
)

// Content is whatever the host displays inside one slot. The engine never
// inspects it; it only caches what the render hook returns.
type Content = any

// Size is the slot cell extent handed to the render hook.
type Size struct {
	Width  float64
	Height float64
}

// RenderSlotFunc lets the host supply custom content for a slot. It receives
// the cell size, the slot's character, whether that character is a digit,
// and the engine's fallback content (the character as a string). The return
// value is cached on the slot until its character changes.
type RenderSlotFunc func(size Size, char rune, numeric bool, def Content) Content

// Config assembles everything an engine needs. Format is validated at
// construction; formatting itself never fails afterwards.
type Config struct {
	// Format controls how values become slot characters.
	Format numfmt.Options

	// SlotHeight is the vertical extent of one digit cell. Scroll offsets
	// are multiples of it. Must be positive.
	SlotHeight float64

	// SlotWidth is the horizontal cell extent reported to the render hook.
	// The engine computes no horizontal offsets from it; zero means the
	// host decides.
	SlotWidth float64

	// Duration is the length of one digit roll. Zero makes rolls complete
	// on their first frame.
	Duration time.Duration

	// Curve shapes each roll. Defaults to animation.EaseOut.
	Curve func(float64) float64

	// RenderSlot is the optional host render hook.
	RenderSlot RenderSlotFunc
}

func (c Config) validate() error {
	if err := c.Format.Validate(); err != nil {
		return err
	}
	if c.SlotHeight <= 0 {
		return fmt.Errorf("SlotHeight must be positive: %w", numfmt.ErrInvalidConfig)
	}
	return nil
}

// Engine owns the slot row and keeps it in step with a value.
//
// Each Update runs the pipeline from the control-flow contract: format the
// value, diff the new display against the current one, then either patch
// changed slots in place (equal lengths, in-flight rolls compose) or rebuild
// the whole row at rest (length change). The invariant len(slots) ==
// len(display runes) holds after every update; a detected mismatch forces a
// rebuild rather than a misaligned patch.
//
// The engine is single-threaded: the host's event loop calls Update and the
// host's frame loop steps the animation tickers. It holds no locks; drive it
// from one goroutine only.
type Engine struct {
	cfg       Config
	slots     []*Slot
	display   []rune
	negative  bool
	listeners []engineListener
	nextID    int
	disposed  bool
}

type engineListener struct {
	id int
	fn func()
}

// NewEngine validates cfg and creates an empty engine. The slot row appears
// with the first Update (or Attach).
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Attach drives the engine from a controller: the controller's current value
// is applied immediately and every subsequent publish becomes an Update.
// The returned function detaches the engine again.
func (e *Engine) Attach(c *Controller) func() {
	e.Update(c.Value())
	return c.AddListener(func(v decimal.Value) {
		e.Update(v)
	})
}

// Update formats v and transitions the slot row toward the new display.
func (e *Engine) Update(v decimal.Value) {
	if e.disposed {
		return
	}

	f := numfmt.Format(v, e.cfg.Format)
	next := f.Runes()
	e.negative = f.Negative

	plan := Diff(e.display, next)
	if plan.Kind == PlanPatch && len(e.slots) != len(e.display) {
		// The row no longer matches the display it was built for; a
		// patch would address the wrong columns.
		plan = Plan{Kind: PlanRebuild, Runes: next}
	}

	switch plan.Kind {
	case PlanPatch:
		for _, cmd := range plan.Commands {
			s := e.slots[cmd.Index]
			s.SetChar(cmd.Char)
			e.renderContent(s)
		}
	case PlanRebuild:
		e.rebuild(plan.Runes)
	}

	e.display = next
	e.notify()
}

// rebuild discards the slot row and creates a fresh one at rest.
func (e *Engine) rebuild(next []rune) {
	for _, s := range e.slots {
		s.Dispose()
	}
	e.slots = make([]*Slot, len(next))
	for i, r := range next {
		s := NewSlot(r, e.slotConfig())
		e.renderContent(s)
		e.slots[i] = s
	}
}

func (e *Engine) slotConfig() SlotConfig {
	return SlotConfig{
		Height:   e.cfg.SlotHeight,
		Loop:     e.cfg.Format.Loop,
		Duration: e.cfg.Duration,
		Curve:    e.cfg.Curve,
	}
}

// renderContent refreshes the cached content for s through the render hook.
// A panicking hook is reported and the fallback content is kept; rendering
// must not take down the frame.
func (e *Engine) renderContent(s *Slot) {
	def := Content(string(s.Char()))
	if e.cfg.RenderSlot == nil {
		s.setContent(def)
		return
	}

	out := def
	func() {
		defer func() {
			if r := recover(); r != nil {
				odoerrors.ReportPanic(&odoerrors.PanicError{
					Op:         "odometer.Engine.renderSlot",
					Value:      r,
					StackTrace: odoerrors.CaptureStack(),
				})
			}
		}()
		size := Size{Width: e.cfg.SlotWidth, Height: e.cfg.SlotHeight}
		out = e.cfg.RenderSlot(size, s.Char(), s.IsNumeric(), def)
	}()
	s.setContent(out)
}

// Slots returns the current slot row in display order.
func (e *Engine) Slots() []*Slot {
	out := make([]*Slot, len(e.slots))
	copy(out, e.slots)
	return out
}

// Display returns the current display string (sign never included).
func (e *Engine) Display() string {
	return string(e.display)
}

// Negative reports whether the last formatted value was below zero. The
// sign never occupies a slot; the host renders it from this signal.
func (e *Engine) Negative() bool {
	return e.negative
}

// Animating reports whether any slot is mid transition. Hosts use this to
// keep their frame loop running until the row settles.
func (e *Engine) Animating() bool {
	for _, s := range e.slots {
		if s.IsAnimating() {
			return true
		}
	}
	return false
}

// AddListener subscribes fn to applied updates: it fires after each Update,
// Invalidate, or SetSlotHeight takes effect so the host can repaint.
// Returns an unsubscribe function.
func (e *Engine) AddListener(fn func()) func() {
	if e.disposed {
		return func() {}
	}
	id := e.nextID
	e.nextID++
	e.listeners = append(e.listeners, engineListener{id: id, fn: fn})
	return func() {
		for i, l := range e.listeners {
			if l.id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// SetSlotHeight changes the digit cell height and rebuilds the row at rest.
// A non-positive height is reported and ignored.
func (e *Engine) SetSlotHeight(h float64) {
	if e.disposed {
		return
	}
	if h <= 0 {
		odoerrors.Report(&odoerrors.EngineError{
			Op:   "odometer.Engine.SetSlotHeight",
			Kind: odoerrors.KindConfig,
			Err:  fmt.Errorf("height %v is not positive", h),
		})
		return
	}
	e.cfg.SlotHeight = h
	e.Invalidate()
}

// Invalidate rebuilds the slot row at rest from the current display. Any
// external lifecycle change the host observes (scale factor, font metrics,
// accessibility settings) collapses to this one signal.
func (e *Engine) Invalidate() {
	if e.disposed {
		return
	}
	e.rebuild(e.display)
	e.notify()
}

// Dispose stops every slot transition and releases listeners. Further
// updates are no-ops.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	for _, s := range e.slots {
		s.Dispose()
	}
	e.listeners = nil
}

func (e *Engine) notify() {
	snapshot := make([]engineListener, len(e.listeners))
	copy(snapshot, e.listeners)
	for _, l := range snapshot {
		e.notifyOne(l.fn)
	}
}

func (e *Engine) notifyOne(fn func()) {
	defer odoerrors.Recover("odometer.Engine.notify")
	fn()
}
