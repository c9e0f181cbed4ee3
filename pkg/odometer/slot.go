package odometer

import (
	"fmt"
	"time"

	"github.com/go-drift/odometer/pkg/animation"
	odoerrors "github.com/go-drift/odometer/pkg/errors"
)

// Phase describes whether a slot has a transition in flight.
type Phase int

const (
	// PhaseIdle means the slot rests at its current offset.
	PhaseIdle Phase = iota
	// PhaseAnimating means a roll toward a new target offset is running.
	PhaseAnimating
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnimating:
		return "animating"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// SlotConfig carries the per-slot geometry and timing shared by a row.
type SlotConfig struct {
	// Height is the vertical extent of one digit cell. Offsets are
	// multiples of it.
	Height float64

	// Loop selects the repeating 0-9 strip that only ever scrolls forward.
	// When false the strip is laid out once and slots scroll directly to
	// absolute digit positions.
	Loop bool

	// Duration is the length of one roll.
	Duration time.Duration

	// Curve shapes the roll. Defaults to animation.EaseOut.
	Curve func(float64) float64
}

// Slot animates a single character position of the display.
//
// A numeric slot renders as a vertical strip of digits scrolled to an
// offset; rolling to a new digit is a timed transition of that offset. A
// non-numeric slot (separator, grouping symbol) swaps its content
// immediately and never scrolls. Slots are created at rest and reused for
// the lifetime of their position; a display length change discards the whole
// row instead of remapping slots.
type Slot struct {
	char    rune
	prev    rune
	numeric bool
	height  float64
	loop    bool

	offset float64
	target float64
	phase  Phase

	controller *animation.AnimationController
	tween      *animation.Tween[float64]

	content  any
	disposed bool
}

// NewSlot creates a slot at rest showing char. Numeric slots rest at
// digit*height, non-numeric slots at zero.
func NewSlot(char rune, cfg SlotConfig) *Slot {
	controller := animation.NewAnimationController(cfg.Duration)
	if cfg.Curve != nil {
		controller.Curve = cfg.Curve
	} else {
		controller.Curve = animation.EaseOut
	}

	s := &Slot{
		char:       char,
		prev:       char,
		numeric:    isDigit(char),
		height:     cfg.Height,
		loop:       cfg.Loop,
		phase:      PhaseIdle,
		controller: controller,
	}
	s.offset = s.restingOffset()
	s.target = s.offset

	controller.AddListener(func() {
		if s.tween != nil {
			s.offset = s.tween.Evaluate(s.controller.Value)
		}
	})
	controller.AddStatusListener(func(status animation.AnimationStatus) {
		if status == animation.AnimationCompleted {
			s.offset = s.target
			s.phase = PhaseIdle
		}
	})
	return s
}

// SetChar transitions the slot to a new character.
//
// An unchanged character is a no-op, so an in-flight roll keeps running.
// When both the previous and the new character are digits the slot rolls:
// in loop mode the strip always scrolls forward by
// (old > new ? 10-old+new : new-old) cells added onto the in-flight target,
// in non-loop mode it heads straight to the absolute position new*height.
// The tween restarts from the current visual offset each time, so rapid
// updates compose into one continuous motion instead of snapping back.
// Everything else swaps immediately without a scroll.
func (s *Slot) SetChar(next rune) {
	if s.disposed || next == s.char {
		return
	}

	prev := s.char
	prevNumeric := s.numeric
	nextNumeric := isDigit(next)

	s.prev = prev
	s.char = next
	s.numeric = nextNumeric

	if !prevNumeric || !nextNumeric {
		s.rest()
		return
	}

	oldDigit, ok := digitValue(prev)
	if !ok {
		// The slot was recorded numeric but its character no longer
		// parses. Degrade to an immediate swap and report the mismatch.
		odoerrors.Report(&odoerrors.EngineError{
			Op:   "odometer.Slot.SetChar",
			Kind: odoerrors.KindParse,
			Err:  fmt.Errorf("numeric slot holds non-digit %q", string(prev)),
		})
		s.rest()
		return
	}
	newDigit, _ := digitValue(next)
	s.roll(oldDigit, newDigit)
}

// roll starts a timed transition from the current visual offset to the new
// target.
func (s *Slot) roll(oldDigit, newDigit int) {
	if s.loop {
		steps := newDigit - oldDigit
		if oldDigit > newDigit {
			steps = 10 - oldDigit + newDigit
		}
		s.target += float64(steps) * s.height
	} else {
		s.target = float64(newDigit) * s.height
	}

	s.tween = animation.TweenFloat64(s.offset, s.target)
	s.phase = PhaseAnimating
	s.controller.Reset()
	s.controller.Forward()
}

// rest stops any transition and pins the slot at the resting offset of its
// current character.
func (s *Slot) rest() {
	s.controller.Stop()
	s.tween = nil
	s.offset = s.restingOffset()
	s.target = s.offset
	s.phase = PhaseIdle
}

func (s *Slot) restingOffset() float64 {
	if d, ok := digitValue(s.char); ok {
		return float64(d) * s.height
	}
	return 0
}

// Char returns the character the slot is heading toward (or resting on).
func (s *Slot) Char() rune {
	return s.char
}

// Prev returns the character before the most recent change.
func (s *Slot) Prev() rune {
	return s.prev
}

// IsNumeric reports whether the current character is a base-10 digit.
func (s *Slot) IsNumeric() bool {
	return s.numeric
}

// Offset returns the current visual scroll offset. In loop mode it is
// non-decreasing across successive rolls, matching an infinite forward
// strip; in non-loop mode it moves within [0, 9*height].
func (s *Slot) Offset() float64 {
	return s.offset
}

// Target returns the offset the slot is heading toward. Equal to Offset
// when idle.
func (s *Slot) Target() float64 {
	return s.target
}

// Phase returns the current animation phase.
func (s *Slot) Phase() Phase {
	return s.phase
}

// IsAnimating reports whether a roll is in flight.
func (s *Slot) IsAnimating() bool {
	return s.phase == PhaseAnimating
}

// Height returns the digit cell height the slot was built with.
func (s *Slot) Height() float64 {
	return s.height
}

// Content returns the host-rendered content cached for the current
// character, or nil when no render hook has run.
func (s *Slot) Content() any {
	return s.content
}

func (s *Slot) setContent(v any) {
	s.content = v
}

// Dispose stops the slot's transition permanently. Further SetChar calls
// are no-ops.
func (s *Slot) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	s.phase = PhaseIdle
	s.tween = nil
	s.controller.Dispose()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func digitValue(r rune) (int, bool) {
	if !isDigit(r) {
		return 0, false
	}
	return int(r - '0'), true
}
