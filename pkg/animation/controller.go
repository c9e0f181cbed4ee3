package animation

import (
	"fmt"
	"time"
)

// AnimationStatus represents the current state of a transition.
//
// A controller rests at Dismissed (progress 0), runs Forward, and settles at
// Completed (progress 1). Reset returns it to Dismissed. There is no reverse
// playback: a rolling digit always animates from wherever it is toward a new
// target, and direction lives in the tween endpoints, not the controller.
type AnimationStatus int

const (
	// AnimationDismissed means the transition is stopped at progress 0.
	AnimationDismissed AnimationStatus = iota
	// AnimationForward means the transition is playing toward progress 1.
	AnimationForward
	// AnimationCompleted means the transition is stopped at progress 1.
	AnimationCompleted
)

// String returns a human-readable representation of the animation status.
func (s AnimationStatus) String() string {
	switch s {
	case AnimationDismissed:
		return "dismissed"
	case AnimationForward:
		return "forward"
	case AnimationCompleted:
		return "completed"
	default:
		return fmt.Sprintf("AnimationStatus(%d)", int(s))
	}
}

// NewAnimationController creates a controller with the given duration and a
// linear curve.
func NewAnimationController(duration time.Duration) *AnimationController {
	return &AnimationController{
		Duration:        duration,
		Curve:           LinearCurve,
		status:          AnimationDismissed,
		listeners:       make(map[int]func()),
		statusListeners: make(map[int]func(AnimationStatus)),
	}
}

// AnimationController drives a transition by producing progress values over
// time.
//
// Value runs from 0.0 to 1.0 over Duration; Curve reshapes the linear
// progress into eased motion. Map the progress onto concrete ranges with
// [Tween]. Controllers are not thread-safe; drive them from the host's
// frame thread only. Always call Dispose when done.
type AnimationController struct {
	// Value is the current eased progress, ranging 0.0 to 1.0.
	Value float64

	// Duration is the length of the transition.
	Duration time.Duration

	// Curve transforms linear progress. Defaults to LinearCurve.
	Curve func(float64) float64

	status          AnimationStatus
	ticker          *Ticker
	listeners       map[int]func()
	statusListeners map[int]func(AnimationStatus)
	nextListenerID  int
}

// Forward plays the transition from the start: progress runs 0 to 1 over
// Duration. Callers that need visual continuity from a moving value re-anchor
// their tween at the current output before calling Forward.
func (c *AnimationController) Forward() {
	if c.ticker != nil {
		c.ticker.Stop()
	}
	c.Value = 0
	c.setStatus(AnimationForward)
	c.ticker = NewTicker(func(elapsed time.Duration) {
		c.tick(elapsed)
	})
	c.ticker.Start()
}

// SetProgress stops any running transition and jumps the progress to p,
// clamped to [0, 1]. Listeners fire once with the new value.
func (c *AnimationController) SetProgress(p float64) {
	c.Stop()
	if p < 0 {
		p = 0
	} else if p > 1 {
		p = 1
	}
	c.Value = p
	switch {
	case p <= 0:
		c.setStatus(AnimationDismissed)
	case p >= 1:
		c.setStatus(AnimationCompleted)
	}
	c.notifyListeners()
}

func (c *AnimationController) tick(elapsed time.Duration) {
	if c.Duration <= 0 {
		c.Value = 1
		c.notifyListeners()
		c.finish()
		return
	}

	progress := float64(elapsed) / float64(c.Duration)
	if progress >= 1.0 {
		progress = 1.0
	}

	eased := progress
	if c.Curve != nil {
		eased = c.Curve(progress)
	}
	c.Value = eased
	c.notifyListeners()

	if progress >= 1.0 {
		c.finish()
	}
}

func (c *AnimationController) finish() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	c.setStatus(AnimationCompleted)
}

// Reset stops the transition and returns the progress to 0.
func (c *AnimationController) Reset() {
	c.Stop()
	c.Value = 0
	c.setStatus(AnimationDismissed)
	c.notifyListeners()
}

// Stop halts the transition at the current progress.
func (c *AnimationController) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Status returns the current animation status.
func (c *AnimationController) Status() AnimationStatus {
	return c.status
}

// IsAnimating returns true if the transition is currently running.
func (c *AnimationController) IsAnimating() bool {
	return c.status == AnimationForward
}

// IsCompleted returns true if the transition finished at progress 1.
func (c *AnimationController) IsCompleted() bool {
	return c.status == AnimationCompleted
}

// AddListener adds a callback that fires whenever the progress changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddListener(fn func()) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[id] = fn
	return func() {
		delete(c.listeners, id)
	}
}

// AddStatusListener adds a callback that fires whenever the status changes.
// Returns an unsubscribe function.
func (c *AnimationController) AddStatusListener(fn func(AnimationStatus)) func() {
	id := c.nextListenerID
	c.nextListenerID++
	c.statusListeners[id] = fn
	return func() {
		delete(c.statusListeners, id)
	}
}

func (c *AnimationController) setStatus(status AnimationStatus) {
	if c.status == status {
		return
	}
	c.status = status
	for _, listener := range c.statusListeners {
		listener(status)
	}
}

func (c *AnimationController) notifyListeners() {
	for _, listener := range c.listeners {
		listener()
	}
}

// Dispose stops the transition and releases listener registrations.
func (c *AnimationController) Dispose() {
	c.Stop()
	c.listeners = nil
	c.statusListeners = nil
}
