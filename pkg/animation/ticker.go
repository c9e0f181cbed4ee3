// Package animation provides the timing substrate for rolling-digit
// transitions: a frame ticker, a progress controller, easing curves, and
// value tweens.
//
// The package has no scheduler of its own. The host owns the frame loop and
// calls [StepTickers] once per frame; everything else derives from that tick
// and the package [Clock]. A transition is composed from three parts:
//
//   - [AnimationController]: advances a progress value from 0 to 1 over a
//     duration, shaped by an easing curve.
//   - [Tween]: maps the 0-1 progress onto a concrete range, such as a slot's
//     scroll offset in logical pixels.
//   - [Ticker]: the low-level per-frame callback both are built on.
//
// A typical slot transition:
//
//	ctrl := animation.NewAnimationController(300 * time.Millisecond)
//	ctrl.Curve = animation.EaseOut
//	offset := animation.TweenFloat64(currentOffset, targetOffset)
//	ctrl.AddListener(func() { slot.offset = offset.Transform(ctrl) })
//	ctrl.Forward()
//
// Tests swap the clock with [SetClock] and pump frames by hand, so no test
// ever sleeps on the wall clock.
package animation

import (
	"sync"
	"time"
)

var (
	tickerMu      sync.Mutex
	activeTickers = make(map[*Ticker]struct{})
)

// Ticker calls a callback on each frame while active.
//
// Ticker is the low-level timing primitive used by [AnimationController];
// most code should use the controller instead. The callback receives the
// time elapsed since Start. Tickers advance only when the host frame loop
// calls [StepTickers].
type Ticker struct {
	callback func(elapsed time.Duration)
	isActive bool
	start    time.Time
}

// NewTicker creates a new ticker with the given callback.
func NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return &Ticker{
		callback: callback,
	}
}

// Start activates the ticker.
func (t *Ticker) Start() {
	if t.isActive {
		return
	}
	t.isActive = true
	t.start = Now()
	tickerMu.Lock()
	activeTickers[t] = struct{}{}
	tickerMu.Unlock()
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	if !t.isActive {
		return
	}
	t.isActive = false
	tickerMu.Lock()
	delete(activeTickers, t)
	tickerMu.Unlock()
}

// IsActive returns whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	return t.isActive
}

// StepTickers advances all active tickers.
// The host calls this once per frame.
func StepTickers() {
	tickerMu.Lock()
	if len(activeTickers) == 0 {
		tickerMu.Unlock()
		return
	}
	// Copy so the lock is not held during callbacks, which may stop this
	// ticker or start new ones.
	tickers := make([]*Ticker, 0, len(activeTickers))
	for ticker := range activeTickers {
		tickers = append(tickers, ticker)
	}
	tickerMu.Unlock()

	for _, ticker := range tickers {
		if ticker.isActive && ticker.callback != nil {
			ticker.callback(Now().Sub(ticker.start))
		}
	}
}

// HasActiveTickers returns true if any tickers are active, meaning another
// frame is needed before the display settles.
func HasActiveTickers() bool {
	tickerMu.Lock()
	defer tickerMu.Unlock()
	return len(activeTickers) > 0
}
