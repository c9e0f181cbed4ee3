package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-drift/odometer/pkg/animation"
)

// FrameDuration is the simulated frame interval used by Pump, roughly 60fps.
const FrameDuration = 16 * time.Millisecond

// ErrSettleTimeout is returned when Settle exceeds its timeout.
var ErrSettleTimeout = errors.New("Settle timed out: tickers still active")

// Pump drives animation frames against a fake clock.
//
// The engine never schedules its own frames; a host loop advances time and
// calls [animation.StepTickers]. Pump plays that host role in tests, with a
// [FakeClock] substituted for wall time so every transition is reproducible.
type Pump struct {
	clock     *FakeClock
	prevClock animation.Clock
}

// NewPump installs a fake animation clock and returns a Pump that steps
// frames against it. The previous clock is restored via t.Cleanup.
func NewPump(t *testing.T) *Pump {
	clk := NewFakeClock()
	p := &Pump{clock: clk}
	p.prevClock = animation.SetClock(clk)
	t.Cleanup(func() {
		animation.SetClock(p.prevClock)
	})
	return p
}

// Clock returns the fake clock for advancing time directly.
func (p *Pump) Clock() *FakeClock {
	return p.clock
}

// Frame advances the clock by one FrameDuration and steps all active tickers.
func (p *Pump) Frame() {
	p.FrameFor(FrameDuration)
}

// FrameFor advances the clock by d and steps all active tickers once.
func (p *Pump) FrameFor(d time.Duration) {
	p.clock.Advance(d)
	animation.StepTickers()
}

// Settle pumps frames until no tickers remain active or the timeout is
// reached. Returns ErrSettleTimeout if transitions are still running after
// timeout of simulated time.
func (p *Pump) Settle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		if !animation.HasActiveTickers() {
			return nil
		}
		p.Frame()
		elapsed += FrameDuration
	}
	if animation.HasActiveTickers() {
		return ErrSettleTimeout
	}
	return nil
}
