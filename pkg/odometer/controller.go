package odometer

import (
	"github.com/go-drift/odometer/pkg/decimal"
	odoerrors "github.com/go-drift/odometer/pkg/errors"
)

// Controller holds the displayed value and mutates it through exact decimal
// arithmetic, so chained increments land on the base-10 grid instead of
// drifting the way float64 accumulation does.
//
// Observers subscribe with AddListener and are notified synchronously, in
// registration order, once per mutating call. Controllers are not
// thread-safe; drive them from the host's event loop only.
type Controller struct {
	value     decimal.Value
	disposed  bool
	listeners []valueListener
	nextID    int
}

type valueListener struct {
	id int
	fn func(decimal.Value)
}

// NewController creates a controller holding the given initial value.
// Returns decimal.ErrNotFinite when the value is NaN or infinite.
func NewController(initial float64) (*Controller, error) {
	v, err := decimal.FromFloat64(initial)
	if err != nil {
		return nil, err
	}
	return NewControllerValue(v), nil
}

// NewControllerValue creates a controller holding an exact decimal value.
func NewControllerValue(v decimal.Value) *Controller {
	return &Controller{value: v}
}

// Value returns the current value.
func (c *Controller) Value() decimal.Value {
	return c.value
}

// Float64 returns the current value as the nearest float64.
func (c *Controller) Float64() float64 {
	return c.value.Float64()
}

// Add adds x to the value and publishes the result. The value is unchanged
// when x is not finite.
func (c *Controller) Add(x float64) error {
	if c.disposed {
		return nil
	}
	o, err := decimal.FromFloat64(x)
	if err != nil {
		return err
	}
	c.setValue(c.value.Add(o))
	return nil
}

// Subtract subtracts x from the value and publishes the result. The value is
// unchanged when x is not finite.
func (c *Controller) Subtract(x float64) error {
	if c.disposed {
		return nil
	}
	o, err := decimal.FromFloat64(x)
	if err != nil {
		return err
	}
	c.setValue(c.value.Sub(o))
	return nil
}

// Multiply multiplies the value by x and publishes the result. The value is
// unchanged when x is not finite.
func (c *Controller) Multiply(x float64) error {
	if c.disposed {
		return nil
	}
	o, err := decimal.FromFloat64(x)
	if err != nil {
		return err
	}
	c.setValue(c.value.Mul(o))
	return nil
}

// Divide divides the value by x and publishes the result. Returns
// decimal.ErrDivisionByZero with the value unchanged when x is zero.
func (c *Controller) Divide(x float64) error {
	if c.disposed {
		return nil
	}
	o, err := decimal.FromFloat64(x)
	if err != nil {
		return err
	}
	q, err := c.value.Div(o)
	if err != nil {
		return err
	}
	c.setValue(q)
	return nil
}

// Reset replaces the value outright and publishes it.
func (c *Controller) Reset(x float64) error {
	if c.disposed {
		return nil
	}
	v, err := decimal.FromFloat64(x)
	if err != nil {
		return err
	}
	c.setValue(v)
	return nil
}

// ResetValue replaces the value with an exact decimal and publishes it.
func (c *Controller) ResetValue(v decimal.Value) {
	if c.disposed {
		return
	}
	c.setValue(v)
}

// AddListener subscribes fn to value changes. Returns an unsubscribe
// function. Listeners fire synchronously in registration order; a panicking
// listener is reported and the remaining listeners still run.
func (c *Controller) AddListener(fn func(decimal.Value)) func() {
	if c.disposed {
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, valueListener{id: id, fn: fn})
	return func() {
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispose ends the controller's life: every mutating operation becomes a
// silent no-op and observers are released. Dispose is idempotent.
func (c *Controller) Dispose() {
	c.disposed = true
	c.listeners = nil
}

func (c *Controller) setValue(v decimal.Value) {
	c.value = v
	// Snapshot so listeners may unsubscribe or subscribe during delivery.
	snapshot := make([]valueListener, len(c.listeners))
	copy(snapshot, c.listeners)
	for _, l := range snapshot {
		c.notify(l.fn)
	}
}

func (c *Controller) notify(fn func(decimal.Value)) {
	defer odoerrors.Recover("odometer.Controller.notify")
	fn(c.value)
}
