package odometer

import (
	"errors"
	"math"
	"testing"

	"github.com/go-drift/odometer/pkg/decimal"
	odoerrors "github.com/go-drift/odometer/pkg/errors"
)

// captureHandler records reports for assertions across this package's tests.
type captureHandler struct {
	errs   []*odoerrors.EngineError
	panics []*odoerrors.PanicError
}

func (h *captureHandler) HandleError(e *odoerrors.EngineError) {
	h.errs = append(h.errs, e)
}

func (h *captureHandler) HandlePanic(p *odoerrors.PanicError) {
	h.panics = append(h.panics, p)
}

func mustController(t *testing.T, initial float64) *Controller {
	t.Helper()
	c, err := NewController(initial)
	if err != nil {
		t.Fatalf("NewController(%v): %v", initial, err)
	}
	return c
}

func TestControllerExactIncrement(t *testing.T) {
	c := mustController(t, 99.99)

	if err := c.Add(0.01); err != nil {
		t.Fatal(err)
	}
	if want := decimal.MustParse("100"); !c.Value().Equal(want) {
		t.Errorf("after add: %s, want %s", c.Value(), want)
	}

	if err := c.Reset(99.99); err != nil {
		t.Fatal(err)
	}
	if want := decimal.MustParse("99.99"); !c.Value().Equal(want) {
		t.Errorf("after reset: %s, want %s", c.Value(), want)
	}
}

func TestControllerChainedIncrementsStayOnGrid(t *testing.T) {
	c := mustController(t, 0)

	for i := 0; i < 10; i++ {
		if err := c.Add(0.1); err != nil {
			t.Fatal(err)
		}
	}
	// Ten float64 additions of 0.1 land at 0.9999999999999999; exact
	// decimal accumulation lands at 1.
	if want := decimal.MustParse("1"); !c.Value().Equal(want) {
		t.Errorf("ten adds of 0.1 = %s, want %s", c.Value(), want)
	}
}

func TestControllerArithmetic(t *testing.T) {
	c := mustController(t, 12)

	if err := c.Subtract(2.5); err != nil {
		t.Fatal(err)
	}
	if want := decimal.MustParse("9.5"); !c.Value().Equal(want) {
		t.Fatalf("after subtract: %s, want %s", c.Value(), want)
	}

	if err := c.Multiply(4); err != nil {
		t.Fatal(err)
	}
	if want := decimal.MustParse("38"); !c.Value().Equal(want) {
		t.Fatalf("after multiply: %s, want %s", c.Value(), want)
	}

	if err := c.Divide(8); err != nil {
		t.Fatal(err)
	}
	if want := decimal.MustParse("4.75"); !c.Value().Equal(want) {
		t.Fatalf("after divide: %s, want %s", c.Value(), want)
	}
}

func TestControllerDivideByZero(t *testing.T) {
	c := mustController(t, 42)

	published := 0
	c.AddListener(func(decimal.Value) { published++ })

	err := c.Divide(0)
	if !errors.Is(err, decimal.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if want := decimal.MustParse("42"); !c.Value().Equal(want) {
		t.Errorf("value changed on failed divide: %s", c.Value())
	}
	if published != 0 {
		t.Errorf("failed divide published %d times", published)
	}
}

func TestControllerRejectsNonFinite(t *testing.T) {
	c := mustController(t, 1)

	published := 0
	c.AddListener(func(decimal.Value) { published++ })

	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := c.Add(x); !errors.Is(err, decimal.ErrNotFinite) {
			t.Errorf("Add(%v): expected ErrNotFinite, got %v", x, err)
		}
	}
	if want := decimal.MustParse("1"); !c.Value().Equal(want) {
		t.Errorf("value changed on rejected operand: %s", c.Value())
	}
	if published != 0 {
		t.Errorf("rejected operands published %d times", published)
	}

	if _, err := NewController(math.NaN()); !errors.Is(err, decimal.ErrNotFinite) {
		t.Errorf("NewController(NaN): expected ErrNotFinite, got %v", err)
	}
}

func TestControllerPublishesInRegistrationOrder(t *testing.T) {
	c := mustController(t, 0)

	var order []string
	c.AddListener(func(decimal.Value) { order = append(order, "first") })
	c.AddListener(func(decimal.Value) { order = append(order, "second") })
	c.AddListener(func(decimal.Value) { order = append(order, "third") })

	if err := c.Add(1); err != nil {
		t.Fatal(err)
	}

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestControllerEachCallPublishesOnce(t *testing.T) {
	c := mustController(t, 5)

	published := 0
	var last decimal.Value
	c.AddListener(func(v decimal.Value) {
		published++
		last = v
	})

	c.Add(1)
	c.Add(0) // no value change, still one publish
	c.Reset(5)

	if published != 3 {
		t.Errorf("expected 3 publishes, got %d", published)
	}
	if want := decimal.MustParse("5"); !last.Equal(want) {
		t.Errorf("last published value = %s, want %s", last, want)
	}
}

func TestControllerUnsubscribe(t *testing.T) {
	c := mustController(t, 0)

	first, second := 0, 0
	unsubscribe := c.AddListener(func(decimal.Value) { first++ })
	c.AddListener(func(decimal.Value) { second++ })

	c.Add(1)
	unsubscribe()
	c.Add(1)

	if first != 1 {
		t.Errorf("unsubscribed listener fired %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("remaining listener fired %d times, want 2", second)
	}
}

func TestControllerListenerPanicIsolated(t *testing.T) {
	capture := &captureHandler{}
	odoerrors.SetHandler(capture)
	defer odoerrors.SetHandler(nil)

	c := mustController(t, 0)

	ran := false
	c.AddListener(func(decimal.Value) { panic("listener boom") })
	c.AddListener(func(decimal.Value) { ran = true })

	if err := c.Add(1); err != nil {
		t.Fatal(err)
	}

	if !ran {
		t.Error("listener after the panicking one did not run")
	}
	if len(capture.panics) != 1 {
		t.Fatalf("expected one reported panic, got %d", len(capture.panics))
	}
	if capture.panics[0].Op != "odometer.Controller.notify" {
		t.Errorf("unexpected op %q", capture.panics[0].Op)
	}
}

func TestControllerDisposeMakesOperationsSilent(t *testing.T) {
	c := mustController(t, 7)

	published := 0
	c.AddListener(func(decimal.Value) { published++ })

	c.Dispose()

	if err := c.Add(1); err != nil {
		t.Errorf("Add after dispose returned %v", err)
	}
	if err := c.Divide(0); err != nil {
		t.Errorf("Divide(0) after dispose returned %v", err)
	}
	if err := c.Reset(100); err != nil {
		t.Errorf("Reset after dispose returned %v", err)
	}
	c.ResetValue(decimal.MustParse("3"))

	if want := decimal.MustParse("7"); !c.Value().Equal(want) {
		t.Errorf("value mutated after dispose: %s", c.Value())
	}
	if published != 0 {
		t.Errorf("disposed controller published %d times", published)
	}

	// Dispose is idempotent and later subscriptions are inert.
	c.Dispose()
	unsubscribe := c.AddListener(func(decimal.Value) { published++ })
	unsubscribe()
}
