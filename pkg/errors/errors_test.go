package errors

import (
	stderrors "errors"
	"testing"
)

// captureHandler records reports for assertions.
type captureHandler struct {
	errs   []*EngineError
	panics []*PanicError
}

func (h *captureHandler) HandleError(err *EngineError) { h.errs = append(h.errs, err) }
func (h *captureHandler) HandlePanic(err *PanicError)  { h.panics = append(h.panics, err) }

func TestReportSetsTimestampAndRoutes(t *testing.T) {
	h := &captureHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	cause := stderrors.New("boom")
	Report(&EngineError{Op: "odometer.test", Kind: KindParse, Err: cause})

	if len(h.errs) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(h.errs))
	}
	got := h.errs[0]
	if got.Timestamp.IsZero() {
		t.Error("expected Timestamp to be filled in")
	}
	if !stderrors.Is(got, cause) {
		t.Error("expected Unwrap to reach the cause")
	}
	if got.Error() != "odometer.test [parse]: boom" {
		t.Errorf("unexpected message %q", got.Error())
	}
}

func TestRecoverReportsPanic(t *testing.T) {
	h := &captureHandler{}
	SetHandler(h)
	defer SetHandler(nil)

	func() {
		defer Recover("odometer.test.callback")
		panic("listener exploded")
	}()

	if len(h.panics) != 1 {
		t.Fatalf("expected 1 reported panic, got %d", len(h.panics))
	}
	p := h.panics[0]
	if p.Value != "listener exploded" {
		t.Errorf("expected panic value to be preserved, got %v", p.Value)
	}
	if p.Op != "odometer.test.callback" {
		t.Errorf("expected op to be preserved, got %q", p.Op)
	}
	if p.StackTrace == "" {
		t.Error("expected a captured stack trace")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindConfig, "config"},
		{KindArithmetic, "arithmetic"},
		{KindParse, "parse"},
		{KindCallback, "callback"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestSetHandlerNilRestoresDefault(t *testing.T) {
	SetHandler(&captureHandler{})
	SetHandler(nil)
	if _, ok := getHandler().(*LogHandler); !ok {
		t.Fatalf("expected default LogHandler, got %T", getHandler())
	}
}
