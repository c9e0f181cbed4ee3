// Package errors provides structured error reporting for the odometer engine.
//
// Raised failures (config validation, division by zero, non-finite input)
// travel as ordinary returned errors. This package covers the other paths:
// conditions the engine survives by degrading, such as a slot character that
// stops parsing as a digit or a host callback that panics mid-frame, are
// reported through a process-wide handler instead of breaking the frame.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies the category of a reported error.
type Kind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConfig indicates a configuration problem observed after construction.
	KindConfig
	// KindArithmetic indicates a value-arithmetic failure.
	KindArithmetic
	// KindParse indicates a slot character that failed the numeric check.
	KindParse
	// KindCallback indicates a failure inside a host-supplied callback.
	KindCallback
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindArithmetic:
		return "arithmetic"
	case KindParse:
		return "parse"
	case KindCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// EngineError is a categorized error reported by the engine.
type EngineError struct {
	// Op is the operation that failed (e.g., "odometer.Slot.SetChar").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// PanicError represents a panic recovered from a host callback.
type PanicError struct {
	// Op is the operation that panicked (e.g., "odometer.Controller.notify").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Handler receives errors reported by the engine.
type Handler interface {
	// HandleError is called when a degraded-path error occurs.
	HandleError(err *EngineError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
