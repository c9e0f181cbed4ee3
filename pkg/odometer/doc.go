// Package odometer is the rolling-digit display engine: it keeps a row of
// independently animated character slots in step with an exactly held
// decimal value.
//
// # Pipeline
//
// A value change flows through four stages:
//
//	Controller  ->  numfmt.Format  ->  Diff  ->  per-slot SetChar / rebuild
//
// The [Controller] mutates its value through exact decimal arithmetic and
// publishes synchronously. The formatter renders the sign-stripped character
// sequence. [Diff] compares it against the current display: equal lengths
// patch changed slots in place so in-flight rolls compose, a length change
// rebuilds the whole row at rest. Each numeric [Slot] then rolls to its new
// digit over the configured duration and curve.
//
// # Driving frames
//
// The engine schedules nothing itself. The host's frame loop advances the
// transitions by calling animation.StepTickers once per frame; tests do the
// same through a fake clock (see pkg/testing).
//
// # Quick start
//
//	ctrl, err := odometer.NewController(99.99)
//	if err != nil {
//	    return err
//	}
//	defer ctrl.Dispose()
//
//	opts := numfmt.DefaultOptions()
//	opts.FractionDigits = 2
//
//	engine, err := odometer.NewEngine(odometer.Config{
//	    Format:     opts,
//	    SlotHeight: 24,
//	    Duration:   300 * time.Millisecond,
//	})
//	if err != nil {
//	    return err
//	}
//	defer engine.Dispose()
//
//	detach := engine.Attach(ctrl)
//	defer detach()
//
//	ctrl.Add(0.01) // "99.99" becomes "100.00"
//
// Here "99.99" is five slots and "100.00" is six, so the add above rebuilds
// the row at rest; a same-length change such as 41.50 -> 42.50 rolls only
// the changed column.
package odometer
