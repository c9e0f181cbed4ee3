// Package testing provides deterministic test support for the odometer
// engine.
//
// # Quick Start
//
// Create a pump, mutate engine state, and advance frames manually:
//
//	func TestRoll(t *testing.T) {
//	    pump := odotest.NewPump(t)
//
//	    engine := odometer.NewEngine(cfg)
//	    engine.Update(decimal.MustParse("7"))
//
//	    pump.Frame()                       // one 16ms frame
//	    if err := pump.Settle(time.Second); err != nil {
//	        t.Fatal(err)
//	    }
//	    // Assert on engine.Slots() offsets here.
//	}
//
// The pump installs a [FakeClock] as the animation clock for the duration of
// the test and restores the previous clock via t.Cleanup, so transitions
// advance only when the test says so.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import odotest "github.com/go-drift/odometer/pkg/testing"
package testing
