package odometer

// PlanKind selects between the two ways a display change is applied.
type PlanKind int

const (
	// PlanPatch updates changed positions in place, preserving slot
	// identity and any in-flight transitions.
	PlanPatch PlanKind = iota
	// PlanRebuild discards all slots and builds a fresh row at rest.
	PlanRebuild
)

// String returns a human-readable representation of the plan kind.
func (k PlanKind) String() string {
	switch k {
	case PlanPatch:
		return "patch"
	case PlanRebuild:
		return "rebuild"
	default:
		return "unknown"
	}
}

// SlotCommand assigns a new character to the slot at Index.
type SlotCommand struct {
	Index int
	Char  rune
}

// Plan is the output of Diff: either a sparse set of per-slot commands or
// the full character sequence for a rebuild.
type Plan struct {
	Kind PlanKind

	// Commands holds the changed positions in ascending index order.
	// Populated for PlanPatch only.
	Commands []SlotCommand

	// Runes holds the complete new display. Populated for PlanRebuild only.
	Runes []rune
}

// Diff compares the previous display against the next and decides how to
// apply the change.
//
// Equal lengths patch in place: each slot keeps its identity, so an in-flight
// roll composes with the incoming character instead of snapping. A length
// change has no stable per-position mapping ("9" to "10" shifts every
// column), so identity is discarded and the row restarts at rest. A nil prev
// means no display exists yet and always rebuilds; an empty non-nil prev is a
// real zero-length display.
func Diff(prev, next []rune) Plan {
	if prev == nil || len(prev) != len(next) {
		return Plan{Kind: PlanRebuild, Runes: next}
	}

	var commands []SlotCommand
	for i, r := range next {
		if prev[i] != r {
			commands = append(commands, SlotCommand{Index: i, Char: r})
		}
	}
	return Plan{Kind: PlanPatch, Commands: commands}
}
