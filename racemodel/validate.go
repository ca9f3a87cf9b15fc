package racemodel

import "fmt"

// InvariantError reports a violated model invariant (spec §3). It follows
// the teacher's ValidationError shape (sims/validation.go): a field name,
// the offending value, and a message, so the caller's counter and log line
// can stay generic across invariant kinds.
type InvariantError struct {
	Field   string
	Value   any
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("race model invariant violated for '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// validate checks every invariant in spec §3 against a staged snapshot
// before it is allowed to commit. A violation drops the whole apply (the
// staging copy is discarded, never partially published) and is surfaced to
// the caller to count; it is never a panic.
func validate(snap *Snapshot) error {
	for i := uint8(0); i < snap.NumDrivers; i++ {
		d := &snap.Drivers[i]

		completed := uint8(len(d.History))
		if d.CurrentLap.LapNumber > 0 && completed > d.CurrentLap.LapNumber-1 {
			return &InvariantError{
				Field:   fmt.Sprintf("drivers[%d].history", i),
				Value:   completed,
				Message: "completed-lap count exceeds current lap number minus one",
			}
		}

		for _, stint := range d.Stints {
			if stint.StartLap > stint.EndLap && !stint.Open {
				return &InvariantError{
					Field:   fmt.Sprintf("drivers[%d].stints", i),
					Value:   stint,
					Message: "stint start lap is after its end lap",
				}
			}
		}

		if d.Status.FuelInTank < 0 {
			return &InvariantError{
				Field:   fmt.Sprintf("drivers[%d].status.fuel", i),
				Value:   d.Status.FuelInTank,
				Message: "fuel in tank cannot be negative",
			}
		}

		for corner, wear := range d.Damage.TyresWear {
			if wear < 0 || wear > 100 {
				return &InvariantError{
					Field:   fmt.Sprintf("drivers[%d].damage.tyreswear[%d]", i, corner),
					Value:   wear,
					Message: "tyre wear out of [0, 100] range",
				}
			}
		}
	}
	return nil
}
