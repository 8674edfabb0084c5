package model

import "fmt"

// ConfigError reports a malformed simulation configuration. Fails the
// run before any event is scheduled.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Msg)
}

// DemandError reports an unparseable or inconsistent demand input.
// Rows carrying an invalid station id are skipped with a warning; an
// empty demand table is a warning, not a fatal error.
type DemandError struct {
	Row int
	Msg string
}

func (e *DemandError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("demand error: row %d: %s", e.Row, e.Msg)
	}
	return fmt.Sprintf("demand error: %s", e.Msg)
}

// TopologyError reports a missing segment discovered during loop-time
// calculation. Fatal for the affected scheme.
type TopologyError struct {
	Scheme string
	Msg    string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("topology error [%s]: %s", e.Scheme, e.Msg)
}

// ArbitrationLoop reports a reschedule that computed an identical
// timestamp to the event being rescheduled. The offending event is
// dropped and the run continues.
type ArbitrationLoop struct {
	EventKind string
	TrainID   int
	Time      string
}

func (e *ArbitrationLoop) Error() string {
	return fmt.Sprintf("arbitration loop: %s for train %d stalled at %s", e.EventKind, e.TrainID, e.Time)
}

// InvariantViolation reports an event referencing a train, platform or
// segment in an inconsistent state. Fatal for the run.
type InvariantViolation struct {
	Where string
	Msg   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Where, e.Msg)
}
