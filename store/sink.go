// Package store provides the persistence collaborator the engine is
// built against: an injected interface rather than a process-wide
// database client opened as an import side effect (§9 Design Notes).
package store

import "github.com/khen08/mrt3sim/model"

// DemandTotals is the per-scheme aggregate the engine hands to a Sink
// after a run completes.
type DemandTotals struct {
	Scheme            model.Scheme
	TotalBoarded      int
	TotalWaitSeconds  float64
	TotalTravelSeconds float64
}

// Sink is the collaborator the core simulation persists results
// through. Implementations may be in-memory (tests, CLI dry runs) or
// durable (the sqlite-backed production sink).
type Sink interface {
	PersistTimetable(scheme model.Scheme, entries []model.TimetableEntry) error
	PersistDemandResults(scheme model.Scheme, groups []*model.PassengerDemandGroup) error
	PersistMetrics(scheme model.Scheme, totals DemandTotals) error
}
