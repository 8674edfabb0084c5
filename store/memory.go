package store

import "github.com/khen08/mrt3sim/model"

// MemorySink accumulates results in memory. It is the default sink for
// the batch driver and for tests: plain in-process slices, no durable
// backing store.
type MemorySink struct {
	Timetables map[model.Scheme][]model.TimetableEntry
	Demand     map[model.Scheme][]*model.PassengerDemandGroup
	Metrics    map[model.Scheme]DemandTotals
}

func NewMemorySink() *MemorySink {
	return &MemorySink{
		Timetables: make(map[model.Scheme][]model.TimetableEntry),
		Demand:     make(map[model.Scheme][]*model.PassengerDemandGroup),
		Metrics:    make(map[model.Scheme]DemandTotals),
	}
}

func (s *MemorySink) PersistTimetable(scheme model.Scheme, entries []model.TimetableEntry) error {
	s.Timetables[scheme] = append(s.Timetables[scheme], entries...)
	return nil
}

func (s *MemorySink) PersistDemandResults(scheme model.Scheme, groups []*model.PassengerDemandGroup) error {
	s.Demand[scheme] = append(s.Demand[scheme], groups...)
	return nil
}

func (s *MemorySink) PersistMetrics(scheme model.Scheme, totals DemandTotals) error {
	s.Metrics[scheme] = totals
	return nil
}
