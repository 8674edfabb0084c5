package model

// Topology is the flat, cycle-free arena of stations, segments and
// trains for one scheme's run. Stations and trains are indexed
// directly by id (index 0 unused, ids are 1-based); segments are kept
// in a slice plus a lookup map since they are addressed both by
// (from,to) key and by iteration.
type Topology struct {
	Scheme   Scheme
	Stations []*Station // Stations[id]
	Segments []*TrackSegment
	segIndex map[SegmentKey]*TrackSegment
	Trains   []*Train // Trains[id]
}

// NewTopology allocates empty arenas sized for nStations stations and
// nTrains trains (both 1-based, so capacity nStations+1 / nTrains+1).
func NewTopology(scheme Scheme, nStations, nTrains int) *Topology {
	return &Topology{
		Scheme:   scheme,
		Stations: make([]*Station, nStations+1),
		Segments: make([]*TrackSegment, 0, 2*nStations),
		segIndex: make(map[SegmentKey]*TrackSegment, 2*nStations),
		Trains:   make([]*Train, nTrains+1),
	}
}

// Station returns the station with the given id, or nil if out of range.
func (t *Topology) Station(id int) *Station {
	if id <= 0 || id >= len(t.Stations) {
		return nil
	}
	return t.Stations[id]
}

// Train returns the train with the given id, or nil if out of range.
func (t *Topology) Train(id int) *Train {
	if id <= 0 || id >= len(t.Trains) {
		return nil
	}
	return t.Trains[id]
}

// AddSegment registers a new segment and indexes it by its key.
func (t *Topology) AddSegment(s *TrackSegment) {
	t.Segments = append(t.Segments, s)
	t.segIndex[s.Key()] = s
}

// Segment looks up the segment from fromID to toID, or nil.
func (t *Topology) Segment(fromID, toID int) *TrackSegment {
	return t.segIndex[SegmentKey{FromID: fromID, ToID: toID}]
}

// NumStations returns the number of real stations (arena length minus
// the unused index 0 slot).
func (t *Topology) NumStations() int {
	return len(t.Stations) - 1
}
