package model

// Station is identified by a 1-based index along the line. Platforms
// hold train ids (indices into the owning Topology's train arena)
// rather than pointers; track handles point at the station's outgoing
// segments, which hold no pointer back to a station (see Topology in
// topology.go).
type Station struct {
	ID       int
	Name     string
	Type     StationType
	Terminus bool

	// Platforms[d] holds the id of the train occupying the platform
	// for direction d, or 0 if free.
	Platforms [2]int

	// Tracks[d] holds the outgoing segment in direction d, or nil if
	// that direction has no segment (far terminus end).
	Tracks [2]*TrackSegment

	// Waiting holds passenger-demand groups currently at this
	// station, in arrival order.
	Waiting []*PassengerDemandGroup
}

// PlatformFree reports whether the platform for direction d is empty.
func (s *Station) PlatformFree(d Direction) bool {
	return s.Platforms[d] == 0
}

// Occupy assigns trainID to the platform for direction d.
func (s *Station) Occupy(d Direction, trainID int) {
	s.Platforms[d] = trainID
}

// Clear empties the platform for direction d.
func (s *Station) Clear(d Direction) {
	s.Platforms[d] = 0
}

// ShouldStop reports whether a train of the given service type stops
// at this station.
func (s *Station) ShouldStop(serviceType StationType) bool {
	return ShouldStop(s.Type, serviceType)
}

// EnqueueWaiting appends a demand group to the waiting list.
func (s *Station) EnqueueWaiting(g *PassengerDemandGroup) {
	s.Waiting = append(s.Waiting, g)
}

// RemoveWaiting removes g from the waiting list by identity.
func (s *Station) RemoveWaiting(g *PassengerDemandGroup) {
	for i, w := range s.Waiting {
		if w == g {
			s.Waiting = append(s.Waiting[:i], s.Waiting[i+1:]...)
			return
		}
	}
}
