package model

import "time"

// TrainSpec carries the kinematic and capacity parameters shared by
// every train in a run (§4.2 Topology Builder inputs).
type TrainSpec struct {
	Capacity         int
	CruiseSpeedMps   float64 // converted from the configured km/h
	PassthroughMps   float64
	AccelMps2        float64
	DecelMps2        float64
	DwellSeconds     int
	TurnaroundSecond int
	ZoneLengthM      float64 // platform zone traversed at passthrough speed, default 130m
}

// Train is identified by a 1-based integer id. CurrentStationID is 0
// while the train is traversing a segment.
type Train struct {
	ID          int
	Spec        *TrainSpec
	ServiceType StationType
	Direction   Direction

	CurrentStationID int
	IsActive         bool

	Boarded       []*PassengerDemandGroup
	Occupancy     int
	CurrentSpeed  float64

	ArrivalTime              time.Time
	LastDepartureTime        time.Time
	CurrentJourneyTravelTime float64 // accumulated traversal seconds since last departure
}

// RemainingCapacity returns how many more passengers may board.
func (t *Train) RemainingCapacity() int {
	if t.Spec == nil {
		return 0
	}
	rem := t.Spec.Capacity - t.Occupancy
	if rem < 0 {
		return 0
	}
	return rem
}

// BoardGroup appends g to the boarded list and updates occupancy.
func (t *Train) BoardGroup(g *PassengerDemandGroup) {
	t.Boarded = append(t.Boarded, g)
	t.Occupancy += g.PassengerCount
}

// AlightGroup removes g from the boarded list and updates occupancy.
func (t *Train) AlightGroup(g *PassengerDemandGroup) {
	for i, b := range t.Boarded {
		if b == g {
			t.Boarded = append(t.Boarded[:i], t.Boarded[i+1:]...)
			t.Occupancy -= g.PassengerCount
			return
		}
	}
}
