package model

import "time"

// TripType classifies whether a demand group is servable by a single
// train or requires a transfer at an AB station.
type TripType string

const (
	Direct   TripType = "DIRECT"
	Transfer TripType = "TRANSFER"
)

// DemandStatus is the state of a PassengerDemandGroup. Status is
// monotonic left to right: waiting_at_origin → in_transit_leg1 →
// [waiting_for_transfer → in_transit_leg2] → completed.
type DemandStatus string

const (
	WaitingAtOrigin   DemandStatus = "waiting_at_origin"
	InTransitLeg1     DemandStatus = "in_transit_leg1"
	WaitingForTransfer DemandStatus = "waiting_for_transfer"
	InTransitLeg2     DemandStatus = "in_transit_leg2"
	Completed        DemandStatus = "completed"
)

// PassengerDemandGroup is an atomically-boarded batch of passengers
// sharing an origin, destination and arrival time. Groups originate on
// a station's waiting list and move by reference to a train's boarded
// list, and back to a station's waiting list on a transfer alight.
type PassengerDemandGroup struct {
	ID             int
	OriginID       int
	DestinationID  int
	ArrivalTime    time.Time
	PassengerCount int

	TripType         TripType
	TransferStation  int // 0 unless TripType == Transfer
	Status           DemandStatus
	Direction        Direction // direction of the current leg

	BoardingTime          time.Time
	ArrivalAtTransferTime time.Time
	DepartureFromOrigin   time.Time
	DepartureFromTransfer time.Time
	CompletionTime        time.Time

	TrainID int // id of the train most recently boarded
}

// WaitSeconds returns total time spent waiting (origin wait plus, for
// transfer trips, the transfer wait), measured as of the most recent
// boarding.
func (g *PassengerDemandGroup) WaitSeconds() float64 {
	var wait time.Duration
	if !g.DepartureFromOrigin.IsZero() {
		wait += g.DepartureFromOrigin.Sub(g.ArrivalTime)
	}
	if g.TripType == Transfer && !g.DepartureFromTransfer.IsZero() && !g.ArrivalAtTransferTime.IsZero() {
		wait += g.DepartureFromTransfer.Sub(g.ArrivalAtTransferTime)
	}
	return wait.Seconds()
}

// TravelSeconds returns elapsed time between first boarding and
// completion.
func (g *PassengerDemandGroup) TravelSeconds() float64 {
	if g.CompletionTime.IsZero() || g.BoardingTime.IsZero() {
		return 0
	}
	return g.CompletionTime.Sub(g.BoardingTime).Seconds()
}

// NextRequiredStop returns the station id a waiting group's next leg
// must reach: the transfer station for a transfer trip still waiting at
// its origin, otherwise the destination.
func (g *PassengerDemandGroup) NextRequiredStop() int {
	if g.TripType == Transfer && g.Status == WaitingAtOrigin {
		return g.TransferStation
	}
	return g.DestinationID
}
