package engine

import (
	"github.com/khen08/mrt3sim/model"
)

// assignTransferStation classifies g as DIRECT or TRANSFER and, for a
// transfer trip, chooses the AB station minimising
// |origin-candidate|+|candidate-destination|, ties broken toward the
// smaller |origin-candidate| (§4.6 Transfer selection).
func (e *Engine) assignTransferStation(g *model.PassengerDemandGroup) error {
	origin := e.Topo.Station(g.OriginID)
	dest := e.Topo.Station(g.DestinationID)
	if origin == nil || dest == nil {
		return &model.DemandError{Msg: "demand group references an unknown station"}
	}
	if directlyReachable(origin.Type, dest.Type) {
		g.TripType = model.Direct
		g.Status = model.WaitingAtOrigin
		g.Direction = directionBetween(g.OriginID, g.DestinationID)
		return nil
	}

	g.TripType = model.Transfer
	best := -1
	bestMetric := -1
	bestOriginDist := -1
	for id := 1; id <= e.Topo.NumStations(); id++ {
		st := e.Topo.Station(id)
		if st == nil || st.Type != model.TypeAB {
			continue
		}
		metric := abs(g.OriginID-id) + abs(id-g.DestinationID)
		originDist := abs(g.OriginID - id)
		if best == -1 || metric < bestMetric || (metric == bestMetric && originDist < bestOriginDist) {
			best = id
			bestMetric = metric
			bestOriginDist = originDist
		}
	}
	if best == -1 {
		return &model.DemandError{Msg: "no AB transfer station available on this line"}
	}
	g.TransferStation = best
	g.Status = model.WaitingAtOrigin
	g.Direction = directionBetween(g.OriginID, best)
	return nil
}

func directlyReachable(a, b model.StationType) bool {
	return a == model.TypeAB || b == model.TypeAB || a == b
}

func directionBetween(from, to int) model.Direction {
	if to < from {
		return model.Northbound
	}
	return model.Southbound
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ExchangeResult reports how many passengers alighted and boarded at a
// stop, for timetable recording.
type ExchangeResult struct {
	Alighted int
	Boarded  int
}

// passengerExchange runs the alight-then-board phases for train at
// station (§4.6). Departures and turnarounds call it only when the
// station is a stop for this train; a withdrawal at station 1 always
// calls it.
func (e *Engine) passengerExchange(train *model.Train, station *model.Station) ExchangeResult {
	var res ExchangeResult

	var keep []*model.PassengerDemandGroup
	for _, g := range train.Boarded {
		switch {
		case g.TripType == model.Direct && g.DestinationID == station.ID:
			g.Status = model.Completed
			g.CompletionTime = e.Now
			res.Alighted += g.PassengerCount
		case g.TripType == model.Transfer && g.Status == model.InTransitLeg1 && g.TransferStation == station.ID:
			g.Status = model.WaitingForTransfer
			g.ArrivalAtTransferTime = e.Now
			g.Direction = directionBetween(station.ID, g.DestinationID)
			station.EnqueueWaiting(g)
			res.Alighted += g.PassengerCount
		case g.TripType == model.Transfer && g.Status == model.InTransitLeg2 && g.DestinationID == station.ID:
			g.Status = model.Completed
			g.CompletionTime = e.Now
			res.Alighted += g.PassengerCount
		default:
			keep = append(keep, g)
			continue
		}
		train.Occupancy -= g.PassengerCount
	}
	train.Boarded = keep

	var remaining []*model.PassengerDemandGroup
	for _, g := range station.Waiting {
		if !e.boardCompatible(train, station, g) {
			remaining = append(remaining, g)
			continue
		}
		if g.PassengerCount > train.RemainingCapacity() {
			remaining = append(remaining, g)
			continue
		}
		if g.Status == model.WaitingAtOrigin {
			g.BoardingTime = e.Now
			g.DepartureFromOrigin = e.Now
			g.Status = model.InTransitLeg1
		} else {
			g.DepartureFromTransfer = e.Now
			g.Status = model.InTransitLeg2
		}
		g.TrainID = train.ID
		train.BoardGroup(g)
		res.Boarded += g.PassengerCount
	}
	station.Waiting = remaining

	return res
}

// boardCompatible implements §4.6's four boarding compatibility rules.
func (e *Engine) boardCompatible(train *model.Train, station *model.Station, g *model.PassengerDemandGroup) bool {
	if !station.ShouldStop(train.ServiceType) {
		return false
	}
	if g.Direction != train.Direction {
		return false
	}
	switch g.Status {
	case model.WaitingAtOrigin:
		if g.ArrivalTime.After(e.Now) {
			return false
		}
	case model.WaitingForTransfer:
		if g.ArrivalAtTransferTime.After(e.Now) {
			return false
		}
	default:
		return false
	}
	nextStop := e.Topo.Station(g.NextRequiredStop())
	if nextStop == nil {
		return false
	}
	return directlyReachable(nextStop.Type, train.ServiceType)
}
