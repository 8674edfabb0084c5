package engine

import (
	"time"

	"github.com/khen08/mrt3sim/model"
)

// handleArrival implements §4.4's train_arrival transition.
func (e *Engine) handleArrival(ev *model.ArrivalEvent) error {
	train := e.Topo.Train(ev.TrainID)
	if train == nil || !train.IsActive {
		return nil
	}
	station := e.Topo.Station(ev.StationID)
	if station == nil {
		return &model.InvariantViolation{Where: "train_arrival", Msg: "unknown station"}
	}
	train.CurrentStationID = station.ID
	station.Occupy(train.Direction, train.ID)
	train.ArrivalTime = e.Now

	// withdrawal gate: a northbound arrival at station 1 consumes one
	// pending withdrawal before any other handling (§4.5).
	if station.ID == 1 && train.Direction == model.Northbound && e.trainsToWithdraw > 0 {
		return e.withdrawTrain(train, station)
	}

	if station.ID == 1 || station.ID == e.Topo.NumStations() {
		e.Log.Debug("scheduling turnaround", "train_id", train.ID, "station_id", station.ID)
		e.queue.Schedule(model.NewTurnaround(e.Now.Add(time.Duration(train.Spec.DwellSeconds)*time.Second), train.ID, station.ID))
		return nil
	}

	if !station.ShouldStop(train.ServiceType) {
		e.queue.Schedule(model.NewDeparture(e.Now, train.ID, station.ID))
		return nil
	}
	e.queue.Schedule(model.NewDeparture(e.Now.Add(time.Duration(train.Spec.DwellSeconds)*time.Second), train.ID, station.ID))
	return nil
}

// handleDeparture implements §4.4's train_departure transition,
// consulting the resource arbiter for contention (§4.3).
func (e *Engine) handleDeparture(ev *model.DepartureEvent) error {
	train := e.Topo.Train(ev.TrainID)
	if train == nil || !train.IsActive {
		return nil
	}
	station := e.Topo.Station(ev.StationID)
	if station == nil {
		return &model.InvariantViolation{Where: "train_departure", Msg: "unknown station"}
	}
	segment := station.Tracks[train.Direction]
	if segment == nil {
		return &model.InvariantViolation{Where: "train_departure", Msg: "no outgoing segment in train direction"}
	}
	nextStation := e.Topo.Station(segment.ToID)
	if nextStation == nil {
		return &model.InvariantViolation{Where: "train_departure", Msg: "segment has no destination station"}
	}

	blocked := !segment.Available() || nextStation.Platforms[train.Direction] != 0
	if blocked {
		next := e.departureConflictTime(train, station, segment, nextStation)
		if next.Equal(e.Now) {
			return &model.ArbitrationLoop{EventKind: "train_departure", TrainID: train.ID, Time: e.Now.String()}
		}
		e.queue.Schedule(model.NewDeparture(next, train.ID, station.ID))
		return nil
	}

	var result ExchangeResult
	if station.ShouldStop(train.ServiceType) {
		result = e.passengerExchange(train, station)
	}

	e.recordEntry(model.TimetableEntry{
		TrainID:           train.ID,
		ServiceType:       train.ServiceType,
		StationID:         station.ID,
		Direction:         train.Direction,
		ArrivalTime:       train.ArrivalTime,
		DepartureTime:     e.Now,
		TravelTimeSeconds: train.CurrentJourneyTravelTime,
		Boarded:           result.Boarded,
		Alighted:          result.Alighted,
		StationWaitCount:  waitingCountAsOf(station, e.Now),
		TrainOccupancy:    train.Occupancy,
		TrainStatus:       model.StatusActive,
	})

	station.Clear(train.Direction)
	train.LastDepartureTime = e.Now
	train.CurrentJourneyTravelTime = 0
	e.queue.Schedule(model.NewSegmentEnter(e.Now, train.ID, segment.FromID, segment.ToID, nextStation.ID))
	return nil
}

// handleSegmentEnter implements §4.4's segment_enter transition.
func (e *Engine) handleSegmentEnter(ev *model.SegmentEnterEvent) error {
	train := e.Topo.Train(ev.TrainID)
	if train == nil || !train.IsActive {
		return nil
	}
	segment := e.Topo.Segment(ev.FromID, ev.ToID)
	if segment == nil {
		return &model.InvariantViolation{Where: "segment_enter", Msg: "unknown segment"}
	}
	if !segment.Enter(train.ID, e.Now) {
		var next time.Time
		if exit := e.findSegmentExit(segment.FromID, segment.ToID); exit != nil {
			next = exit.When().Add(segmentConflictBufferSec * time.Second)
		} else {
			next = e.Now.Add(time.Duration(e.activeHeadwayMin*60*e.headwayMultiplier()) * time.Second)
		}
		if next.Equal(e.Now) {
			return &model.ArbitrationLoop{EventKind: "segment_enter", TrainID: train.ID, Time: e.Now.String()}
		}
		e.queue.Schedule(model.NewSegmentEnter(next, train.ID, ev.FromID, ev.ToID, ev.NextStation))
		return nil
	}
	train.CurrentStationID = 0

	nextStation := e.Topo.Station(ev.NextStation)
	stops := nextStation.ShouldStop(train.ServiceType)
	var tr TraversalResult
	if stops {
		tr = StopTraversal(train.CurrentSpeed, train.Spec.CruiseSpeedMps, train.Spec.AccelMps2, train.Spec.DecelMps2, segment.DistanceM)
	} else {
		tr = PassthroughTraversal(train.CurrentSpeed, train.Spec.CruiseSpeedMps, train.Spec.PassthroughMps, train.Spec.AccelMps2, train.Spec.DecelMps2, segment.DistanceM, train.Spec.ZoneLengthM)
	}
	train.CurrentSpeed = tr.ExitSpeed
	train.CurrentJourneyTravelTime += float64(tr.Seconds)
	segment.NextAvailable = e.Now.Add(time.Duration(tr.Seconds) * time.Second)
	e.queue.Schedule(model.NewSegmentExit(e.Now.Add(time.Duration(tr.Seconds)*time.Second), train.ID, ev.FromID, ev.ToID, ev.NextStation))
	return nil
}

// handleSegmentExit implements §4.4's segment_exit transition.
func (e *Engine) handleSegmentExit(ev *model.SegmentExitEvent) error {
	train := e.Topo.Train(ev.TrainID)
	if train == nil || !train.IsActive {
		return nil
	}
	segment := e.Topo.Segment(ev.FromID, ev.ToID)
	if segment == nil {
		return &model.InvariantViolation{Where: "segment_exit", Msg: "unknown segment"}
	}
	if err := segment.Exit(train.ID, e.Now); err != nil {
		return err
	}
	e.queue.Schedule(model.NewArrival(e.Now, train.ID, ev.StationID))
	return nil
}

// handleTurnaround implements §4.4's turnaround transition.
func (e *Engine) handleTurnaround(ev *model.TurnaroundEvent) error {
	train := e.Topo.Train(ev.TrainID)
	if train == nil || !train.IsActive {
		return nil
	}
	station := e.Topo.Station(ev.StationID)
	if station == nil {
		return &model.InvariantViolation{Where: "turnaround", Msg: "unknown station"}
	}

	var result ExchangeResult
	if station.ShouldStop(train.ServiceType) {
		result = e.passengerExchange(train, station)
	}
	e.recordEntry(model.TimetableEntry{
		TrainID:           train.ID,
		ServiceType:       train.ServiceType,
		StationID:         station.ID,
		Direction:         train.Direction,
		ArrivalTime:       train.ArrivalTime,
		DepartureTime:     e.Now,
		TravelTimeSeconds: train.CurrentJourneyTravelTime,
		Boarded:           result.Boarded,
		Alighted:          result.Alighted,
		StationWaitCount:  waitingCountAsOf(station, e.Now),
		TrainOccupancy:    train.Occupancy,
		TrainStatus:       model.StatusActive,
	})

	station.Clear(train.Direction)
	train.Direction = train.Direction.Opposite()
	train.CurrentSpeed = 0

	if e.Now.After(e.EndTime) {
		return nil
	}
	newArrival := e.Now.Add(time.Duration(train.Spec.TurnaroundSecond) * time.Second)
	train.ArrivalTime = newArrival
	train.CurrentJourneyTravelTime = float64(train.Spec.TurnaroundSecond)
	departure := newArrival.Add(time.Duration(train.Spec.DwellSeconds) * time.Second)
	e.queue.Schedule(model.NewDeparture(departure, train.ID, station.ID))
	return nil
}

// waitingCountAsOf returns the number of passengers waiting at station
// whose arrival time (origin or transfer) is no later than at.
func waitingCountAsOf(station *model.Station, at time.Time) int {
	total := 0
	for _, g := range station.Waiting {
		ready := g.ArrivalTime
		if g.Status == model.WaitingForTransfer {
			ready = g.ArrivalAtTransferTime
		}
		if !ready.After(at) {
			total += g.PassengerCount
		}
	}
	return total
}
