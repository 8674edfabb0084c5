package engine

import (
	"time"

	"github.com/khen08/mrt3sim/model"
)

const (
	minInitialDelayMinutes = 2.0
	spreadFactorSmall      = 1.2
	spreadFactorLarge      = 1.5
	smallBatchThreshold    = 3
	everyNInsertionsBuffer = 3
)

// handlePeriodChange implements §4.5: sets the active headway and
// deploys or marks for withdrawal the trains needed to reach the new
// period's target fleet size.
func (e *Engine) handlePeriodChange(ev *model.PeriodChangeEvent) error {
	period := &e.periods[ev.PeriodIndex]
	e.activeHeadwayMin = period.HeadwayMinutes

	target := period.TrainCount(e.Scheme)
	current := len(e.activeTrainIDs())
	free := e.rosterFreeTrainIDs()

	e.Log.Info("service period change", "period", period.Name, "target", target, "current", current, "headway_min", e.activeHeadwayMin)

	if current < target {
		k := target - current
		if k > len(free) {
			k = len(free)
		}
		e.deployTrains(free[:k])
	} else if current > target {
		e.trainsToWithdraw += current - target
	}
	return nil
}

// deployTrains schedules train_insertion events for the given roster
// ids, spreading launches per §4.5's spread-factor rule.
func (e *Engine) deployTrains(ids []int) {
	if len(ids) == 0 {
		return
	}
	mult := e.headwayMultiplier()
	headwaySec := e.activeHeadwayMin * 60 * mult
	spread := spreadFactorSmall
	if len(ids) > smallBatchThreshold {
		spread = spreadFactorLarge
	}

	cursor := e.Now.Add(time.Duration(maxOf(minInitialDelayMinutes, 0.5*e.activeHeadwayMin)*60) * time.Second)
	depot := e.Topo.Segment(2, 1)
	if depot == nil {
		e.Log.Error("depot segment (2,1) missing from topology")
		return
	}
	for i, id := range ids {
		train := e.Topo.Train(id)
		train.IsActive = true
		e.queue.Schedule(model.NewInsertion(cursor, id, depot.FromID, depot.ToID))
		cursor = cursor.Add(time.Duration(headwaySec*spread) * time.Second)
		if (i+1)%everyNInsertionsBuffer == 0 {
			cursor = cursor.Add(time.Duration(0.5*e.activeHeadwayMin*60) * time.Second)
		}
		mult = e.headwayMultiplier()
		headwaySec = e.activeHeadwayMin * 60 * mult
	}
}

func maxOf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// handleInsertion implements §4.4/§4.3's train_insertion transition:
// gated by the depot segment (station 2 -> station 1, northbound).
func (e *Engine) handleInsertion(ev *model.InsertionEvent) error {
	train := e.Topo.Train(ev.TrainID)
	if train == nil {
		return &model.InvariantViolation{Where: "train_insertion", Msg: "unknown train"}
	}
	segment := e.Topo.Segment(ev.FromID, ev.ToID)
	if segment == nil {
		return &model.InvariantViolation{Where: "train_insertion", Msg: "unknown depot segment"}
	}
	stationOne := e.Topo.Station(1)

	if concurrent := e.findSegmentEnterAt(segment.FromID, segment.ToID, e.Now); concurrent {
		next := e.Now.Add(time.Duration(e.activeHeadwayMin*60) * time.Second)
		if next.Equal(e.Now) {
			return &model.ArbitrationLoop{EventKind: "train_insertion", TrainID: train.ID, Time: e.Now.String()}
		}
		e.queue.Schedule(model.NewInsertion(next, train.ID, ev.FromID, ev.ToID))
		return nil
	}

	blocked := stationOne.Platforms[model.Northbound] != 0 || !segment.Available()
	if blocked {
		next := e.insertionConflictTime(segment, stationOne)
		if next.Equal(e.Now) {
			return &model.ArbitrationLoop{EventKind: "train_insertion", TrainID: train.ID, Time: e.Now.String()}
		}
		e.queue.Schedule(model.NewInsertion(next, train.ID, ev.FromID, ev.ToID))
		return nil
	}

	train.Direction = model.Northbound
	segment.Enter(train.ID, e.Now)
	train.CurrentStationID = 0
	exitAt := e.Now.Add(60 * time.Second)
	train.ArrivalTime = exitAt
	train.CurrentJourneyTravelTime = 60
	e.queue.Schedule(model.NewSegmentExit(exitAt, train.ID, segment.FromID, segment.ToID, 1))
	return nil
}

// findSegmentEnterAt reports whether another pending segment_enter
// targets the same segment at exactly t.
func (e *Engine) findSegmentEnterAt(fromID, toID int, t time.Time) bool {
	for _, ev := range e.queue.Snapshot() {
		if se, ok := ev.(*model.SegmentEnterEvent); ok && se.FromID == fromID && se.ToID == toID && se.When().Equal(t) {
			return true
		}
	}
	return false
}

// withdrawTrain implements §4.5's withdrawal-at-station-1 behaviour:
// the train is deactivated and emits a final, terminal TimetableEntry
// rather than turning around.
func (e *Engine) withdrawTrain(train *model.Train, station *model.Station) error {
	result := e.passengerExchange(train, station)
	train.IsActive = false
	e.trainsToWithdraw--

	departure := train.ArrivalTime.Add(time.Duration(train.Spec.DwellSeconds) * time.Second)
	e.recordEntry(model.TimetableEntry{
		TrainID:           train.ID,
		ServiceType:       train.ServiceType,
		StationID:         station.ID,
		Direction:         train.Direction,
		ArrivalTime:       train.ArrivalTime,
		DepartureTime:     departure,
		TravelTimeSeconds: train.CurrentJourneyTravelTime,
		Boarded:           result.Boarded,
		Alighted:          result.Alighted,
		StationWaitCount:  waitingCountAsOf(station, departure),
		TrainOccupancy:    train.Occupancy,
		TrainStatus:       model.StatusInactive,
	})
	station.Clear(train.Direction)
	e.Log.Info("train withdrawn", "train_id", train.ID, "station_id", station.ID)
	return nil
}
