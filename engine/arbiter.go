package engine

import (
	"time"

	"github.com/khen08/mrt3sim/model"
)

const (
	baseDepartureBufferSeconds = 5
	baseInsertionBufferSeconds = 5
	simultaneousBumpSeconds    = 3
	segmentConflictBufferSec   = 10
)

// congestionFactor summarises system pressure as the fraction of
// active trains currently occupying a segment (§4.3).
func (e *Engine) congestionFactor() float64 {
	active := len(e.activeTrainIDs())
	if active == 0 {
		active = 1
	}
	inSegment := 0
	for _, seg := range e.Topo.Segments {
		if seg.OccupantID != 0 {
			inSegment++
		}
	}
	return float64(inSegment) / float64(active)
}

// upcomingNorthboundArrivalsAtStationOne counts pending ArrivalEvent
// entries at station 1 for trains currently running northbound.
func (e *Engine) upcomingNorthboundArrivalsAtStationOne() int {
	count := 0
	for _, ev := range e.queue.Snapshot() {
		a, ok := ev.(*model.ArrivalEvent)
		if !ok || a.StationID != 1 {
			continue
		}
		if t := e.Topo.Train(a.TrainID); t != nil && t.Direction == model.Northbound {
			count++
		}
	}
	return count
}

// headwayMultiplier escalates in the bands specified by §4.3, capped at 1.5.
func (e *Engine) headwayMultiplier() float64 {
	c := e.congestionFactor()
	m := 1.0
	switch {
	case c > 0.7:
		m = 1.3
	case c > 0.5:
		m = 1.2
	case c > 0.3:
		m = 1.1
	}
	if e.upcomingNorthboundArrivalsAtStationOne() > 2 {
		m += 0.2
	}
	if m > 1.5 {
		m = 1.5
	}
	return m
}

// bufferFactor scales the departure/insertion buffer by the same
// congestion bands as headwayMultiplier, independently of the +0.2
// northbound-arrivals term.
func (e *Engine) bufferFactor() float64 {
	c := e.congestionFactor()
	switch {
	case c > 0.7:
		return 2.0
	case c > 0.5 || c > 0.3:
		return 1.5
	default:
		return 1.0
	}
}

// findSegmentExit returns the pending segment_exit event for the given
// segment, if one exists.
func (e *Engine) findSegmentExit(fromID, toID int) *model.SegmentExitEvent {
	for _, ev := range e.queue.Snapshot() {
		if se, ok := ev.(*model.SegmentExitEvent); ok && se.FromID == fromID && se.ToID == toID {
			return se
		}
	}
	return nil
}

// findDeparture returns the pending train_departure event for trainID, if any.
func (e *Engine) findDeparture(trainID int) *model.DepartureEvent {
	for _, ev := range e.queue.Snapshot() {
		if d, ok := ev.(*model.DepartureEvent); ok && d.TrainID == trainID {
			return d
		}
	}
	return nil
}

// departureConflictTime computes the adaptive reschedule time for a
// train_departure blocked by §4.3's invariant 1, or the zero time if
// neither resource is held.
func (e *Engine) departureConflictTime(train *model.Train, station *model.Station, segment *model.TrackSegment, nextStation *model.Station) time.Time {
	var candidates []time.Time
	buf := time.Duration(float64(baseDepartureBufferSeconds) * e.bufferFactor() * float64(time.Second))

	if !segment.Available() {
		if exit := e.findSegmentExit(segment.FromID, segment.ToID); exit != nil {
			candidates = append(candidates, exit.When().Add(buf))
		} else {
			delay := time.Duration(e.activeHeadwayMin*60*0.5) * time.Second
			candidates = append(candidates, e.Now.Add(delay))
		}
	}
	if occupant := nextStation.Platforms[segment.Direction]; occupant != 0 {
		if dep := e.findDeparture(occupant); dep != nil {
			candidates = append(candidates, dep.When().Add(buf))
		} else {
			delay := time.Duration(e.activeHeadwayMin*60) * time.Second
			candidates = append(candidates, e.Now.Add(delay))
		}
	}
	if len(candidates) == 0 {
		return time.Time{}
	}
	latest := candidates[0]
	for _, c := range candidates[1:] {
		if c.After(latest) {
			latest = c
		}
	}

	// Bump past any simultaneous train_departure at the same station
	// by a different train.
	for {
		conflict := false
		for _, ev := range e.queue.Snapshot() {
			d, ok := ev.(*model.DepartureEvent)
			if !ok || d.TrainID == train.ID || d.StationID != station.ID {
				continue
			}
			if d.When().Equal(latest) {
				latest = latest.Add(simultaneousBumpSeconds * time.Second)
				conflict = true
			}
		}
		if !conflict {
			break
		}
	}

	// The dwell cap only shortens the wait while it still lies ahead;
	// once it has passed, the train waits for the resources to clear.
	cap := train.ArrivalTime.Add(time.Duration(3*train.Spec.DwellSeconds) * time.Second)
	if latest.After(cap) && cap.After(e.Now) {
		latest = cap
	}
	return latest
}

// insertionConflictTime computes the adaptive reschedule time for a
// train_insertion blocked by §4.3's invariant 2.
func (e *Engine) insertionConflictTime(segment *model.TrackSegment, stationOne *model.Station) time.Time {
	mult := e.headwayMultiplier()
	headwayDur := time.Duration(e.activeHeadwayMin*60*mult) * time.Second

	if occupant := stationOne.Platforms[model.Northbound]; occupant != 0 {
		buf := time.Duration(float64(baseInsertionBufferSeconds)*e.bufferFactor()) * time.Second
		if dep := e.findDeparture(occupant); dep != nil {
			return dep.When().Add(buf)
		}
		return e.Now.Add(headwayDur)
	}
	if !segment.Available() {
		buf := time.Duration(float64(baseInsertionBufferSeconds)*e.bufferFactor()) * time.Second
		if exit := e.findSegmentExit(segment.FromID, segment.ToID); exit != nil {
			return exit.When().Add(buf)
		}
		return e.Now.Add(headwayDur)
	}
	return e.Now.Add(headwayDur)
}
