// Package engine implements the discrete-event simulation core:
// scheduler, topology builder, resource arbiter, service controller,
// train state machine and passenger exchange.
package engine

import (
	"fmt"
	"time"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/khen08/mrt3sim/model"
)

// simEndHour is the fixed simulation horizon: 22:00 on the demand date
// (§5 Cancellation/timeout).
const simEndHour = 22

// simStartHour is when the demand date's service day begins (§6).
const simStartHour = 5

// periodLeadMinutes is how far ahead of a period's nominal start hour
// its service_period_change event fires (§4.5).
const periodLeadMinutes = 30

// Engine drives one scheme's run to completion.
type Engine struct {
	Topo   *model.Topology
	Cfg    *model.Config
	Scheme model.Scheme
	Log    log.Logger

	queue   *eventQueue
	Now     time.Time
	EndTime time.Time

	periods          []model.ServicePeriod
	activeHeadwayMin float64
	trainsToWithdraw int

	allGroups  []*model.PassengerDemandGroup
	timetable  []model.TimetableEntry
	nextSeqID  int

	// loopDetections counts ArbitrationLoop occurrences, surfaced in
	// the final summary rather than aborting the run.
	loopDetections int
}

// New builds a fresh Engine for scheme over the given configuration,
// topology and demand. simDate anchors the 05:00-22:00 simulation
// window (§6: established by the first demand row's DateTime).
func New(cfg *model.Config, scheme model.Scheme, demand []*model.PassengerDemandGroup, simDate time.Time, logger log.Logger) (*Engine, error) {
	topo, err := BuildTopology(cfg, scheme)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New("module", "engine")
	}
	e := &Engine{
		Topo:      topo,
		Cfg:       cfg,
		Scheme:    scheme,
		Log:       logger.New("scheme", string(scheme)),
		queue:     newEventQueue(),
		Now:       dateAt(simDate, simStartHour),
		EndTime:   dateAt(simDate, simEndHour),
		allGroups: demand,
	}

	n := topo.NumStations()
	repSpec := topo.Trains[1].Spec
	repType := model.TypeAB
	if scheme == model.SkipStop {
		repType = model.TypeA
	}
	loopSecs, err := LoopTimeSeconds(topo, repType, repSpec)
	if err != nil {
		return nil, err
	}
	loopMin := float64(loopSecs) / 60.0

	periods := make([]model.ServicePeriod, len(cfg.ServicePeriods))
	copy(periods, cfg.ServicePeriods)
	for i := range periods {
		count := periods[i].TrainCount(scheme)
		if count > 0 {
			periods[i].HeadwayMinutes = RoundHalfEven(loopMin / float64(count))
		}
	}
	e.periods = periods
	_ = n

	for i, p := range periods {
		fireAt := dateAt(simDate, p.StartHour).Add(-periodLeadMinutes * time.Minute)
		e.queue.Schedule(model.NewPeriodChange(fireAt, i))
	}

	for _, g := range demand {
		if err := e.assignTransferStation(g); err != nil {
			return nil, err
		}
		station := topo.Station(g.OriginID)
		if station == nil {
			continue
		}
		station.EnqueueWaiting(g)
	}

	return e, nil
}

func dateAt(base time.Time, hour float64) time.Time {
	h := int(hour)
	m := int((hour - float64(h)) * 60)
	y, mo, d := base.Date()
	return time.Date(y, mo, d, h, m, 0, 0, base.Location())
}

// Run drains the event queue until it empties or the horizon is
// reached, dispatching each event to its handler (§4.1, §5).
func (e *Engine) Run() error {
	for {
		ev := e.queue.Peek()
		if ev == nil {
			break
		}
		if ev.When().After(e.EndTime) {
			break
		}
		ev = e.queue.PopNext()
		e.Now = ev.When()

		var err error
		switch v := ev.(type) {
		case *model.ArrivalEvent:
			err = e.handleArrival(v)
		case *model.DepartureEvent:
			err = e.handleDeparture(v)
		case *model.SegmentEnterEvent:
			err = e.handleSegmentEnter(v)
		case *model.SegmentExitEvent:
			err = e.handleSegmentExit(v)
		case *model.TurnaroundEvent:
			err = e.handleTurnaround(v)
		case *model.PeriodChangeEvent:
			err = e.handlePeriodChange(v)
		case *model.InsertionEvent:
			err = e.handleInsertion(v)
		default:
			err = &model.InvariantViolation{Where: "dispatch", Msg: fmt.Sprintf("unknown event type %T", ev)}
		}
		if err != nil {
			if _, ok := err.(*model.ArbitrationLoop); ok {
				e.loopDetections++
				e.Log.Warn("arbitration loop detected, dropping event", "err", err)
				continue
			}
			if _, ok := err.(*model.InvariantViolation); ok {
				return err
			}
			return err
		}
	}
	return nil
}

// recordEntry appends a TimetableEntry to the run's output.
func (e *Engine) recordEntry(entry model.TimetableEntry) {
	e.timetable = append(e.timetable, entry)
}

// Timetable returns the recorded entries in emission order.
func (e *Engine) Timetable() []model.TimetableEntry { return e.timetable }

// Demand returns every demand group this run was seeded with,
// including completed, in-transit and still-waiting groups.
func (e *Engine) Demand() []*model.PassengerDemandGroup { return e.allGroups }

// LoopDetections returns how many arbitration loops were detected and
// suppressed during the run.
func (e *Engine) LoopDetections() int { return e.loopDetections }

// activeTrainIDs returns the ids of currently active trains.
func (e *Engine) activeTrainIDs() []int {
	var out []int
	for id, t := range e.Topo.Trains {
		if id == 0 || t == nil {
			continue
		}
		if t.IsActive {
			out = append(out, id)
		}
	}
	return out
}

// rosterFreeTrainIDs returns ids of trains not currently active, in id order.
func (e *Engine) rosterFreeTrainIDs() []int {
	var out []int
	for id, t := range e.Topo.Trains {
		if id == 0 || t == nil {
			continue
		}
		if !t.IsActive {
			out = append(out, id)
		}
	}
	return out
}

func (e *Engine) currentPeriod(now time.Time) *model.ServicePeriod {
	var best *model.ServicePeriod
	for i := range e.periods {
		p := &e.periods[i]
		start := dateAt(now, p.StartHour).Add(-periodLeadMinutes * time.Minute)
		if !now.Before(start) {
			if best == nil || p.StartHour > best.StartHour {
				best = p
			}
		}
	}
	return best
}
