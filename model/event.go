package model

import "time"

// EventKind discriminates the event variants scheduled by the engine.
// The numeric values are the tie-break ordinals from §4.1: lower runs
// first among events sharing a timestamp.
type EventKind int

const (
	KindPeriodChange EventKind = iota // service_period_change = 0
	KindDeparture                     // train_departure = 1
	KindSegmentExit                   // segment_exit = 2
	KindArrival                       // train_arrival = 3
	KindTurnaround                    // turnaround = 4
	KindSegmentEnter                  // segment_enter = 5
	KindInsertion                     // train_insertion = 6
)

func (k EventKind) String() string {
	switch k {
	case KindPeriodChange:
		return "service_period_change"
	case KindDeparture:
		return "train_departure"
	case KindSegmentExit:
		return "segment_exit"
	case KindArrival:
		return "train_arrival"
	case KindTurnaround:
		return "turnaround"
	case KindSegmentEnter:
		return "segment_enter"
	case KindInsertion:
		return "train_insertion"
	default:
		return "unknown"
	}
}

// Event is the tagged union of everything the scheduler can carry.
// Each variant below implements Event with exactly the fields it
// needs; the engine's dispatch loop switches on the concrete type, and
// the scheduler uses Kind() as the tie-break ordinal.
type Event interface {
	Kind() EventKind
	When() time.Time
	// Seq breaks ties between events of identical (time, kind): it is
	// the event's insertion sequence number, assigned by the
	// scheduler at schedule() time.
	Seq() uint64
	SetSeq(uint64)
}

type baseEvent struct {
	Time time.Time
	seq  uint64
}

func (b *baseEvent) When() time.Time  { return b.Time }
func (b *baseEvent) Seq() uint64      { return b.seq }
func (b *baseEvent) SetSeq(s uint64)  { b.seq = s }

// ArrivalEvent: a train reaches a station (possibly pass-through is
// handled by the state machine, not by this event — arrival always
// means the train is now physically present at the station).
type ArrivalEvent struct {
	baseEvent
	TrainID   int
	StationID int
}

func (ArrivalEvent) Kind() EventKind { return KindArrival }

// DepartureEvent: a train attempts to leave a station.
type DepartureEvent struct {
	baseEvent
	TrainID   int
	StationID int
}

func (DepartureEvent) Kind() EventKind { return KindDeparture }

// SegmentEnterEvent: a train attempts to occupy the segment ahead.
type SegmentEnterEvent struct {
	baseEvent
	TrainID     int
	FromID      int
	ToID        int
	NextStation int
}

func (SegmentEnterEvent) Kind() EventKind { return KindSegmentEnter }

// SegmentExitEvent: a train finishes traversing a segment.
type SegmentExitEvent struct {
	baseEvent
	TrainID   int
	FromID    int
	ToID      int
	StationID int
}

func (SegmentExitEvent) Kind() EventKind { return KindSegmentExit }

// TurnaroundEvent: a train reverses direction at a terminus.
type TurnaroundEvent struct {
	baseEvent
	TrainID   int
	StationID int
}

func (TurnaroundEvent) Kind() EventKind { return KindTurnaround }

// PeriodChangeEvent: a service period boundary is crossed.
type PeriodChangeEvent struct {
	baseEvent
	PeriodIndex int
}

func (PeriodChangeEvent) Kind() EventKind { return KindPeriodChange }

// InsertionEvent: the service controller attempts to insert a
// withdrawn/roster train via the depot segment.
type InsertionEvent struct {
	baseEvent
	TrainID int
	FromID  int
	ToID    int
}

func (InsertionEvent) Kind() EventKind { return KindInsertion }

// NewArrival, NewDeparture, ... construct events with their Time field
// populated; Seq is assigned by the scheduler.
func NewArrival(t time.Time, trainID, stationID int) *ArrivalEvent {
	return &ArrivalEvent{baseEvent: baseEvent{Time: t}, TrainID: trainID, StationID: stationID}
}

func NewDeparture(t time.Time, trainID, stationID int) *DepartureEvent {
	return &DepartureEvent{baseEvent: baseEvent{Time: t}, TrainID: trainID, StationID: stationID}
}

func NewSegmentEnter(t time.Time, trainID, fromID, toID, nextStation int) *SegmentEnterEvent {
	return &SegmentEnterEvent{baseEvent: baseEvent{Time: t}, TrainID: trainID, FromID: fromID, ToID: toID, NextStation: nextStation}
}

func NewSegmentExit(t time.Time, trainID, fromID, toID, stationID int) *SegmentExitEvent {
	return &SegmentExitEvent{baseEvent: baseEvent{Time: t}, TrainID: trainID, FromID: fromID, ToID: toID, StationID: stationID}
}

func NewTurnaround(t time.Time, trainID, stationID int) *TurnaroundEvent {
	return &TurnaroundEvent{baseEvent: baseEvent{Time: t}, TrainID: trainID, StationID: stationID}
}

func NewPeriodChange(t time.Time, periodIndex int) *PeriodChangeEvent {
	return &PeriodChangeEvent{baseEvent: baseEvent{Time: t}, PeriodIndex: periodIndex}
}

func NewInsertion(t time.Time, trainID, fromID, toID int) *InsertionEvent {
	return &InsertionEvent{baseEvent: baseEvent{Time: t}, TrainID: trainID, FromID: fromID, ToID: toID}
}
