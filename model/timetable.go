package model

import "time"

// TrainStatus marks whether a timetable entry was recorded for a
// train still in active service or one that was just withdrawn.
type TrainStatus string

const (
	StatusActive   TrainStatus = "active"
	StatusInactive TrainStatus = "inactive"
)

// TimetableEntry is one recorded stop event: an arrival/dwell/departure
// at a station, or the terminal record for a withdrawn train.
type TimetableEntry struct {
	TrainID            int
	ServiceType        StationType
	StationID          int
	Direction          Direction
	ArrivalTime        time.Time
	DepartureTime      time.Time
	TravelTimeSeconds  float64
	Boarded            int
	Alighted           int
	StationWaitCount   int // snapshot of the station's waiting demand at departure
	TrainOccupancy     int
	TrainStatus        TrainStatus
}
