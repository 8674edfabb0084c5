package model

import "time"

// TrackSegment is a directed edge between two adjacent stations.
// Segment identity is the ordered pair (FromID, ToID); direction is
// implied by the order. At most one train occupies a segment at any
// instant.
type TrackSegment struct {
	FromID    int
	ToID      int
	Direction Direction
	DistanceM float64

	// OccupantID is the id of the train currently on the segment, or
	// 0 if empty.
	OccupantID int

	LastEntryTime time.Time
	LastExitTime  time.Time

	// NextAvailable is the anticipated time this segment frees up,
	// set on entry to the entry time plus the traversal time.
	NextAvailable time.Time
}

// SegmentKey identifies a segment by its ordered endpoint pair.
type SegmentKey struct {
	FromID int
	ToID   int
}

func (s *TrackSegment) Key() SegmentKey {
	return SegmentKey{FromID: s.FromID, ToID: s.ToID}
}

// Available reports whether the segment is unoccupied.
func (s *TrackSegment) Available() bool {
	return s.OccupantID == 0
}

// Enter occupies the segment for trainID, returning false if already
// held by another train.
func (s *TrackSegment) Enter(trainID int, at time.Time) bool {
	if s.OccupantID != 0 && s.OccupantID != trainID {
		return false
	}
	s.OccupantID = trainID
	s.LastEntryTime = at
	return true
}

// Exit releases the segment if trainID currently occupies it. Returns
// an InvariantViolation if the occupant does not match.
func (s *TrackSegment) Exit(trainID int, at time.Time) error {
	if s.OccupantID != trainID {
		return &InvariantViolation{
			Where: "segment exit",
			Msg:   "segment occupant does not match exiting train",
		}
	}
	s.OccupantID = 0
	s.LastExitTime = at
	return nil
}
