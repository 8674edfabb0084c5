// Package metrics aggregates per-scheme run output: boarded/wait/
// travel totals and the O-D demand bucketing the original reporting
// layer computed as a post-run groupby (§6 Metrics, §11 of SPEC_FULL).
package metrics

import (
	"time"

	"github.com/khen08/mrt3sim/model"
)

// Totals holds the per-scheme sums from which averages are derived.
type Totals struct {
	TotalBoarded       int
	TotalWaitSeconds   float64
	TotalTravelSeconds float64
}

// AverageWaitSeconds returns the mean wait time, or 0 if nothing boarded.
func (t Totals) AverageWaitSeconds() float64 {
	if t.TotalBoarded == 0 {
		return 0
	}
	return t.TotalWaitSeconds / float64(t.TotalBoarded)
}

// AverageTravelSeconds returns the mean travel time, or 0 if nothing boarded.
func (t Totals) AverageTravelSeconds() float64 {
	if t.TotalBoarded == 0 {
		return 0
	}
	return t.TotalTravelSeconds / float64(t.TotalBoarded)
}

// Summarize computes Totals from a run's completed demand groups.
func Summarize(groups []*model.PassengerDemandGroup) Totals {
	var t Totals
	for _, g := range groups {
		if g.Status != model.Completed {
			continue
		}
		t.TotalBoarded += g.PassengerCount
		t.TotalWaitSeconds += g.WaitSeconds() * float64(g.PassengerCount)
		t.TotalTravelSeconds += g.TravelSeconds() * float64(g.PassengerCount)
	}
	return t
}

// DemandBucket is one of the three time-of-day windows the aggregated
// demand output is grouped into.
type DemandBucket string

const (
	FullService DemandBucket = "FULL_SERVICE"
	AMPeak      DemandBucket = "AM_PEAK"
	PMPeak      DemandBucket = "PM_PEAK"
)

func bucketFor(t time.Time) DemandBucket {
	h := t.Hour()
	switch {
	case h >= 7 && h < 9:
		return AMPeak
	case h >= 17 && h < 19:
		return PMPeak
	default:
		return FullService
	}
}

// ODKey identifies an origin-destination pair.
type ODKey struct {
	Origin      int
	Destination int
}

// AggregateKey is the full grouping key: scheme x bucket x O-D pair.
type AggregateKey struct {
	Scheme model.Scheme
	Bucket DemandBucket
	OD     ODKey
}

// AggregateDemand sums the passenger counts of every demand group,
// boarded or not, by scheme, time bucket and O-D pair, bucketed on each
// group's origin arrival time.
func AggregateDemand(scheme model.Scheme, groups []*model.PassengerDemandGroup) map[AggregateKey]int {
	out := make(map[AggregateKey]int)
	for _, g := range groups {
		key := AggregateKey{
			Scheme: scheme,
			Bucket: bucketFor(g.ArrivalTime),
			OD:     ODKey{Origin: g.OriginID, Destination: g.DestinationID},
		}
		out[key] += g.PassengerCount
		full := AggregateKey{Scheme: scheme, Bucket: FullService, OD: key.OD}
		if key.Bucket != FullService {
			out[full] += g.PassengerCount
		}
	}
	return out
}
