package engine

import (
	"github.com/khen08/mrt3sim/model"
)

// LoopTimeSeconds walks a representative train of serviceType from
// station 1 southbound to station N, turns around, and walks back,
// accumulating segment traversal and dwell time (§4.4.2). Dwell is
// counted only at stations where the train actually stops. The result
// is in whole seconds.
func LoopTimeSeconds(topo *model.Topology, serviceType model.StationType, spec *model.TrainSpec) (int, error) {
	n := topo.NumStations()
	total := 0
	speed := 0.0

	walk := func(dir model.Direction, from, to int) error {
		step := 1
		if dir == model.Northbound {
			step = -1
		}
		cur := from
		for cur != to {
			next := cur + step
			seg := topo.Segment(cur, next)
			if seg == nil {
				return &model.TopologyError{Scheme: string(topo.Scheme), Msg: "missing segment in loop-time walk"}
			}
			nextStation := topo.Station(next)
			stops := nextStation.ShouldStop(serviceType)
			var tr TraversalResult
			if stops {
				tr = StopTraversal(speed, spec.CruiseSpeedMps, spec.AccelMps2, spec.DecelMps2, seg.DistanceM)
			} else {
				tr = PassthroughTraversal(speed, spec.CruiseSpeedMps, spec.PassthroughMps, spec.AccelMps2, spec.DecelMps2, seg.DistanceM, spec.ZoneLengthM)
			}
			total += tr.Seconds
			speed = tr.ExitSpeed
			if stops && next != to {
				total += spec.DwellSeconds
			}
			cur = next
		}
		return nil
	}

	if err := walk(model.Southbound, 1, n); err != nil {
		return 0, err
	}
	// Far-terminus turnaround: dwell for the arrival stop, the physical
	// reversal, then the dwell handleTurnaround schedules the next
	// departure after (§9 turnaround/dwell resolution) — mirrored here
	// so the estimate matches the real per-terminus timing exactly.
	total += spec.DwellSeconds + spec.TurnaroundSecond + spec.DwellSeconds
	speed = 0
	if err := walk(model.Northbound, n, 1); err != nil {
		return 0, err
	}

	return total, nil
}
