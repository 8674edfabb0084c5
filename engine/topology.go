package engine

import (
	"github.com/khen08/mrt3sim/model"
)

// BuildTopology constructs the station list, directional segment
// graph, and train roster from cfg for the given scheme (§4.2).
func BuildTopology(cfg *model.Config, scheme model.Scheme) (*model.Topology, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := len(cfg.StationNames)
	if scheme == model.SkipStop && len(cfg.SchemePattern) != n {
		return nil, &model.TopologyError{Scheme: string(scheme), Msg: "schemePattern length must equal station count to build the SKIP-STOP topology"}
	}
	maxTrains := 0
	for _, p := range cfg.ServicePeriods {
		if c := p.TrainCount(scheme); c > maxTrains {
			maxTrains = c
		}
	}
	topo := model.NewTopology(scheme, n, maxTrains)

	for i := 1; i <= n; i++ {
		st := &model.Station{
			ID:       i,
			Name:     cfg.StationNames[i-1],
			Terminus: i == 1 || i == n,
		}
		if scheme == model.Regular {
			st.Type = model.TypeAB
		} else {
			st.Type = cfg.SchemePattern[i-1]
		}
		topo.Stations[i] = st
	}

	for i := 1; i < n; i++ {
		distM := cfg.StationDistances[i-1] * 1000
		south := &model.TrackSegment{FromID: i, ToID: i + 1, Direction: model.Southbound, DistanceM: distM}
		north := &model.TrackSegment{FromID: i + 1, ToID: i, Direction: model.Northbound, DistanceM: distM}
		topo.AddSegment(south)
		topo.AddSegment(north)
	}
	for i := 1; i <= n; i++ {
		st := topo.Stations[i]
		st.Tracks[model.Southbound] = topo.Segment(i, i+1)
		st.Tracks[model.Northbound] = topo.Segment(i, i-1)
	}

	passthroughKmph := cfg.PassthroughKmph
	if passthroughKmph <= 0 {
		passthroughKmph = 20
	}
	zoneM := cfg.ZoneLengthM
	if zoneM <= 0 {
		zoneM = 130
	}
	spec := &model.TrainSpec{
		Capacity:         cfg.MaxCapacity,
		CruiseSpeedMps:   cfg.MaxSpeedKmph / 3.6,
		PassthroughMps:   passthroughKmph / 3.6,
		AccelMps2:        cfg.AccelMps2,
		DecelMps2:        cfg.DecelMps2,
		DwellSeconds:     cfg.DwellSeconds,
		TurnaroundSecond: cfg.TurnaroundSeconds,
		ZoneLengthM:      zoneM,
	}

	for id := 1; id <= maxTrains; id++ {
		serviceType := model.TypeAB
		if scheme == model.SkipStop {
			if id%2 == 1 {
				serviceType = model.TypeA
			} else {
				serviceType = model.TypeB
			}
		}
		topo.Trains[id] = &model.Train{
			ID:               id,
			Spec:             spec,
			ServiceType:      serviceType,
			Direction:        model.Southbound,
			CurrentStationID: 1,
			IsActive:         false,
		}
	}

	return topo, nil
}
