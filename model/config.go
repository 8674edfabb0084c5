package model

import "strconv"

// ServicePeriod names a block of the service day with a target fleet
// size and a derived headway. Headway is computed by the engine once
// the loop time for the relevant scheme is known.
type ServicePeriod struct {
	Name               string
	StartHour          float64 // hour of day, e.g. 6.5 for 06:30
	RegularTrainCount  int
	SkipStopTrainCount int

	// HeadwayMinutes is filled in by the engine at initialization:
	// round_half_to_even(loop_time_minutes / train_count) for the
	// scheme currently being run.
	HeadwayMinutes float64
}

// TrainCount returns the configured target fleet size for scheme.
func (p *ServicePeriod) TrainCount(scheme Scheme) int {
	if scheme == SkipStop {
		return p.SkipStopTrainCount
	}
	return p.RegularTrainCount
}

// Config is the typed, closed-field configuration record consumed by
// the Topology Builder (§6). Unknown input fields are rejected by the
// ingest layer before a Config is ever constructed.
type Config struct {
	DwellSeconds      int
	TurnaroundSeconds int
	AccelMps2         float64
	DecelMps2         float64
	MaxSpeedKmph      float64
	PassthroughKmph   float64 // defaults to 20 km/h if unset
	ZoneLengthM       float64 // defaults to 130m if unset
	MaxCapacity       int

	Scheme Scheme

	StationNames     []string
	StationDistances []float64 // km, length = len(StationNames)-1
	SchemePattern    []StationType // length = len(StationNames), used only for SKIP-STOP

	ServicePeriods []ServicePeriod
}

// Validate checks the closed set of structural invariants §7
// (ConfigError) requires before any event may be scheduled.
func (c *Config) Validate() error {
	n := len(c.StationNames)
	if n < 2 {
		return &ConfigError{Field: "stationNames", Msg: "at least two stations are required"}
	}
	if len(c.StationDistances) != n-1 {
		return &ConfigError{Field: "stationDistances", Msg: "length must equal station count minus one"}
	}
	for i, d := range c.StationDistances {
		if d <= 0 {
			return &ConfigError{Field: "stationDistances", Msg: "distance must be positive at index " + strconv.Itoa(i)}
		}
	}
	if c.Scheme == SkipStop {
		if len(c.SchemePattern) != n {
			return &ConfigError{Field: "schemePattern", Msg: "length must equal station count"}
		}
		for _, t := range c.SchemePattern {
			if t != TypeA && t != TypeB && t != TypeAB {
				return &ConfigError{Field: "schemePattern", Msg: "entries must be A, B, or AB"}
			}
		}
	}
	if c.DwellSeconds <= 0 {
		return &ConfigError{Field: "dwellTime", Msg: "must be positive"}
	}
	if c.TurnaroundSeconds <= 0 {
		return &ConfigError{Field: "turnaroundTime", Msg: "must be positive"}
	}
	if c.AccelMps2 <= 0 || c.DecelMps2 <= 0 {
		return &ConfigError{Field: "acceleration/deceleration", Msg: "must be positive"}
	}
	if c.MaxSpeedKmph <= 0 {
		return &ConfigError{Field: "maxSpeed", Msg: "must be positive"}
	}
	if c.MaxCapacity <= 0 {
		return &ConfigError{Field: "maxCapacity", Msg: "must be positive"}
	}
	if len(c.ServicePeriods) == 0 {
		return &ConfigError{Field: "servicePeriods", Msg: "at least one period is required"}
	}
	return nil
}
