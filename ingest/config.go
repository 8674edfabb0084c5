// Package ingest loads the typed configuration record and the CSV
// demand table the core simulation consumes. Config loading decodes a
// raw JSON struct with encoding/json, then maps it into the closed
// model.Config record with validation errors surfaced as
// model.ConfigError.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/khen08/mrt3sim/model"
)

type rawServicePeriod struct {
	Name               string  `json:"name"`
	StartHour          float64 `json:"start_hour"`
	RegularTrainCount  int     `json:"regular_train_count"`
	SkipStopTrainCount int     `json:"skip_stop_train_count"`
}

type rawConfig struct {
	DwellTime        int                `json:"dwellTime"`
	TurnaroundTime   int                `json:"turnaroundTime"`
	Acceleration     float64            `json:"acceleration"`
	Deceleration     float64            `json:"deceleration"`
	MaxSpeed         float64            `json:"maxSpeed"`
	MaxCapacity      int                `json:"maxCapacity"`
	PassthroughSpeed float64            `json:"passthroughSpeed"`
	ZoneLength       float64            `json:"zoneLength"`
	SchemeType       string             `json:"schemeType"`
	StationNames     []string           `json:"stationNames"`
	StationDistances []float64          `json:"stationDistances"`
	SchemePattern    []string           `json:"schemePattern"`
	ServicePeriods   []rawServicePeriod `json:"servicePeriods"`
}

// LoadConfigFromReader decodes a configuration JSON document into a
// model.Config and validates it.
func LoadConfigFromReader(r io.Reader) (*model.Config, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var raw rawConfig
	if err := dec.Decode(&raw); err != nil {
		return nil, &model.ConfigError{Field: "<root>", Msg: fmt.Sprintf("decode: %v", err)}
	}

	scheme := model.Regular
	if raw.SchemeType == string(model.SkipStop) {
		scheme = model.SkipStop
	} else if raw.SchemeType != "" && raw.SchemeType != string(model.Regular) {
		return nil, &model.ConfigError{Field: "schemeType", Msg: "must be REGULAR or SKIP-STOP"}
	}

	pattern := make([]model.StationType, len(raw.SchemePattern))
	for i, s := range raw.SchemePattern {
		pattern[i] = model.StationType(s)
	}

	periods := make([]model.ServicePeriod, len(raw.ServicePeriods))
	for i, p := range raw.ServicePeriods {
		periods[i] = model.ServicePeriod{
			Name:               p.Name,
			StartHour:          p.StartHour,
			RegularTrainCount:  p.RegularTrainCount,
			SkipStopTrainCount: p.SkipStopTrainCount,
		}
	}

	cfg := &model.Config{
		DwellSeconds:      raw.DwellTime,
		TurnaroundSeconds: raw.TurnaroundTime,
		AccelMps2:         raw.Acceleration,
		DecelMps2:         raw.Deceleration,
		MaxSpeedKmph:      raw.MaxSpeed,
		PassthroughKmph:   raw.PassthroughSpeed,
		ZoneLengthM:       raw.ZoneLength,
		MaxCapacity:       raw.MaxCapacity,
		Scheme:            scheme,
		StationNames:      raw.StationNames,
		StationDistances:  raw.StationDistances,
		SchemePattern:     pattern,
		ServicePeriods:    periods,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
