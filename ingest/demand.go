package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/khen08/mrt3sim/model"
)

// demandTimeLayout matches the DateTime column format of the demand
// table (§6 External Interfaces).
const demandTimeLayout = "2006-01-02 15:04:05"

// odColumn parses a "origin,destination" header into its two 1-based
// station ids.
func odColumn(header string) (origin, destination int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(header), ",", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	o, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	d, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return o, d, true
}

// LoadDemandFromReader parses the per-minute O-D demand table (§6),
// validating referenced station ids against validStationID, and
// returns the generated demand groups, the simulation date established
// by the first row's DateTime, and any non-fatal per-row warnings.
// An empty demand table is reported as a warning, not an error (§7).
func LoadDemandFromReader(r io.Reader, validStationID func(int) bool) ([]*model.PassengerDemandGroup, time.Time, []error, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, time.Time{}, nil, &model.DemandError{Msg: fmt.Sprintf("read header: %v", err)}
	}
	dateCol := -1
	type odSpec struct {
		col               int
		origin, destination int
	}
	var ods []odSpec
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), "DateTime") {
			dateCol = i
			continue
		}
		if o, d, ok := odColumn(h); ok {
			ods = append(ods, odSpec{col: i, origin: o, destination: d})
		}
	}
	if dateCol == -1 {
		return nil, time.Time{}, nil, &model.DemandError{Msg: "missing DateTime column"}
	}
	if len(ods) == 0 {
		return nil, time.Time{}, nil, &model.DemandError{Msg: "no origin-destination columns found"}
	}

	var groups []*model.PassengerDemandGroup
	var warnings []error
	var simDate time.Time
	nextID := 1
	rowNum := 1

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, &model.DemandError{Row: rowNum, Msg: fmt.Sprintf("read row: %v", err)})
			rowNum++
			continue
		}
		rowNum++
		if dateCol >= len(row) {
			warnings = append(warnings, &model.DemandError{Row: rowNum, Msg: "row shorter than DateTime column"})
			continue
		}
		ts, err := time.Parse(demandTimeLayout, strings.TrimSpace(row[dateCol]))
		if err != nil {
			warnings = append(warnings, &model.DemandError{Row: rowNum, Msg: fmt.Sprintf("unparseable DateTime %q", row[dateCol])})
			continue
		}
		if simDate.IsZero() {
			simDate = ts
		}
		for _, spec := range ods {
			if spec.col >= len(row) {
				continue
			}
			raw := strings.TrimSpace(row[spec.col])
			if raw == "" || raw == "0" {
				continue
			}
			count, err := strconv.Atoi(raw)
			if err != nil || count < 0 {
				warnings = append(warnings, &model.DemandError{Row: rowNum, Msg: fmt.Sprintf("invalid count %q for %d,%d", raw, spec.origin, spec.destination)})
				continue
			}
			if count == 0 {
				continue
			}
			if !validStationID(spec.origin) || !validStationID(spec.destination) {
				warnings = append(warnings, &model.DemandError{Row: rowNum, Msg: fmt.Sprintf("unknown station in O-D pair %d,%d", spec.origin, spec.destination)})
				continue
			}
			groups = append(groups, &model.PassengerDemandGroup{
				ID:             nextID,
				OriginID:       spec.origin,
				DestinationID:  spec.destination,
				ArrivalTime:    ts,
				PassengerCount: count,
				Status:         model.WaitingAtOrigin,
			})
			nextID++
		}
	}

	if len(groups) == 0 {
		warnings = append(warnings, &model.DemandError{Msg: "demand table produced zero passenger groups"})
	}
	return groups, simDate, warnings, nil
}
