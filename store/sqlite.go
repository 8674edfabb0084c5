package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/khen08/mrt3sim/model"
)

// SQLiteSink persists run output to an embedded, CGo-free sqlite
// database, grounded on the same modernc.org/sqlite + database/sql
// pairing the api service in the example pack uses for its own
// repositories.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (creating if absent) the sqlite file at path and
// ensures the result tables exist.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite sink: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite sink: %w", err)
	}
	s := &SQLiteSink{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS timetable_entries (
	scheme TEXT NOT NULL,
	train_id INTEGER NOT NULL,
	service_type TEXT NOT NULL,
	station_id INTEGER NOT NULL,
	direction TEXT NOT NULL,
	arrival_time TEXT NOT NULL,
	departure_time TEXT NOT NULL,
	travel_time_seconds REAL NOT NULL,
	boarded INTEGER NOT NULL,
	alighted INTEGER NOT NULL,
	station_wait_count INTEGER NOT NULL,
	train_occupancy INTEGER NOT NULL,
	train_status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS demand_results (
	scheme TEXT NOT NULL,
	payload TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_metrics (
	scheme TEXT NOT NULL PRIMARY KEY,
	total_boarded INTEGER NOT NULL,
	total_wait_seconds REAL NOT NULL,
	total_travel_seconds REAL NOT NULL
);`
	_, err := s.db.Exec(ddl)
	if err != nil {
		return fmt.Errorf("migrate sqlite sink: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Close() error { return s.db.Close() }

func (s *SQLiteSink) PersistTimetable(scheme model.Scheme, entries []model.TimetableEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO timetable_entries
		(scheme, train_id, service_type, station_id, direction, arrival_time, departure_time,
		 travel_time_seconds, boarded, alighted, station_wait_count, train_occupancy, train_status)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(string(scheme), e.TrainID, string(e.ServiceType), e.StationID, e.Direction.String(),
			e.ArrivalTime.Format("15:04:05"), e.DepartureTime.Format("15:04:05"), e.TravelTimeSeconds,
			e.Boarded, e.Alighted, e.StationWaitCount, e.TrainOccupancy, string(e.TrainStatus)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteSink) PersistDemandResults(scheme model.Scheme, groups []*model.PassengerDemandGroup) error {
	payload, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("marshal demand results: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO demand_results (scheme, payload) VALUES (?, ?)`, string(scheme), payload)
	return err
}

func (s *SQLiteSink) PersistMetrics(scheme model.Scheme, totals DemandTotals) error {
	_, err := s.db.Exec(`INSERT INTO run_metrics (scheme, total_boarded, total_wait_seconds, total_travel_seconds)
		VALUES (?,?,?,?)
		ON CONFLICT(scheme) DO UPDATE SET total_boarded=excluded.total_boarded,
			total_wait_seconds=excluded.total_wait_seconds, total_travel_seconds=excluded.total_travel_seconds`,
		string(scheme), totals.TotalBoarded, totals.TotalWaitSeconds, totals.TotalTravelSeconds)
	return err
}
