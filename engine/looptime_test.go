package engine

import (
	"testing"
	"time"

	"github.com/khen08/mrt3sim/model"
)

// TestLoopTimeRoundTrip exercises the loop-time round-trip law: a
// single REGULAR train with zero demand, run over the minimal
// 3-station topology, must return to station 1 in wall-clock time
// within +/-1s of LoopTimeSeconds's own prediction.
func TestLoopTimeRoundTrip(t *testing.T) {
	cfg := minimalConfig()
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	eng, err := New(cfg, model.Regular, nil, simDate, silentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wantSecs, err := LoopTimeSeconds(eng.Topo, model.TypeAB, eng.Topo.Trains[1].Spec)
	if err != nil {
		t.Fatalf("LoopTimeSeconds: %v", err)
	}

	if err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries := eng.Timetable()
	departIdx := firstEntryIndex(entries, 1, model.Southbound, 0)
	if departIdx == -1 {
		t.Fatalf("expected a southbound departure entry at station 1")
	}
	returnIdx := firstEntryIndex(entries, 1, model.Northbound, departIdx+1)
	if returnIdx == -1 {
		t.Fatalf("expected a northbound return entry at station 1 after the initial departure")
	}

	got := entries[returnIdx].ArrivalTime.Sub(entries[departIdx].DepartureTime)
	want := time.Duration(wantSecs) * time.Second
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Second {
		t.Errorf("round trip = %v, want %v (LoopTimeSeconds) within +/-1s, diff %v", got, want, diff)
	}
}
