package driver

import (
	"bytes"
	"testing"
	"time"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/khen08/mrt3sim/model"
	"github.com/khen08/mrt3sim/store"
)

func discardLogger() log.Logger {
	l := log.New()
	l.SetHandler(log.DiscardHandler())
	return l
}

func TestRunBothPersistsBothSchemesToSink(t *testing.T) {
	cfg := &model.Config{
		DwellSeconds:      30,
		TurnaroundSeconds: 60,
		AccelMps2:         1.0,
		DecelMps2:         1.0,
		MaxSpeedKmph:      60,
		MaxCapacity:       100,
		Scheme:            model.Regular,
		StationNames:      []string{"A", "B", "C"},
		StationDistances:  []float64{1.0, 1.0},
		SchemePattern:     []model.StationType{model.TypeAB, model.TypeA, model.TypeAB},
		ServicePeriods: []model.ServicePeriod{
			{Name: "AM", StartHour: 5, RegularTrainCount: 1, SkipStopTrainCount: 1},
		},
	}
	sink := store.NewMemorySink()
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	results, err := RunBoth(cfg, nil, simDate, sink, Options{Logger: discardLogger()})
	if err != nil {
		t.Fatalf("RunBoth: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2 (regular and skip-stop)", len(results))
	}
	for _, scheme := range []model.Scheme{model.Regular, model.SkipStop} {
		if _, ok := sink.Timetables[scheme]; !ok {
			t.Errorf("sink missing persisted timetable for scheme %v", scheme)
		}
	}
}

func TestPrintConsoleReportDoesNotPanicOnEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	PrintConsoleReport(&buf, nil)
	if buf.Len() == 0 {
		t.Errorf("expected at least the report header to be written")
	}
}
