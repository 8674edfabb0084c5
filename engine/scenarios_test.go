package engine

import (
	"testing"
	"time"

	log "gopkg.in/inconshreveable/log15.v2"

	"github.com/khen08/mrt3sim/model"
)

func minimalConfig() *model.Config {
	return &model.Config{
		DwellSeconds:      30,
		TurnaroundSeconds: 60,
		AccelMps2:         1.0,
		DecelMps2:         1.0,
		MaxSpeedKmph:      60,
		MaxCapacity:       100,
		Scheme:            model.Regular,
		StationNames:      []string{"A", "B", "C"},
		StationDistances:  []float64{1.0, 1.0},
		ServicePeriods: []model.ServicePeriod{
			{Name: "AM", StartHour: 5, RegularTrainCount: 1, SkipStopTrainCount: 1},
		},
	}
}

func silentLogger() log.Logger {
	l := log.New()
	l.SetHandler(log.DiscardHandler())
	return l
}

// Scenario A — minimal regular, no demand: a single train should
// complete a southbound run, turn around, and return within a few
// minutes with no passenger activity.
func TestScenarioA_MinimalRegularNoDemand(t *testing.T) {
	cfg := minimalConfig()
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	eng, err := New(cfg, model.Regular, nil, simDate, silentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries := eng.Timetable()
	if len(entries) == 0 {
		t.Fatalf("expected at least one timetable entry")
	}
	for _, e := range entries {
		if e.Boarded != 0 || e.Alighted != 0 {
			t.Errorf("entry at station %d: expected zero boarding/alighting with no demand, got boarded=%d alighted=%d", e.StationID, e.Boarded, e.Alighted)
		}
	}

	departIdx := firstEntryIndex(entries, 1, model.Southbound, 0)
	if departIdx == -1 {
		t.Fatalf("expected a southbound departure entry at station 1")
	}
	returnIdx := firstEntryIndex(entries, 1, model.Northbound, departIdx+1)
	if returnIdx == -1 {
		t.Fatalf("expected a northbound return entry at station 1 after the initial departure")
	}
	if loop := entries[returnIdx].ArrivalTime.Sub(entries[departIdx].DepartureTime); loop > 10*time.Minute {
		t.Errorf("loop took %v, expected well under 10 minutes for a 2km line", loop)
	}
}

// firstEntryIndex returns the index of the first entry at or after from
// matching stationID and direction, or -1 if none match.
func firstEntryIndex(entries []model.TimetableEntry, stationID int, dir model.Direction, from int) int {
	for i := from; i < len(entries); i++ {
		if entries[i].StationID == stationID && entries[i].Direction == dir {
			return i
		}
	}
	return -1
}

// Scenario B — one direct passenger: a single demand group boarding the
// first southbound train after its arrival time must record wait_time
// and travel_time per the literal formulas in §4.6.
func TestScenarioB_OneDirectPassenger(t *testing.T) {
	cfg := minimalConfig()
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	group := &model.PassengerDemandGroup{
		ID:             1,
		OriginID:       1,
		DestinationID:  3,
		ArrivalTime:    dateAt(simDate, 5),
		PassengerCount: 10,
	}

	eng, err := New(cfg, model.Regular, []*model.PassengerDemandGroup{group}, simDate, silentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if group.TripType != model.Direct {
		t.Fatalf("two AB stations must be a direct trip, got %v", group.TripType)
	}
	if group.Status != model.Completed {
		t.Fatalf("expected the group to complete its trip, got status %v", group.Status)
	}

	wantWait := group.DepartureFromOrigin.Sub(group.ArrivalTime)
	if wantWait < 0 {
		t.Errorf("wait_time must be >= 0, got %v", wantWait)
	}
	if got := time.Duration(group.WaitSeconds() * float64(time.Second)); got != wantWait {
		t.Errorf("WaitSeconds() = %v, want departure_from_origin - arrival_time = %v", got, wantWait)
	}

	wantTravel := group.CompletionTime.Sub(group.BoardingTime)
	if wantTravel < 0 {
		t.Errorf("travel_time must be >= 0, got %v", wantTravel)
	}
	if got := time.Duration(group.TravelSeconds() * float64(time.Second)); got != wantTravel {
		t.Errorf("TravelSeconds() = %v, want completion_time - boarding_time = %v", got, wantTravel)
	}

	var boardingEntry, completionEntry *model.TimetableEntry
	for i := range eng.Timetable() {
		e := &eng.Timetable()[i]
		if e.TrainID != group.TrainID {
			continue
		}
		if e.StationID == 1 && e.Direction == model.Southbound && e.Boarded > 0 && boardingEntry == nil {
			boardingEntry = e
		}
		if e.StationID == 3 && e.Alighted > 0 && completionEntry == nil {
			completionEntry = e
		}
	}
	if boardingEntry == nil || completionEntry == nil {
		t.Fatalf("expected timetable entries for the boarding train at stations 1 and 3")
	}
	if !boardingEntry.DepartureTime.Equal(group.DepartureFromOrigin) {
		t.Errorf("boarding train's station-1 departure %v != group's departure_from_origin %v", boardingEntry.DepartureTime, group.DepartureFromOrigin)
	}
	if !completionEntry.DepartureTime.Equal(group.CompletionTime) {
		t.Errorf("completion_time %v != boarding train's station-3 turnaround record %v", group.CompletionTime, completionEntry.DepartureTime)
	}
}

// Scenario C — skip-stop transfer: a group whose origin and destination
// are mismatched A/B types must transfer at the nearer AB station,
// alighting and re-boarding there, per §4.6.
func TestScenarioC_SkipStopTransfer(t *testing.T) {
	cfg := &model.Config{
		DwellSeconds:      30,
		TurnaroundSeconds: 60,
		AccelMps2:         1.0,
		DecelMps2:         1.0,
		MaxSpeedKmph:      60,
		MaxCapacity:       100,
		Scheme:            model.SkipStop,
		StationNames:      []string{"S1", "S2", "S3", "S4", "S5"},
		StationDistances:  []float64{1.0, 1.0, 1.0, 1.0},
		SchemePattern:     []model.StationType{model.TypeAB, model.TypeA, model.TypeAB, model.TypeB, model.TypeAB},
		ServicePeriods: []model.ServicePeriod{
			{Name: "AM", StartHour: 5, RegularTrainCount: 1, SkipStopTrainCount: 2},
		},
	}
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	group := &model.PassengerDemandGroup{
		ID:             1,
		OriginID:       2,
		DestinationID:  4,
		ArrivalTime:    dateAt(simDate, 5),
		PassengerCount: 5,
	}

	eng, err := New(cfg, model.SkipStop, []*model.PassengerDemandGroup{group}, simDate, silentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if group.TripType != model.Transfer {
		t.Fatalf("station 2 (A) to station 4 (B) must require a transfer, got %v", group.TripType)
	}
	if group.TransferStation != 3 {
		t.Fatalf("transfer station = %d, want 3 (minimises |2-3|+|3-4|=2)", group.TransferStation)
	}

	if err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if group.Status != model.Completed {
		t.Fatalf("expected the group to complete its trip via transfer, got status %v", group.Status)
	}
	if group.ArrivalAtTransferTime.IsZero() {
		t.Fatalf("expected an alight time recorded at the transfer station")
	}
	if group.DepartureFromTransfer.IsZero() {
		t.Fatalf("expected a re-boarding time recorded at the transfer station")
	}
	if group.DepartureFromTransfer.Before(group.ArrivalAtTransferTime) {
		t.Errorf("re-boarding time %v precedes the transfer alight time %v", group.DepartureFromTransfer, group.ArrivalAtTransferTime)
	}

	var leg1Board, leg2Board, leg1Alight *model.TimetableEntry
	for i := range eng.Timetable() {
		e := &eng.Timetable()[i]
		switch {
		case e.StationID == 2 && e.Boarded > 0 && leg1Board == nil:
			leg1Board = e
		case e.StationID == 3 && e.Alighted > 0 && leg1Alight == nil:
			leg1Alight = e
		case e.StationID == 3 && e.Boarded > 0 && leg2Board == nil:
			leg2Board = e
		}
	}
	if leg1Board == nil || leg1Alight == nil || leg2Board == nil {
		t.Fatalf("expected a leg-1 boarding entry at station 2, an alight entry at station 3, and a leg-2 boarding entry at station 3")
	}
	if leg1Board.ServiceType != model.TypeA && leg1Board.ServiceType != model.TypeAB {
		t.Errorf("leg 1 train service type = %v, want A or AB", leg1Board.ServiceType)
	}
	if leg2Board.ServiceType != model.TypeB && leg2Board.ServiceType != model.TypeAB {
		t.Errorf("leg 2 train service type = %v, want B or AB", leg2Board.ServiceType)
	}
	if leg1Alight.TrainID == leg2Board.TrainID {
		t.Errorf("leg 1 and leg 2 must be carried by different trains to count as a genuine transfer, both were train %d", leg1Alight.TrainID)
	}
}

// Scenario D — contention: two trains launched 30 s apart southbound
// from station 1 must have the second train's departure rescheduled
// past the first train's segment_exit plus buffer, preserving platform
// exclusivity at station 2, per §4.3.
func TestScenarioD_Contention(t *testing.T) {
	cfg := minimalConfig()
	cfg.ServicePeriods = []model.ServicePeriod{
		{Name: "AM", StartHour: 5, RegularTrainCount: 2, SkipStopTrainCount: 2},
	}
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	eng, err := New(cfg, model.Regular, nil, simDate, silentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	t0 := dateAt(simDate, 5)
	for id := 1; id <= 2; id++ {
		tr := eng.Topo.Trains[id]
		tr.IsActive = true
		tr.Direction = model.Southbound
		tr.CurrentStationID = 1
		tr.ArrivalTime = t0
	}
	eng.queue.Schedule(model.NewDeparture(t0, 1, 1))
	eng.queue.Schedule(model.NewDeparture(t0.Add(30*time.Second), 2, 1))

	if err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var dep1, dep2, arr1, arr2 *model.TimetableEntry
	for i := range eng.Timetable() {
		e := &eng.Timetable()[i]
		if e.Direction != model.Southbound {
			continue
		}
		switch {
		case e.StationID == 1 && e.TrainID == 1 && dep1 == nil:
			dep1 = e
		case e.StationID == 1 && e.TrainID == 2 && dep2 == nil:
			dep2 = e
		case e.StationID == 2 && e.TrainID == 1 && arr1 == nil:
			arr1 = e
		case e.StationID == 2 && e.TrainID == 2 && arr2 == nil:
			arr2 = e
		}
	}
	if dep1 == nil || dep2 == nil || arr1 == nil || arr2 == nil {
		t.Fatalf("expected southbound station-1 departure and station-2 arrival entries for both trains")
	}

	if !dep1.DepartureTime.Equal(t0) {
		t.Errorf("train 1 should depart unblocked at %v, got %v", t0, dep1.DepartureTime)
	}

	if !dep2.DepartureTime.After(arr1.ArrivalTime) {
		t.Errorf("train 2 departed at %v, expected strictly after train 1's segment_exit (arrival at station 2) at %v", dep2.DepartureTime, arr1.ArrivalTime)
	}
	if dep2.DepartureTime.Before(arr1.ArrivalTime.Add(baseDepartureBufferSeconds * time.Second)) {
		t.Errorf("train 2 departure %v does not respect the departure buffer past segment_exit %v", dep2.DepartureTime, arr1.ArrivalTime)
	}

	if arr2.ArrivalTime.Before(arr1.DepartureTime) {
		t.Errorf("train 2 arrived at station 2 (%v) before train 1 vacated the platform (%v)", arr2.ArrivalTime, arr1.DepartureTime)
	}
}

// Scenario E — capacity overflow: a group larger than train capacity
// must never board; whole-group atomicity forbids partial boarding.
func TestScenarioE_CapacityOverflowNotBoarded(t *testing.T) {
	cfg := minimalConfig()
	cfg.MaxCapacity = 10
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	group := &model.PassengerDemandGroup{
		ID:             1,
		OriginID:       1,
		DestinationID:  3,
		ArrivalTime:    dateAt(simDate, 5),
		PassengerCount: 15,
		Status:         model.WaitingAtOrigin,
	}

	eng, err := New(cfg, model.Regular, []*model.PassengerDemandGroup{group}, simDate, silentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if group.Status == model.Completed {
		t.Fatalf("oversized group must not complete its trip; capacity is 10, group is 15")
	}
	for _, e := range eng.Timetable() {
		if e.Boarded == 15 {
			t.Fatalf("a 15-passenger group boarded a 10-capacity train")
		}
	}
}

// Scenario F — withdrawal: a service period reducing target fleet
// size to zero mid-run must deactivate the train at its next
// northbound arrival at station 1, emitting an inactive terminal entry
// and not a turnaround.
func TestScenarioF_Withdrawal(t *testing.T) {
	cfg := minimalConfig()
	cfg.ServicePeriods = []model.ServicePeriod{
		{Name: "AM", StartHour: 5, RegularTrainCount: 1, SkipStopTrainCount: 1},
		{Name: "LATE", StartHour: 21.5, RegularTrainCount: 0, SkipStopTrainCount: 0},
	}
	simDate := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	eng, err := New(cfg, model.Regular, nil, simDate, silentLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := eng.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var sawInactive bool
	for _, e := range eng.Timetable() {
		if e.TrainStatus == model.StatusInactive {
			sawInactive = true
			if e.StationID != 1 {
				t.Errorf("withdrawal must happen at station 1, got station %d", e.StationID)
			}
		}
	}
	if !sawInactive {
		t.Fatalf("expected a withdrawal entry with TrainStatus=inactive")
	}
}
