package sim

import (
	"errors"
	"testing"

	"github.com/gardensim/engine/internal/autoevent"
	"github.com/gardensim/engine/internal/bus"
	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/pkg/state"
)

func newTestAPI(t *testing.T, opts Options) *API {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	a := New(opts)
	if err := a.InitializeGarden(); err != nil {
		t.Fatalf("InitializeGarden: %v", err)
	}
	return a
}

func TestCallsBeforeInitFail(t *testing.T) {
	a := New(Options{Seed: 1})
	if _, err := a.Rain(10); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Rain before init: %v, want ErrUninitialized", err)
	}
	if err := a.Temperature(70); !errors.Is(err, ErrUninitialized) {
		t.Errorf("Temperature before init: %v, want ErrUninitialized", err)
	}
	if _, err := a.GetState(); !errors.Is(err, ErrUninitialized) {
		t.Errorf("GetState before init: %v, want ErrUninitialized", err)
	}
	if _, err := a.ProcessAutoSlices(1); !errors.Is(err, ErrUninitialized) {
		t.Errorf("ProcessAutoSlices before init: %v, want ErrUninitialized", err)
	}
}

func TestInitializeGardenDefaultRoster(t *testing.T) {
	a := newTestAPI(t, Options{})
	plants, err := a.GetPlants()
	if err != nil {
		t.Fatalf("GetPlants: %v", err)
	}
	// Two instances of each of the four built-in types.
	if len(plants) != 8 {
		t.Fatalf("roster size = %d, want 8", len(plants))
	}
	if plants[0].Name != "Lettuce-001" {
		t.Errorf("first plant = %q, want Lettuce-001 (types plant alphabetically)", plants[0].Name)
	}
}

func TestInitializeGardenCustomPlan(t *testing.T) {
	a := newTestAPI(t, Options{Plan: []PlantSpec{
		{Type: "Rose", Count: 3},
		{Type: "Orchid", Count: 2}, // unknown, logged and skipped
	}})
	plants, _ := a.GetPlants()
	if len(plants) != 3 {
		t.Fatalf("roster size = %d, want 3 (unknown type skipped)", len(plants))
	}
	for i, p := range plants {
		if p.Type != "Rose" {
			t.Fatalf("plant %d type = %q, want Rose", i, p.Type)
		}
	}
}

func TestRainClampsIntoBounds(t *testing.T) {
	a := newTestAPI(t, Options{})
	min, _ := a.GetMinWaterRequirement()
	allowance, _ := a.GetMaxRainfallAllowance()

	for _, request := range []int{-5, 0, 1, 500} {
		applied, err := a.Rain(request)
		if err != nil {
			t.Fatalf("Rain(%d): %v", request, err)
		}
		if applied < min || applied > allowance {
			t.Fatalf("Rain(%d) applied %d, outside [%d,%d]", request, applied, min, allowance)
		}
	}
}

func TestTemperatureHardRejection(t *testing.T) {
	a := newTestAPI(t, Options{})
	before, _ := a.GetState()

	err := a.Temperature(130)
	if !errors.Is(err, garden.ErrInvalidTemperature) {
		t.Fatalf("Temperature(130): %v, want ErrInvalidTemperature", err)
	}
	after, _ := a.GetState()
	if after.AirTemperature != before.AirTemperature {
		t.Fatal("rejected temperature mutated state")
	}
}

func TestParasiteBlankNameIgnored(t *testing.T) {
	a := newTestAPI(t, Options{})
	for _, name := range []string{"", "   "} {
		if err := a.Parasite(name); err != nil {
			t.Fatalf("Parasite(%q): %v", name, err)
		}
	}
	snap, _ := a.GetState()
	if len(snap.Soil.Pests) != 0 {
		t.Fatalf("pests = %v; blank parasite names must not register", snap.Soil.Pests)
	}
	for _, p := range snap.Plants {
		if p.Infested {
			t.Fatalf("plant %s infested by a blank parasite name", p.Name)
		}
	}
}

func TestProcessAutoSlicesAdvancesClock(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.SetAutoEventsEnabled(false)

	if _, err := a.ProcessAutoSlices(garden.SlicesPerHour * 3); err != nil {
		t.Fatalf("ProcessAutoSlices: %v", err)
	}
	hours, _ := a.GetHoursElapsed()
	if hours != 3 {
		t.Fatalf("hoursElapsed = %d, want 3", hours)
	}
}

func TestFullDayAdvancesGardenDay(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.SetAutoEventsEnabled(false)

	for i := 0; i < garden.HoursPerDay; i++ {
		if err := a.AdvanceHourManually(); err != nil {
			t.Fatalf("AdvanceHourManually: %v", err)
		}
	}
	snap, _ := a.GetState()
	if snap.Day != 1 {
		t.Fatalf("day = %d after 24 hours, want 1", snap.Day)
	}
	if snap.HourOfDay != 0 {
		t.Fatalf("hourOfDay = %d, want wrap to 0", snap.HourOfDay)
	}
}

func TestSnapshotInvariants(t *testing.T) {
	a := newTestAPI(t, Options{})
	if _, err := a.ProcessAutoSlices(garden.SlicesPerDay); err != nil {
		t.Fatalf("ProcessAutoSlices: %v", err)
	}
	snap, _ := a.GetState()
	if snap.Version != state.SnapshotVersion {
		t.Errorf("snapshot version = %d, want %d", snap.Version, state.SnapshotVersion)
	}
	if snap.AlivePlants+snap.DeadPlants != snap.TotalPlants {
		t.Errorf("alive %d + dead %d != total %d", snap.AlivePlants, snap.DeadPlants, snap.TotalPlants)
	}
	for _, p := range snap.Plants {
		if p.Health < 0 || p.Health > 100 {
			t.Errorf("plant %s health %v outside [0,100]", p.Name, p.Health)
		}
		if p.Alive != (p.Health > 0) {
			t.Errorf("plant %s alive=%v with health %v", p.Name, p.Alive, p.Health)
		}
	}
}

func TestAutoEventsDisabledMeansNoEvents(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.SetAutoEventsEnabled(false)

	summary, err := a.ProcessAutoSlices(garden.SlicesPerDay)
	if err != nil {
		t.Fatalf("ProcessAutoSlices: %v", err)
	}
	if summary != "" {
		t.Fatalf("events fired while disabled: %q", summary)
	}
}

func TestUpdateAutoEventConfigTakesEffect(t *testing.T) {
	a := newTestAPI(t, Options{})
	cfg := autoevent.DefaultConfig()
	cfg.RainChance = 0
	cfg.ParasiteChance = 0
	cfg.TemperatureChance = 0
	if err := a.UpdateAutoEventConfig(cfg); err != nil {
		t.Fatalf("UpdateAutoEventConfig: %v", err)
	}

	// Temperature events still fire (the diurnal baseline is always
	// produced), but rain and parasites cannot.
	history0, _ := a.History()
	a.ProcessAutoSlices(garden.SlicesPerDay)
	history1, _ := a.History()
	for _, ev := range history1[len(history0):] {
		if ev.Type == "parasite" {
			t.Fatalf("parasite event fired with zero probability: %v", ev)
		}
	}
}

func TestColdSnapEngagesHeating(t *testing.T) {
	a := newTestAPI(t, Options{})
	if err := a.Temperature(45); err != nil {
		t.Fatalf("Temperature: %v", err)
	}
	snap, _ := a.GetState()
	found := false
	for _, mod := range snap.Modules {
		if mod.Key == "heating" {
			found = true
			if !mod.Active {
				t.Fatal("heating not active after cold snap")
			}
			if mod.TargetTemperature < 65 {
				t.Fatalf("heating target %d below floor", mod.TargetTemperature)
			}
		}
	}
	if !found {
		t.Fatal("heating missing from module status")
	}
}

func TestSnapshotsPublishedToBus(t *testing.T) {
	b, err := bus.New()
	if err != nil {
		t.Fatalf("bus.New: %v", err)
	}
	defer b.Close()
	sub := b.Subscribe(16)

	a := newTestAPI(t, Options{Bus: b})
	if _, err := a.Rain(10); err != nil {
		t.Fatalf("Rain: %v", err)
	}

	received := 0
	for len(sub.States) > 0 {
		<-sub.States
		received++
	}
	// One snapshot from init, one from the rain call.
	if received < 2 {
		t.Fatalf("received %d snapshots, want at least 2", received)
	}
	if len(sub.Logs) == 0 {
		t.Fatal("no log lines published for recorded events")
	}
}

func TestReinitializeResets(t *testing.T) {
	a := newTestAPI(t, Options{})
	a.SetAutoEventsEnabled(false)
	a.ProcessAutoSlices(garden.SlicesPerHour * 5)

	if err := a.InitializeGarden(); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	hours, _ := a.GetHoursElapsed()
	if hours != 0 {
		t.Fatalf("hoursElapsed = %d after re-init, want 0", hours)
	}
}
