package sim

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/pkg/state"
)

func TestHealthAndWaterLabels(t *testing.T) {
	cases := []struct {
		plant       state.PlantStatus
		wantHealth  string
		wantWater   string
		description string
	}{
		{state.PlantStatus{Alive: true, Health: 95, Water: 10, WaterRequirement: 10}, "Healthy", "Good", "full health, full water"},
		{state.PlantStatus{Alive: true, Health: 65, Water: 6, WaterRequirement: 10}, "Fair", "OK", "fair band"},
		{state.PlantStatus{Alive: true, Health: 40, Water: 3, WaterRequirement: 10}, "Sick", "Low", "sick band"},
		{state.PlantStatus{Alive: true, Health: 10, Water: 1, WaterRequirement: 10}, "Dying", "Dry", "dying band"},
		{state.PlantStatus{Alive: false, Health: 0, Water: 0, WaterRequirement: 10}, "Dead", "Dry", "dead"},
	}
	for _, tc := range cases {
		if got := healthLabel(tc.plant); got != tc.wantHealth {
			t.Errorf("%s: healthLabel = %s, want %s", tc.description, got, tc.wantHealth)
		}
		if got := waterLabel(tc.plant); got != tc.wantWater {
			t.Errorf("%s: waterLabel = %s, want %s", tc.description, got, tc.wantWater)
		}
	}
}

func capturedLog() (*logging.SlogManager, *bytes.Buffer) {
	var buf bytes.Buffer
	m := logging.NewSlogManager()
	m.Setup(&buf, "debug", nil)
	return m, &buf
}

func TestAlertsFireOnTransitionsOnly(t *testing.T) {
	log, buf := capturedLog()
	a := New(Options{Log: log, Seed: 1})

	healthy := state.Snapshot{Plants: []state.PlantStatus{
		{Name: "Rose-001", Alive: true, Health: 90, Water: 10, WaterRequirement: 10},
	}}
	dying := state.Snapshot{Plants: []state.PlantStatus{
		{Name: "Rose-001", Alive: true, Health: 15, Water: 1, WaterRequirement: 10, Infested: true},
	}}

	a.logAlertsLocked(healthy, dying)
	out := buf.String()
	for _, want := range []string{"is dying", "critically dry", "is infested"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected alert containing %q, log output:\n%s", want, out)
		}
	}

	// Same state again: no transitions, no new alerts.
	buf.Reset()
	a.logAlertsLocked(dying, dying)
	if strings.Contains(buf.String(), "ALERT") {
		t.Errorf("repeat state should not re-alert, got:\n%s", buf.String())
	}

	buf.Reset()
	dead := state.Snapshot{Plants: []state.PlantStatus{
		{Name: "Rose-001", Alive: false, Health: 0, WaterRequirement: 10},
	}}
	a.logAlertsLocked(dying, dead)
	if !strings.Contains(buf.String(), "has died") {
		t.Errorf("expected death alert, got:\n%s", buf.String())
	}
}

func TestGetStateLogsReport(t *testing.T) {
	log, buf := capturedLog()
	a := newTestAPI(t, Options{Log: log})

	buf.Reset()
	if _, err := a.GetState(); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "plants alive") {
		t.Errorf("expected day summary line, got:\n%s", out)
	}
	if !strings.Contains(out, "Lettuce-001") {
		t.Errorf("expected per-plant detail line, got:\n%s", out)
	}
}
