package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardensim/engine/pkg/state"
)

func TestSnapshotPoints(t *testing.T) {
	snap := state.Snapshot{
		Version:        state.SnapshotVersion,
		Day:            2,
		AirTemperature: 68,
		AlivePlants:    3,
		TotalPlants:    4,
		DeadPlants:     1,
		Plants: []state.PlantStatus{
			{Name: "Rose-001", Type: "Rose", Health: 88.5, Water: 9, Alive: true},
			{Name: "Rose-002", Type: "Rose", Health: 0, Alive: false},
		},
	}
	snap.Soil.Moisture = 55
	snap.Weather.Condition = "sunny"

	points := SnapshotPoints(snap, time.Now())
	// garden + soil + one per plant
	require.Len(t, points, 4)
	assert.Equal(t, "garden", points[0].Name())
	assert.Equal(t, "soil", points[1].Name())
	assert.Equal(t, "plant", points[2].Name())
}

func TestEventPoint(t *testing.T) {
	p := EventPoint(state.Event{Day: 1, Type: "rain", Description: "rainfall of 10 units", Time: time.Now()})
	assert.Equal(t, "event", p.Name())
	require.Len(t, p.TagList(), 1)
	assert.Equal(t, "rain", p.TagList()[0].Value)
}

func TestPerformancePoint(t *testing.T) {
	p := PerformancePoint(state.PerformanceSample{Time: time.Now(), SnapshotMicros: 150, Goroutines: 12})
	assert.Equal(t, "engine", p.Name())
}
