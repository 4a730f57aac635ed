package memory

import (
	"compress/gzip"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardensim/engine/internal/config"
	"github.com/gardensim/engine/pkg/state"
)

func testRun() *state.RunInfo {
	return &state.RunInfo{
		ID:            1,
		StartedAt:     time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		EngineVersion: "test",
		PlantCount:    8,
	}
}

func TestRecordAndExport(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: false})
	require.NoError(t, b.Init())

	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordEvent(state.Event{Day: 0, Type: "rain", Description: "rainfall of 10 units"}))
	require.NoError(t, b.RecordSnapshot(state.Snapshot{Version: state.SnapshotVersion, Day: 0, AlivePlants: 8, TotalPlants: 8}))
	require.NoError(t, b.RecordSnapshot(state.Snapshot{Version: state.SnapshotVersion, Day: 1, AlivePlants: 7, DeadPlants: 1, TotalPlants: 8}))
	require.NoError(t, b.RecordPerformance(state.PerformanceSample{SnapshotMicros: 120}))

	require.NoError(t, b.EndRun())
	path := b.ExportedFilePath()
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export RunExport
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Len(t, export.Events, 1)
	assert.Len(t, export.Snapshots, 2)
	assert.Len(t, export.Performance, 1)
	require.NotNil(t, export.FinalSnapshot)
	assert.Equal(t, 1, export.FinalSnapshot.Day)
}

func TestCompressedExport(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})

	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordSnapshot(state.Snapshot{Version: state.SnapshotVersion}))
	require.NoError(t, b.EndRun())

	f, err := os.Open(b.ExportedFilePath())
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gz.Close()

	var export RunExport
	require.NoError(t, json.NewDecoder(gz).Decode(&export))
	assert.Equal(t, uint(1), export.Run.ID)
}

func TestEndRunWithoutStartFails(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	assert.Error(t, b.EndRun())
}

func TestStartRunResetsCollections(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.StartRun(testRun()))
	require.NoError(t, b.RecordEvent(state.Event{Type: "rain"}))
	require.NoError(t, b.StartRun(testRun()))
	assert.Equal(t, 0, b.EventCount())
	assert.Equal(t, 0, b.SnapshotCount())
}
