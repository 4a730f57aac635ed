package gormstore

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gardensim/engine/internal/config"
	"github.com/gardensim/engine/internal/model"
	"github.com/gardensim/engine/pkg/state"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := New(openTestDB(t), config.GormConfig{FlushInterval: time.Hour})
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func TestStartRunAssignsID(t *testing.T) {
	b := newTestBackend(t)
	run := &state.RunInfo{StartedAt: time.Now(), EngineVersion: "test", PlantCount: 4}
	require.NoError(t, b.StartRun(run))
	assert.NotZero(t, run.ID)
}

func TestRecordsFlushInBatches(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.StartRun(&state.RunInfo{StartedAt: time.Now()}))

	for i := 0; i < 5; i++ {
		require.NoError(t, b.RecordEvent(state.Event{Day: 0, Type: "rain", Description: "rainfall", Time: time.Now()}))
	}
	require.NoError(t, b.RecordSnapshot(state.Snapshot{
		Version:      state.SnapshotVersion,
		Day:          1,
		HoursElapsed: 24,
		AlivePlants:  3,
		TotalPlants:  4,
		DeadPlants:   1,
	}))

	// Nothing hits the database until a flush.
	var count int64
	b.db.Model(&model.EventRecord{}).Count(&count)
	assert.Zero(t, count)

	require.NoError(t, b.Flush())
	b.db.Model(&model.EventRecord{}).Count(&count)
	assert.EqualValues(t, 5, count)

	var snap model.SnapshotRecord
	require.NoError(t, b.db.First(&snap).Error)
	assert.Equal(t, 24, snap.HoursElapsed)
	assert.NotEmpty(t, snap.Payload)
}

func TestRecordWithoutRunFails(t *testing.T) {
	b := newTestBackend(t)
	assert.Error(t, b.RecordEvent(state.Event{Type: "rain"}))
	assert.Error(t, b.RecordSnapshot(state.Snapshot{}))
	assert.Error(t, b.RecordPerformance(state.PerformanceSample{}))
}

func TestEndRunStampsEndTime(t *testing.T) {
	b := newTestBackend(t)
	run := &state.RunInfo{StartedAt: time.Now()}
	require.NoError(t, b.StartRun(run))
	require.NoError(t, b.RecordPerformance(state.PerformanceSample{Time: time.Now(), SnapshotMicros: 90}))
	require.NoError(t, b.EndRun())

	var stored model.Run
	require.NoError(t, b.db.First(&stored, run.ID).Error)
	assert.False(t, stored.EndedAt.IsZero())

	var perf int64
	b.db.Model(&model.PerformanceRecord{}).Count(&perf)
	assert.EqualValues(t, 1, perf)
}
