// internal/storage/gorm/gorm.go
package gormstore

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/gardensim/engine/internal/config"
	"github.com/gardensim/engine/internal/model"
	"github.com/gardensim/engine/internal/queue"
	"github.com/gardensim/engine/pkg/state"
)

const defaultFlushInterval = 5 * time.Second

// Backend persists run data through GORM. Records are queued and
// flushed in batches on a timer so the hot simulation path never waits
// on the database.
type Backend struct {
	db  *gorm.DB
	cfg config.GormConfig

	events      *queue.Queue[model.EventRecord]
	snapshots   *queue.Queue[model.SnapshotRecord]
	performance *queue.Queue[model.PerformanceRecord]

	mu       sync.Mutex
	run      *model.Run
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a GORM storage backend on an open database handle.
func New(db *gorm.DB, cfg config.GormConfig) *Backend {
	return &Backend{
		db:          db,
		cfg:         cfg,
		events:      queue.New[model.EventRecord](),
		snapshots:   queue.New[model.SnapshotRecord](),
		performance: queue.New[model.PerformanceRecord](),
	}
}

// Init migrates the schema and starts the flush loop.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("no database handle")
	}
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}

	interval := b.cfg.FlushInterval
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	b.stopChan = make(chan struct{})
	b.doneChan = make(chan struct{})
	go b.flushLoop(interval)
	return nil
}

// Close stops the flush loop and drains the queues.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
		<-b.doneChan
		b.stopChan = nil
	}
	return b.Flush()
}

// StartRun opens a new run row.
func (b *Backend) StartRun(run *state.RunInfo) error {
	rec := &model.Run{
		StartedAt:     run.StartedAt,
		ConfigPath:    run.ConfigPath,
		EngineVersion: run.EngineVersion,
		PlantCount:    run.PlantCount,
	}
	if err := b.db.Create(rec).Error; err != nil {
		return fmt.Errorf("creating run: %w", err)
	}
	run.ID = rec.ID

	b.mu.Lock()
	b.run = rec
	b.mu.Unlock()
	return nil
}

// EndRun flushes outstanding records and stamps the run's end time.
func (b *Backend) EndRun() error {
	b.mu.Lock()
	run := b.run
	b.mu.Unlock()
	if run == nil {
		return fmt.Errorf("no run in progress")
	}
	if err := b.Flush(); err != nil {
		return err
	}
	return b.db.Model(run).Update("ended_at", time.Now()).Error
}

// RecordEvent queues one garden history entry.
func (b *Backend) RecordEvent(ev state.Event) error {
	run := b.currentRun()
	if run == nil {
		return fmt.Errorf("no run in progress")
	}
	b.events.Push(model.EventRecord{
		RunID:       run.ID,
		Day:         ev.Day,
		EventType:   ev.Type,
		Description: ev.Description,
		Time:        ev.Time,
	})
	return nil
}

// RecordSnapshot queues one state snapshot.
func (b *Backend) RecordSnapshot(snap state.Snapshot) error {
	run := b.currentRun()
	if run == nil {
		return fmt.Errorf("no run in progress")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	b.snapshots.Push(model.SnapshotRecord{
		RunID:          run.ID,
		Day:            snap.Day,
		HoursElapsed:   snap.HoursElapsed,
		AirTemperature: snap.AirTemperature,
		SoilMoisture:   snap.Soil.Moisture,
		AlivePlants:    snap.AlivePlants,
		DeadPlants:     snap.DeadPlants,
		Payload:        payload,
	})
	return nil
}

// RecordPerformance queues one monitor sample.
func (b *Backend) RecordPerformance(p state.PerformanceSample) error {
	run := b.currentRun()
	if run == nil {
		return fmt.Errorf("no run in progress")
	}
	b.performance.Push(model.PerformanceRecord{
		Time:           p.Time,
		RunID:          run.ID,
		HoursElapsed:   p.HoursElapsed,
		SnapshotMicros: p.SnapshotMicros,
		Goroutines:     p.Goroutines,
		HeapAllocBytes: p.HeapAllocBytes,
	})
	return nil
}

// Flush writes everything queued so far in one batch per table. Failed
// batches go back on their queue for the next attempt.
func (b *Backend) Flush() error {
	if events := b.events.GetAndEmpty(); len(events) > 0 {
		if err := b.db.Create(&events).Error; err != nil {
			b.events.Push(events...)
			return fmt.Errorf("flushing events: %w", err)
		}
	}
	if snaps := b.snapshots.GetAndEmpty(); len(snaps) > 0 {
		if err := b.db.Create(&snaps).Error; err != nil {
			b.snapshots.Push(snaps...)
			return fmt.Errorf("flushing snapshots: %w", err)
		}
	}
	if perf := b.performance.GetAndEmpty(); len(perf) > 0 {
		if err := b.db.Create(&perf).Error; err != nil {
			b.performance.Push(perf...)
			return fmt.Errorf("flushing performance samples: %w", err)
		}
	}
	return nil
}

func (b *Backend) currentRun() *model.Run {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.run
}

func (b *Backend) flushLoop(interval time.Duration) {
	defer close(b.doneChan)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			// Transient errors requeue the batch; next tick retries.
			_ = b.Flush()
		case <-b.stopChan:
			return
		}
	}
}
