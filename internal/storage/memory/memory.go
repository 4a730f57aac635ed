// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"

	"github.com/gardensim/engine/internal/config"
	"github.com/gardensim/engine/pkg/state"
)

// Backend stores run data in memory and exports to JSON when the run
// ends.
type Backend struct {
	cfg config.MemoryConfig
	run *state.RunInfo

	events      []state.Event
	snapshots   []state.Snapshot
	performance []state.PerformanceSample

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartRun begins recording a new run.
func (b *Backend) StartRun(run *state.RunInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.run = run
	b.events = nil
	b.snapshots = nil
	b.performance = nil
	return nil
}

// EndRun finalizes and exports the run data.
func (b *Backend) EndRun() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.run == nil {
		return fmt.Errorf("no run in progress")
	}
	return b.exportJSON()
}

// RecordEvent appends one garden history entry.
func (b *Backend) RecordEvent(ev state.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, ev)
	return nil
}

// RecordSnapshot appends one state snapshot.
func (b *Backend) RecordSnapshot(snap state.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.snapshots = append(b.snapshots, snap)
	return nil
}

// RecordPerformance appends one monitor sample.
func (b *Backend) RecordPerformance(p state.PerformanceSample) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.performance = append(b.performance, p)
	return nil
}

// ExportedFilePath returns the path of the last exported run archive.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// EventCount reports recorded events, for tests and status reporting.
func (b *Backend) EventCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.events)
}

// SnapshotCount reports recorded snapshots.
func (b *Backend) SnapshotCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.snapshots)
}
