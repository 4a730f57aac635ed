// internal/storage/storage.go
package storage

import "github.com/gardensim/engine/pkg/state"

// Backend is the interface all run-recording implementations must
// satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Run management
	StartRun(run *state.RunInfo) error
	EndRun() error

	// Recording
	RecordEvent(ev state.Event) error
	RecordSnapshot(snap state.Snapshot) error
	RecordPerformance(p state.PerformanceSample) error
}

// Exportable is an optional interface for backends that produce a
// run-archive file on EndRun.
type Exportable interface {
	ExportedFilePath() string
}

// UploadMetadata describes an exported run archive for the dashboard
// upload form.
type UploadMetadata struct {
	RunName       string
	EngineVersion string
	DaysSimulated int
	PlantCount    int
	Tag           string
}
