// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gardensim/engine/pkg/state"
)

// RunExport is the root JSON structure of an exported run archive.
type RunExport struct {
	Run           state.RunInfo             `json:"run"`
	Events        []state.Event             `json:"events"`
	Snapshots     []state.Snapshot          `json:"snapshots"`
	Performance   []state.PerformanceSample `json:"performance"`
	FinalSnapshot *state.Snapshot           `json:"finalSnapshot,omitempty"`
}

// exportJSON writes the run data to a (gzipped) JSON file. Caller holds
// the mutex.
func (b *Backend) exportJSON() error {
	export := RunExport{
		Run:         *b.run,
		Events:      b.events,
		Snapshots:   b.snapshots,
		Performance: b.performance,
	}
	if n := len(b.snapshots); n > 0 {
		export.FinalSnapshot = &b.snapshots[n-1]
	}

	timestamp := b.run.StartedAt.Format("20060102_150405")
	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("run_%s.json.gz", timestamp)
	} else {
		filename = fmt.Sprintf("run_%s.json", timestamp)
	}
	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := b.writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := b.writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.lastExportPath = outputPath
	return nil
}

func (b *Backend) writeJSON(path string, export RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func (b *Backend) writeGzipJSON(path string, export RunExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	defer gz.Close()

	enc := json.NewEncoder(gz)
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}
