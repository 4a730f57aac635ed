package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/internal/storage"
	"github.com/gardensim/engine/internal/telemetry"
	"github.com/gardensim/engine/pkg/state"
)

// StateProvider is the slice of the engine API the monitor samples from.
type StateProvider interface {
	GetState() (state.Snapshot, error)
	GetHoursElapsed() (int, error)
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Engine     StateProvider
	Storage    storage.Backend
	Influx     *telemetry.Manager
	LogManager *logging.SlogManager
	StatusDir  string
	Interval   time.Duration
}

// Service samples engine health on a fixed interval: snapshot latency,
// goroutine count, and heap usage. Samples go to the storage backend and,
// when configured, to InfluxDB. The latest sample is also mirrored to a
// status file for quick inspection without a database.
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	return &Service{
		deps:     deps,
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Sample takes one performance measurement. The snapshot call is timed
// because it walks the whole garden under the engine mutex, so its latency
// is a good proxy for how loaded the engine is.
func (s *Service) Sample() (state.PerformanceSample, error) {
	start := time.Now()
	if _, err := s.deps.Engine.GetState(); err != nil {
		return state.PerformanceSample{}, err
	}
	elapsed := time.Since(start)

	hours, err := s.deps.Engine.GetHoursElapsed()
	if err != nil {
		return state.PerformanceSample{}, err
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return state.PerformanceSample{
		Time:           time.Now(),
		HoursElapsed:   hours,
		SnapshotMicros: elapsed.Microseconds(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: mem.HeapAlloc,
	}, nil
}

func (s *Service) record(sample state.PerformanceSample) {
	logger := s.deps.LogManager.Logger()

	if s.deps.Storage != nil {
		if err := s.deps.Storage.RecordPerformance(sample); err != nil {
			logger.Error("Error recording performance sample", "error", err)
		}
	}
	if s.deps.Influx != nil {
		point := telemetry.PerformancePoint(sample)
		if err := s.deps.Influx.WritePoint(context.Background(), telemetry.BucketPerformance, point); err != nil {
			logger.Error("Error writing performance point", "error", err)
		}
	}
}

func (s *Service) writeStatusFile(f *os.File, sample state.PerformanceSample) {
	if f == nil {
		return
	}
	body, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		body = []byte(fmt.Sprintf(`{"error": "%s"}`, err))
	}
	f.Truncate(0)
	f.Seek(0, 0)
	f.Write(body)
	f.WriteString("\n")
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		logger := s.deps.LogManager.Logger()
		logger.Debug("Starting status monitor goroutine", "function", "startStatusMonitor")

		var statusFile *os.File
		if s.deps.StatusDir != "" {
			var err error
			statusFile, err = os.Create(filepath.Join(s.deps.StatusDir, "status.json"))
			if err != nil {
				logger.Error("Error creating status file", "error", err)
			}
		}
		defer func() {
			if statusFile != nil {
				statusFile.Close()
			}
		}()

		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				return
			case <-ticker.C:
				sample, err := s.Sample()
				if err != nil {
					// engine not initialized yet
					continue
				}
				s.record(sample)
				s.writeStatusFile(statusFile, sample)
			}
		}
	}()

	return nil
}

// Stop stops the status monitor
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
