package monitor

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/pkg/state"
)

type fakeEngine struct {
	hours int
	err   error
}

func (f *fakeEngine) GetState() (state.Snapshot, error) {
	if f.err != nil {
		return state.Snapshot{}, f.err
	}
	return state.Snapshot{Version: 1, HoursElapsed: f.hours}, nil
}

func (f *fakeEngine) GetHoursElapsed() (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.hours, nil
}

type recordingBackend struct {
	mu      sync.Mutex
	samples []state.PerformanceSample
}

func (r *recordingBackend) Init() error                              { return nil }
func (r *recordingBackend) Close() error                             { return nil }
func (r *recordingBackend) StartRun(run *state.RunInfo) error        { return nil }
func (r *recordingBackend) EndRun() error                            { return nil }
func (r *recordingBackend) RecordEvent(ev state.Event) error         { return nil }
func (r *recordingBackend) RecordSnapshot(snap state.Snapshot) error { return nil }

func (r *recordingBackend) RecordPerformance(p state.PerformanceSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, p)
	return nil
}

func (r *recordingBackend) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func TestSample(t *testing.T) {
	svc := NewService(Dependencies{
		Engine:     &fakeEngine{hours: 7},
		LogManager: logging.NewSlogManager(),
	})

	sample, err := svc.Sample()
	require.NoError(t, err)
	assert.Equal(t, 7, sample.HoursElapsed)
	assert.Greater(t, sample.Goroutines, 0)
	assert.Greater(t, sample.HeapAllocBytes, uint64(0))
	assert.False(t, sample.Time.IsZero())
}

func TestSampleEngineError(t *testing.T) {
	svc := NewService(Dependencies{
		Engine:     &fakeEngine{err: errors.New("not initialized")},
		LogManager: logging.NewSlogManager(),
	})

	_, err := svc.Sample()
	assert.Error(t, err)
}

func TestStartRecordsSamples(t *testing.T) {
	backend := &recordingBackend{}
	dir := t.TempDir()

	svc := NewService(Dependencies{
		Engine:     &fakeEngine{hours: 3},
		Storage:    backend,
		LogManager: logging.NewSlogManager(),
		StatusDir:  dir,
		Interval:   10 * time.Millisecond,
	})

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())

	deadline := time.Now().Add(2 * time.Second)
	for backend.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	svc.Stop()

	require.GreaterOrEqual(t, backend.count(), 2)

	body, err := os.ReadFile(filepath.Join(dir, "status.json"))
	require.NoError(t, err)
	assert.Contains(t, string(body), "hoursElapsed")
}

func TestStartIsIdempotent(t *testing.T) {
	svc := NewService(Dependencies{
		Engine:     &fakeEngine{hours: 1},
		LogManager: logging.NewSlogManager(),
		Interval:   time.Hour,
	})

	require.NoError(t, svc.Start())
	require.NoError(t, svc.Start())
	svc.Stop()
}
