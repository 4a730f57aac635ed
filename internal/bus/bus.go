// Package bus fans simulation snapshots and log lines out to
// subscribers over buffered channels. Publishing never blocks and never
// re-enters the simulation: a subscriber that falls behind loses
// messages rather than stalling the engine.
package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/gardensim/engine/pkg/state"
)

// LogLine is one structured log entry mirrored onto the bus.
type LogLine struct {
	Tag     string
	Message string
	Level   string
	Time    time.Time
}

// Subscription is one subscriber's handle. Receive from States and
// Logs; call Bus.Unsubscribe when done. Both channels close on
// unsubscribe or bus close.
type Subscription struct {
	id     int
	States <-chan state.Snapshot
	Logs   <-chan LogLine
}

type subscriber struct {
	states chan state.Snapshot
	logs   chan LogLine
}

// Bus is the observer registry for one engine instance.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*subscriber
	nextID int
	closed bool

	published metric.Int64Counter
	dropped   metric.Int64Counter
	subGauge  metric.Int64ObservableGauge
}

const defaultBuffer = 64

// New creates a bus. Uses the global OTel meter for metrics (no-op if
// not configured).
func New() (*Bus, error) {
	b := &Bus{subs: make(map[int]*subscriber)}

	m := meter()
	var err error

	b.published, err = m.Int64Counter(
		"bus.messages.published",
		metric.WithDescription("Total messages fanned out to subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating published counter: %w", err)
	}

	b.dropped, err = m.Int64Counter(
		"bus.messages.dropped",
		metric.WithDescription("Total messages dropped on full subscriber buffers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	b.subGauge, err = m.Int64ObservableGauge(
		"bus.subscribers",
		metric.WithDescription("Current number of subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating subscriber gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			b.mu.RLock()
			defer b.mu.RUnlock()
			o.ObserveInt64(b.subGauge, int64(len(b.subs)))
			return nil
		},
		b.subGauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering subscriber gauge callback: %w", err)
	}

	return b, nil
}

// Subscribe registers a new subscriber with the given channel buffer
// size (0 means the default).
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	sub := &subscriber{
		states: make(chan state.Snapshot, buffer),
		logs:   make(chan LogLine, buffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.states)
		close(sub.logs)
		return &Subscription{id: -1, States: sub.states, Logs: sub.logs}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	return &Subscription{id: id, States: sub.states, Logs: sub.logs}
}

// Unsubscribe removes a subscriber and closes its channels.
func (b *Bus) Unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub, ok := b.subs[s.id]
	if !ok {
		return
	}
	delete(b.subs, s.id)
	close(sub.states)
	close(sub.logs)
}

// PublishState fans a snapshot out to every subscriber without
// blocking.
func (b *Bus) PublishState(snap state.Snapshot) {
	attr := metric.WithAttributes(attribute.String("kind", "state"))
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		select {
		case sub.states <- snap:
			b.published.Add(context.Background(), 1, attr)
		default:
			b.dropped.Add(context.Background(), 1, attr)
		}
	}
}

// PublishLog fans a log line out to every subscriber without blocking.
func (b *Bus) PublishLog(line LogLine) {
	attr := metric.WithAttributes(attribute.String("kind", "log"))
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		select {
		case sub.logs <- line:
			b.published.Add(context.Background(), 1, attr)
		default:
			b.dropped.Add(context.Background(), 1, attr)
		}
	}
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.states)
		close(sub.logs)
	}
}
