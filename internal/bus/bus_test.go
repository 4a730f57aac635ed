package bus

import (
	"testing"

	"github.com/gardensim/engine/pkg/state"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()

	a := b.Subscribe(4)
	c := b.Subscribe(4)

	b.PublishState(state.Snapshot{Day: 3})
	for _, sub := range []*Subscription{a, c} {
		snap := <-sub.States
		if snap.Day != 3 {
			t.Fatalf("snapshot day = %d, want 3", snap.Day)
		}
	}
}

func TestPublishNeverBlocksOnFullBuffer(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()

	sub := b.Subscribe(1)
	// Fill the buffer and keep publishing; the extra messages drop.
	for i := 0; i < 10; i++ {
		b.PublishState(state.Snapshot{Day: i})
	}
	snap := <-sub.States
	if snap.Day != 0 {
		t.Fatalf("first buffered snapshot day = %d, want 0", snap.Day)
	}
	select {
	case extra, ok := <-sub.States:
		if ok {
			t.Fatalf("unexpected second snapshot for day %d", extra.Day)
		}
	default:
	}
}

func TestUnsubscribeClosesChannels(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()

	sub := b.Subscribe(1)
	b.Unsubscribe(sub)
	if _, ok := <-sub.States; ok {
		t.Fatal("states channel still open after unsubscribe")
	}
	if _, ok := <-sub.Logs; ok {
		t.Fatal("logs channel still open after unsubscribe")
	}
	// Publishing after unsubscribe must not panic.
	b.PublishLog(LogLine{Tag: "test", Message: "late"})
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sub := b.Subscribe(1)
	b.Close()
	if _, ok := <-sub.States; ok {
		t.Fatal("states channel open after close")
	}
	late := b.Subscribe(1)
	if _, ok := <-late.States; ok {
		t.Fatal("subscription on a closed bus should be dead on arrival")
	}
}
