package clock

import (
	"testing"

	"github.com/gardensim/engine/internal/garden"
)

func TestProcessSlicesCapsAtHour(t *testing.T) {
	c := New()
	if got := c.ProcessSlices(10); got != garden.SlicesPerHour {
		t.Fatalf("accepted %d slices, want cap of %d", got, garden.SlicesPerHour)
	}
	if !c.IsHourComplete() {
		t.Fatal("hour should be complete after a full hour of slices")
	}
}

func TestAdvanceHourRollsOver(t *testing.T) {
	c := New()
	c.ProcessSlices(garden.SlicesPerHour)
	c.AdvanceHour()
	if c.HoursElapsed() != 1 {
		t.Fatalf("hoursElapsed = %d, want 1", c.HoursElapsed())
	}
	if c.IsHourComplete() {
		t.Fatal("new hour should start empty")
	}
	if c.RemainingSlices() != garden.SlicesPerHour {
		t.Fatalf("remaining = %d, want full hour", c.RemainingSlices())
	}
}

func TestHourOfDayWraps(t *testing.T) {
	c := New()
	for i := 0; i < 25; i++ {
		c.AdvanceHour()
	}
	if got := c.HourOfDay(); got != 1 {
		t.Fatalf("hourOfDay = %d, want 1 after 25 hours", got)
	}
}

func TestIsDayBoundary(t *testing.T) {
	c := New()
	if c.IsDayBoundary() {
		t.Fatal("fresh clock is not a day boundary")
	}
	for i := 0; i < garden.HoursPerDay; i++ {
		c.AdvanceHour()
	}
	if !c.IsDayBoundary() {
		t.Fatal("24 elapsed hours should be a day boundary")
	}
	c.ProcessSlices(1)
	if c.IsDayBoundary() {
		t.Fatal("partial hour is past the day boundary")
	}
}

func TestResetRewinds(t *testing.T) {
	c := New()
	c.ProcessSlices(3)
	c.AdvanceHour()
	c.Reset()
	if c.HoursElapsed() != 0 || c.RemainingSlices() != garden.SlicesPerHour {
		t.Fatal("reset did not rewind the clock")
	}
}
