// Package clock tracks simulated time in slices, hours and days.
package clock

import "github.com/gardensim/engine/internal/garden"

// Clock accumulates processed slices and converts them into hours of
// simulated time. An hour completes after SlicesPerHour slices; the
// caller decides what happens on the hour boundary.
type Clock struct {
	slicesIntoHour int
	hoursElapsed   int
}

func New() *Clock {
	return &Clock{}
}

// Reset rewinds the clock to the start of day zero.
func (c *Clock) Reset() {
	c.slicesIntoHour = 0
	c.hoursElapsed = 0
}

// ProcessSlices records n processed slices, capped at the number still
// remaining in the current hour. It returns how many were accepted.
func (c *Clock) ProcessSlices(n int) int {
	if n <= 0 {
		return 0
	}
	remaining := c.RemainingSlices()
	if n > remaining {
		n = remaining
	}
	c.slicesIntoHour += n
	return n
}

// IsHourComplete reports whether a full hour of slices has accumulated.
func (c *Clock) IsHourComplete() bool {
	return c.slicesIntoHour >= garden.SlicesPerHour
}

// AdvanceHour closes out the current hour. Any partial slice count is
// discarded, matching a manual hour advance.
func (c *Clock) AdvanceHour() {
	c.slicesIntoHour = 0
	c.hoursElapsed++
}

// RemainingSlices reports how many slices are left in the current hour.
func (c *Clock) RemainingSlices() int {
	return garden.SlicesPerHour - c.slicesIntoHour
}

// HourOfDay returns the current hour in [0,24).
func (c *Clock) HourOfDay() int {
	return c.hoursElapsed % garden.HoursPerDay
}

// HoursElapsed returns total simulated hours since reset.
func (c *Clock) HoursElapsed() int {
	return c.hoursElapsed
}

// IsDayBoundary reports whether the clock sits exactly on a day start.
func (c *Clock) IsDayBoundary() bool {
	return c.hoursElapsed > 0 && c.hoursElapsed%garden.HoursPerDay == 0 && c.slicesIntoHour == 0
}
