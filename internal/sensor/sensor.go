// Package sensor implements the feedback controller that reads state
// snapshots and commands the actuator modules. Three independent
// hysteresis loops with distinct trigger and recovery thresholds keep
// the actuators from chattering around a single setpoint.
package sensor

import (
	"fmt"
	"math"

	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/internal/modules"
	"github.com/gardensim/engine/pkg/state"
)

// Irrigation loop thresholds.
const (
	moistureTriggerPct   = 25.0
	moistureRecoveryPct  = 45.0
	criticalRatio        = 0.25
	criticalFractionGate = 0.35
	ratioRecovery        = 0.75

	irrigationMinIntensity = 35
	irrigationMaxIntensity = 100
)

// Heating loop thresholds, in °F.
const (
	coldTriggerTemp  = 52
	warmRecoveryTemp = 60
	minHeatingTarget = 65

	heatingMinIntensity = 40
	heatingMaxIntensity = 100
)

// Default pest sweep spacing in simulated hours.
const defaultSweepCooldownHours = 2

// Controller evaluates snapshots and actuates modules. It runs after
// every state-mutating call, never on its own timer, so it must be
// cheap and must not block.
type Controller struct {
	manager *modules.Manager
	log     *logging.SlogManager

	sweepCooldownHours    int
	nextSweepEligibleHour int
	sweepScheduled        bool
	pestsClear            bool
	pestsClearHour        int
}

func NewController(manager *modules.Manager, log *logging.SlogManager) *Controller {
	return &Controller{manager: manager, log: log, sweepCooldownHours: defaultSweepCooldownHours}
}

// SetSweepCooldown overrides the pest sweep spacing. Non-positive values
// are ignored.
func (c *Controller) SetSweepCooldown(hours int) {
	if hours > 0 {
		c.sweepCooldownHours = hours
	}
}

// Reset clears cooldown state between runs.
func (c *Controller) Reset() {
	c.nextSweepEligibleHour = 0
	c.sweepScheduled = false
	c.pestsClear = false
	c.pestsClearHour = 0
}

// EvaluateAndAct runs all three control loops against one snapshot and
// reports whether any module acted. Actuation mutates garden state, so
// the caller must re-snapshot afterwards when it returned true.
func (c *Controller) EvaluateAndAct(snap state.Snapshot, hoursElapsed int) bool {
	acted := c.evaluateIrrigation(snap)
	acted = c.evaluateHeating(snap) || acted
	acted = c.evaluatePests(snap, hoursElapsed) || acted
	return acted
}

func (c *Controller) evaluateIrrigation(snap state.Snapshot) bool {
	stats := waterStats(snap)
	irrigation := c.manager.Irrigation()
	moisture := snap.Soil.Moisture

	if !irrigation.IsActive() {
		soilDry := moisture < moistureTriggerPct
		if !soilDry && stats.criticalFraction < criticalFractionGate && stats.minRatio >= criticalRatio {
			return false
		}
		deficit := 10.0
		if soilDry {
			deficit = moistureTriggerPct - moisture
		}
		intensity := clamp(int(math.Round(deficit*4))+35, irrigationMinIntensity, irrigationMaxIntensity)

		severity := 0.8
		if stats.alive > 0 {
			severity = math.Min(1.0, math.Max(0.4, 1.0-stats.avgRatio+0.25))
		}
		pulse := int(math.Round(severity * float64(maxRequirement(snap))))

		irrigation.SetIntensity(intensity)
		irrigation.Activate()
		if pulse > 0 {
			irrigation.Deliver(pulse)
		}
		c.logf("dry conditions (moisture %.1f%%, avg ratio %.2f): irrigation on at %d%%, pulse %d",
			moisture, stats.avgRatio, intensity, pulse)
		return true
	}

	if moisture >= moistureRecoveryPct && stats.avgRatio >= ratioRecovery {
		irrigation.Deactivate()
		c.logf("moisture recovered to %.1f%%: irrigation off", moisture)
		return true
	}
	return false
}

func (c *Controller) evaluateHeating(snap state.Snapshot) bool {
	heating := c.manager.Heating()
	temp := snap.AirTemperature

	if !heating.IsActive() {
		if temp >= coldTriggerTemp {
			return false
		}
		intensity := clamp((coldTriggerTemp-temp)*6+40, heatingMinIntensity, heatingMaxIntensity)
		target := temp + 5
		if target < minHeatingTarget {
			target = minHeatingTarget
		}
		heating.SetIntensity(intensity)
		heating.SetTarget(target)
		heating.Activate()
		c.logf("cold snap at %d°F: heating on at %d%%, target %d°F", temp, intensity, target)
		return true
	}

	if temp >= warmRecoveryTemp {
		heating.Deactivate()
		c.logf("temperature recovered to %d°F: heating off", temp)
		return true
	}
	return false
}

func (c *Controller) evaluatePests(snap state.Snapshot, hoursElapsed int) bool {
	pestControl := c.manager.PestControl()

	if len(snap.Soil.Pests) == 0 {
		if !pestControl.IsActive() {
			c.pestsClear = false
			return false
		}
		// Stay active until pests have been absent for a full cooldown
		// interval, so a reinfestation right after a sweep is handled
		// without re-triggering.
		if !c.pestsClear {
			c.pestsClear = true
			c.pestsClearHour = hoursElapsed
			return false
		}
		if hoursElapsed-c.pestsClearHour >= c.sweepCooldownHours {
			pestControl.Deactivate()
			c.logf("pests clear for %d hours: pest control off", hoursElapsed-c.pestsClearHour)
			return true
		}
		return false
	}

	c.pestsClear = false
	acted := false
	if !pestControl.IsActive() {
		pestControl.Activate()
		acted = true
	}
	if c.sweepScheduled && hoursElapsed < c.nextSweepEligibleHour {
		return acted
	}
	swept := pestControl.Sweep()
	c.nextSweepEligibleHour = hoursElapsed + c.sweepCooldownHours
	c.sweepScheduled = true
	c.logf("pest sweep treated %d species", swept)
	return true
}

type stats struct {
	alive            int
	avgRatio         float64
	minRatio         float64
	criticalFraction float64
}

func waterStats(snap state.Snapshot) stats {
	s := stats{minRatio: math.MaxFloat64}
	sum := 0.0
	critical := 0
	for _, p := range snap.Plants {
		if !p.Alive || p.WaterRequirement <= 0 {
			continue
		}
		ratio := float64(p.Water) / float64(p.WaterRequirement)
		sum += ratio
		if ratio < s.minRatio {
			s.minRatio = ratio
		}
		if ratio < criticalRatio {
			critical++
		}
		s.alive++
	}
	if s.alive == 0 {
		s.minRatio = 1
		s.avgRatio = 1
		return s
	}
	s.avgRatio = sum / float64(s.alive)
	s.criticalFraction = float64(critical) / float64(s.alive)
	return s
}

func maxRequirement(snap state.Snapshot) int {
	max := 0
	for _, p := range snap.Plants {
		if p.Alive && p.WaterRequirement > max {
			max = p.WaterRequirement
		}
	}
	return max
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (c *Controller) logf(format string, args ...any) {
	if c.log != nil {
		c.log.WriteLog("sensor", fmt.Sprintf(format, args...), "info")
	}
}
