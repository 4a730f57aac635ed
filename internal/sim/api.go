// Package sim exposes the public simulation surface: one mutex-guarded
// API per garden instance. All mutating and snapshot-producing calls
// serialize on the mutex; observer notification happens strictly
// outside it so a subscriber calling back into the API cannot deadlock.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gardensim/engine/internal/autoevent"
	"github.com/gardensim/engine/internal/bus"
	"github.com/gardensim/engine/internal/clock"
	"github.com/gardensim/engine/internal/garden"
	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/internal/modules"
	"github.com/gardensim/engine/internal/sensor"
	"github.com/gardensim/engine/internal/weather"
	"github.com/gardensim/engine/pkg/state"
)

// ErrUninitialized is returned by every simulation call made before
// InitializeGarden.
var ErrUninitialized = errors.New("garden not initialized")

// PlantSpec asks for a number of instances of one registered type.
type PlantSpec struct {
	Type  string
	Count int
}

const defaultInstancesPerType = 2

// Options configures an API instance. Zero values fall back to stock
// tuning.
type Options struct {
	Log *logging.SlogManager
	Bus *bus.Bus

	// Templates to register; empty means the built-in set.
	Templates []garden.PlantTemplate
	// Plan lays out the initial roster; empty means two of each
	// registered type.
	Plan []PlantSpec

	Stress           garden.StressConfig
	Absorption       garden.AbsorptionConfig
	AutoEvents       autoevent.Config
	HazardMultiplier float64

	// PestSweepCooldownHours spaces controller pest sweeps; zero keeps
	// the stock spacing.
	PestSweepCooldownHours int

	// Seed for the random source; zero derives one from the wall
	// clock.
	Seed int64
}

// API is the simulation engine's public surface. Construct one per
// garden; there is no process-wide instance.
type API struct {
	mu sync.Mutex

	log *logging.SlogManager
	bus *bus.Bus

	garden     *garden.Garden
	clock      *clock.Clock
	telemetry  *weather.Telemetry
	scheduler  *autoevent.Scheduler
	manager    *modules.Manager
	controller *sensor.Controller
	processor  *sliceProcessor

	opts             Options
	hazardMultiplier float64
	autoEvents       bool
	initialized      bool

	publishedEvents int
	lastSnap        state.Snapshot

	// Mirrored clock state for the log context provider, which runs
	// inside logging calls and must not take the engine mutex.
	ctxDay  atomic.Int64
	ctxHour atomic.Int64
}

// New builds an API from the options. The garden stays empty until
// InitializeGarden.
func New(opts Options) *API {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	hazard := opts.HazardMultiplier
	if hazard == 0 {
		hazard = garden.DefaultHazardMultiplier
	}
	autoCfg := opts.AutoEvents
	if autoCfg == (autoevent.Config{}) {
		autoCfg = autoevent.DefaultConfig()
	}

	g := garden.New(garden.Dependencies{Log: opts.Log})
	if opts.Stress != (garden.StressConfig{}) || opts.Absorption != (garden.AbsorptionConfig{}) {
		stress := opts.Stress
		if stress == (garden.StressConfig{}) {
			stress = garden.DefaultStressConfig()
		}
		absorption := opts.Absorption
		if absorption == (garden.AbsorptionConfig{}) {
			absorption = garden.DefaultAbsorptionConfig()
		}
		g.SetTuning(stress, absorption)
	}

	model := weather.NewModel(rng)
	a := &API{
		log:              opts.Log,
		bus:              opts.Bus,
		garden:           g,
		clock:            clock.New(),
		telemetry:        weather.NewTelemetry(),
		scheduler:        autoevent.New(autoCfg, model, rng),
		opts:             opts,
		hazardMultiplier: hazard,
		autoEvents:       true,
	}
	a.manager = modules.NewManager(g, opts.Log, hazard)
	a.controller = sensor.NewController(a.manager, opts.Log)
	a.controller.SetSweepCooldown(opts.PestSweepCooldownHours)
	a.processor = &sliceProcessor{
		garden:           g,
		scheduler:        a.scheduler,
		telemetry:        a.telemetry,
		clock:            a.clock,
		hazardMultiplier: hazard,
	}
	if opts.Log != nil {
		opts.Log.SetContextProvider(func() []slog.Attr {
			return []slog.Attr{
				slog.Int64("simDay", a.ctxDay.Load()),
				slog.Int64("simHour", a.ctxHour.Load()),
			}
		})
	}
	return a
}

// InitializeGarden registers templates, plants the initial roster and
// arms the simulation. Calling it again resets and replants.
func (a *API) InitializeGarden() error {
	a.mu.Lock()

	a.garden.Reset()
	a.clock.Reset()
	a.scheduler.Reset()
	a.controller.Reset()
	a.telemetry = weather.NewTelemetry()
	a.processor.telemetry = a.telemetry
	a.publishedEvents = 0
	a.lastSnap = state.Snapshot{}

	if len(a.opts.Templates) > 0 {
		for _, tpl := range a.opts.Templates {
			a.garden.RegisterTemplate(tpl)
		}
	} else {
		a.garden.RegisterDefaultTemplates()
	}

	plan := a.opts.Plan
	if len(plan) == 0 {
		for _, typeName := range a.garden.TemplateTypes() {
			plan = append(plan, PlantSpec{Type: typeName, Count: defaultInstancesPerType})
		}
	}
	for _, spec := range plan {
		count := spec.Count
		if count <= 0 {
			count = defaultInstancesPerType
		}
		for i := 1; i <= count; i++ {
			name := fmt.Sprintf("%s-%03d", spec.Type, i)
			if _, err := a.garden.PlantNew(name, spec.Type); err != nil {
				// Unknown types are logged and skipped, not fatal.
				continue
			}
		}
	}

	a.initialized = true
	snap, events := a.afterMutationLocked()
	a.mu.Unlock()

	a.publish(snap, events)
	return nil
}

// Rain applies a rainfall event. The amount is clamped into the
// plant-driven bounds; the applied amount is returned.
func (a *API) Rain(amount int) (int, error) {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return 0, ErrUninitialized
	}
	applied, _ := a.garden.ClampRainfall(amount, a.hazardMultiplier)
	a.garden.ApplyRainfall(applied)
	a.telemetry.RecordRainfall(applied, a.clock.HoursElapsed())
	snap, events := a.afterMutationLocked()
	a.mu.Unlock()

	a.publish(snap, events)
	return applied, nil
}

// Temperature applies an air temperature event. Out-of-range values
// are rejected with ErrInvalidTemperature and no state change.
func (a *API) Temperature(degreesF int) error {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return ErrUninitialized
	}
	if err := a.garden.ApplyTemperature(degreesF); err != nil {
		a.mu.Unlock()
		return err
	}
	a.telemetry.RecordTemperature(degreesF)
	snap, events := a.afterMutationLocked()
	a.mu.Unlock()

	a.publish(snap, events)
	return nil
}

// Parasite introduces a parasite infestation by name.
func (a *API) Parasite(name string) error {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return ErrUninitialized
	}
	sanitized := modules.SanitizeParasiteName(name)
	if sanitized == "" {
		a.mu.Unlock()
		if a.log != nil {
			a.log.WriteLog("PARASITE", "ignoring parasite event with empty name", "WARN")
		}
		return nil
	}
	a.garden.TriggerParasiteInfestation(sanitized)
	snap, events := a.afterMutationLocked()
	a.mu.Unlock()

	a.publish(snap, events)
	return nil
}

// AdvanceHourManually burns the rest of the current hour without auto
// events and closes it out.
func (a *API) AdvanceHourManually() error {
	return a.advanceHour(false)
}

// AdvanceHourAutomatically burns the rest of the current hour with auto
// events rolling each slice, then closes it out.
func (a *API) AdvanceHourAutomatically() error {
	return a.advanceHour(true)
}

func (a *API) advanceHour(auto bool) error {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return ErrUninitialized
	}
	for a.clock.RemainingSlices() > 0 {
		a.processor.processSlice(auto && a.autoEvents)
	}
	a.completeHourLocked()
	snap, events := a.afterMutationLocked()
	a.mu.Unlock()

	a.publish(snap, events)
	return nil
}

// ProcessAutoSlices advances up to n slices with auto events, closing
// out hours and days as they complete. It returns a human-readable
// summary of what fired, for logging only.
func (a *API) ProcessAutoSlices(n int) (string, error) {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return "", ErrUninitialized
	}
	var summary []string
	for i := 0; i < n; i++ {
		if fired := a.processor.processSlice(a.autoEvents); fired != "" {
			summary = append(summary, fired)
		}
		if a.clock.IsHourComplete() {
			a.completeHourLocked()
		}
	}
	snap, events := a.afterMutationLocked()
	a.mu.Unlock()

	a.publish(snap, events)
	return strings.Join(summary, "; "), nil
}

// completeHourLocked rolls the clock over an hour boundary, runs one
// effect tick on the active modules, and runs the daily step when a day
// completes.
func (a *API) completeHourLocked() {
	a.clock.AdvanceHour()
	a.manager.UpdateAll()
	if a.clock.HoursElapsed()%garden.HoursPerDay == 0 {
		a.garden.AdvanceDay()
	}
}

// GetState returns the current snapshot.
func (a *API) GetState() (state.Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return state.Snapshot{}, ErrUninitialized
	}
	snap := a.snapshotLocked()
	a.logStateReport(snap)
	return snap, nil
}

// CurrentState is an alias for GetState.
func (a *API) CurrentState() (state.Snapshot, error) {
	return a.GetState()
}

// GetPlants returns the plant section of the current snapshot.
func (a *API) GetPlants() ([]state.PlantStatus, error) {
	snap, err := a.GetState()
	if err != nil {
		return nil, err
	}
	return snap.Plants, nil
}

// GetMinWaterRequirement returns the smallest daily plant requirement.
func (a *API) GetMinWaterRequirement() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return 0, ErrUninitialized
	}
	return a.garden.MinWaterRequirement(), nil
}

// GetMaxWaterRequirement returns the largest daily plant requirement.
func (a *API) GetMaxWaterRequirement() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return 0, ErrUninitialized
	}
	return a.garden.MaxWaterRequirement(), nil
}

// GetMaxRainfallAllowance returns the hard rainfall ceiling.
func (a *API) GetMaxRainfallAllowance() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return 0, ErrUninitialized
	}
	return a.garden.MaxRainfallAllowance(a.hazardMultiplier), nil
}

// GetHoursElapsed returns total simulated hours since initialization.
func (a *API) GetHoursElapsed() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return 0, ErrUninitialized
	}
	return a.clock.HoursElapsed(), nil
}

// History returns the garden's event log.
func (a *API) History() ([]state.Event, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return nil, ErrUninitialized
	}
	return a.garden.History(), nil
}

// SetAutoEventsEnabled toggles automatic event generation.
func (a *API) SetAutoEventsEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.autoEvents = enabled
}

// AutoEventsEnabled reports whether auto events roll during slices.
func (a *API) AutoEventsEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.autoEvents
}

// UpdateAutoEventConfig replaces the scheduler configuration wholesale.
func (a *API) UpdateAutoEventConfig(cfg autoevent.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized {
		return ErrUninitialized
	}
	a.scheduler.SetConfig(cfg)
	return nil
}

// ActivateModule turns an actuator module on by key.
func (a *API) ActivateModule(key string) error {
	return a.moduleCommand(func() error { return a.manager.ActivateModule(key) })
}

// DeactivateModule turns an actuator module off by key.
func (a *API) DeactivateModule(key string) error {
	return a.moduleCommand(func() error { return a.manager.DeactivateModule(key) })
}

// SetModuleIntensity adjusts a controllable module's intensity.
func (a *API) SetModuleIntensity(key string, pct int) error {
	return a.moduleCommand(func() error { return a.manager.SetModuleIntensity(key, pct) })
}

func (a *API) moduleCommand(fn func() error) error {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return ErrUninitialized
	}
	if err := fn(); err != nil {
		a.mu.Unlock()
		return err
	}
	snap, events := a.afterMutationLocked()
	a.mu.Unlock()

	a.publish(snap, events)
	return nil
}

// snapshotLocked builds a snapshot. Caller holds the mutex.
func (a *API) snapshotLocked() state.Snapshot {
	return buildSnapshot(a.garden, a.clock, a.telemetry, a.manager)
}

// afterMutationLocked runs the sensor controller against the fresh
// snapshot, re-snapshots if it actuated anything, and collects event
// history not yet published. Caller holds the mutex.
func (a *API) afterMutationLocked() (state.Snapshot, []state.Event) {
	snap := a.snapshotLocked()
	if a.controller.EvaluateAndAct(snap, a.clock.HoursElapsed()) {
		snap = a.snapshotLocked()
	}
	a.logAlertsLocked(a.lastSnap, snap)
	a.lastSnap = snap
	a.ctxDay.Store(int64(snap.Day))
	a.ctxHour.Store(int64(snap.HourOfDay))
	history := a.garden.History()
	var fresh []state.Event
	if a.publishedEvents < len(history) {
		fresh = history[a.publishedEvents:]
		a.publishedEvents = len(history)
	}
	return snap, fresh
}

// publish notifies subscribers outside the critical section.
func (a *API) publish(snap state.Snapshot, events []state.Event) {
	if a.bus == nil {
		return
	}
	a.bus.PublishState(snap)
	for _, ev := range events {
		a.bus.PublishLog(bus.LogLine{
			Tag:     ev.Type,
			Message: ev.Description,
			Level:   "info",
			Time:    ev.Time,
		})
	}
}
