// Package autoevent rolls probabilistic weather and pest events once
// per slice, with per-kind cooldowns.
package autoevent

import (
	"math/rand"

	"github.com/gardensim/engine/internal/weather"
)

// Kind labels a generated event.
type Kind string

const (
	KindRain        Kind = "rain"
	KindTemperature Kind = "temperature"
	KindParasite    Kind = "parasite"
)

// Event is one generated occurrence. Exactly one payload field is
// meaningful for a given kind.
type Event struct {
	Kind        Kind
	Amount      int
	Temperature int
	Parasite    string
}

// Config is the scheduler's tuning. It is an immutable value: replace
// it wholesale via SetConfig, never mutate a copy the scheduler holds.
type Config struct {
	RainChance           float64
	TemperatureChance    float64
	ParasiteChance       float64
	RainCooldownHours    int
	ParasiteSpacingHours int
	MinAutoTemperature   int
	MaxAutoTemperature   int
	MaxConcurrentPests   int
}

// DefaultConfig returns the stock event probabilities and cooldowns.
func DefaultConfig() Config {
	return Config{
		RainChance:           0.4,
		TemperatureChance:    0.3,
		ParasiteChance:       0.15,
		RainCooldownHours:    2,
		ParasiteSpacingHours: 3,
		MinAutoTemperature:   45,
		MaxAutoTemperature:   100,
		MaxConcurrentPests:   2,
	}
}

// KnownParasites is the roster the scheduler draws from.
var KnownParasites = []string{
	"aphids",
	"spider_mites",
	"whiteflies",
	"hornworms",
	"slugs",
	"beetles",
	"fungus_gnats",
	"mealybugs",
	"carrot_flies",
}

const recentParasiteLimit = 5

// Scheduler generates events per slice. Stateless per call except for
// the cooldown trackers and the anti-repetition parasite set.
type Scheduler struct {
	cfg   Config
	model *weather.Model
	rng   *rand.Rand

	nextRainEligibleHour int
	lastParasiteHour     int
	parasiteFired        bool
	recentParasites      map[string]struct{}
}

func New(cfg Config, model *weather.Model, rng *rand.Rand) *Scheduler {
	return &Scheduler{
		cfg:             cfg,
		model:           model,
		rng:             rng,
		recentParasites: make(map[string]struct{}),
	}
}

// Config returns the current configuration value.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// SetConfig replaces the configuration wholesale.
func (s *Scheduler) SetConfig(cfg Config) {
	s.cfg = cfg
}

// Reset clears all cooldown state.
func (s *Scheduler) Reset() {
	s.nextRainEligibleHour = 0
	s.lastParasiteHour = 0
	s.parasiteFired = false
	s.recentParasites = make(map[string]struct{})
}

// Generate rolls the three event kinds for one slice. Temperature is
// always produced: the jittered variant when its roll succeeds, the
// pure diurnal baseline otherwise. Rainfall amounts are raw band draws;
// clamping to plant-driven bounds is the caller's job.
func (s *Scheduler) Generate(hourOfDay, hoursElapsed int) []Event {
	var events []Event

	if hoursElapsed >= s.nextRainEligibleHour && s.model.ShouldOccur(s.cfg.RainChance) {
		events = append(events, Event{Kind: KindRain, Amount: s.model.GenerateRainfall()})
		s.nextRainEligibleHour = hoursElapsed + s.cfg.RainCooldownHours
	}

	temp := weather.DiurnalTemperature(hourOfDay)
	if s.model.ShouldOccur(s.cfg.TemperatureChance) {
		temp = s.model.JitteredTemperature(hourOfDay)
	}
	events = append(events, Event{Kind: KindTemperature, Temperature: s.clampTemperature(temp)})

	if s.parasiteEligible(hourOfDay, hoursElapsed) && s.model.ShouldOccur(s.cfg.ParasiteChance) {
		if name := s.pickParasite(); name != "" {
			events = append(events, Event{Kind: KindParasite, Parasite: name})
			s.lastParasiteHour = hoursElapsed
			s.parasiteFired = true
		}
	}

	return events
}

func (s *Scheduler) clampTemperature(temp int) int {
	if temp < s.cfg.MinAutoTemperature {
		return s.cfg.MinAutoTemperature
	}
	if temp > s.cfg.MaxAutoTemperature {
		return s.cfg.MaxAutoTemperature
	}
	return temp
}

func (s *Scheduler) parasiteEligible(hourOfDay, hoursElapsed int) bool {
	if weather.IsNightHour(hourOfDay) {
		return false
	}
	if s.parasiteFired && hoursElapsed-s.lastParasiteHour < s.cfg.ParasiteSpacingHours {
		return false
	}
	return true
}

// pickParasite draws a roster entry not seen recently. The recent set
// clears once it grows past its limit or covers the whole roster, so no
// species starves forever.
func (s *Scheduler) pickParasite() string {
	if len(s.recentParasites) > recentParasiteLimit || len(s.recentParasites) >= len(KnownParasites) {
		s.recentParasites = make(map[string]struct{})
	}
	candidates := make([]string, 0, len(KnownParasites))
	for _, name := range KnownParasites {
		if _, seen := s.recentParasites[name]; !seen {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	name := candidates[s.rng.Intn(len(candidates))]
	s.recentParasites[name] = struct{}{}
	return name
}
