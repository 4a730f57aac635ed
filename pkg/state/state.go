// pkg/state/state.go
package state

import "time"

// SnapshotVersion identifies the snapshot schema. Bump when fields change
// meaning so downstream consumers can detect stale recordings.
const SnapshotVersion = 1

// PlantStatus is one plant's view in a snapshot.
type PlantStatus struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Health           float64  `json:"health"`
	Water            int      `json:"water"`
	WaterRequirement int      `json:"waterRequirement"`
	Age              int      `json:"age"`
	Alive            bool     `json:"alive"`
	Infested         bool     `json:"infested"`
	Vulnerabilities  []string `json:"vulnerabilities,omitempty"`
}

// SoilStatus summarizes the shared substrate.
type SoilStatus struct {
	Moisture    float64  `json:"moisture"`
	Nutrients   float64  `json:"nutrients"`
	PH          float64  `json:"pH"`
	Temperature float64  `json:"temperature"`
	Pests       []string `json:"pests"`
}

// WeatherStatus is the display-only telemetry layer. It never feeds back
// into plant or soil physics.
type WeatherStatus struct {
	Night          bool    `json:"night"`
	DayPhase       string  `json:"dayPhase"`
	HourOfDay      int     `json:"hourOfDay"`
	CloudCover     float64 `json:"cloudCoverFraction"`
	CloudCoverPct  int     `json:"cloudCoverPct"`
	Raining        bool    `json:"raining"`
	LastRain       int     `json:"lastRainAmount"`
	HoursSinceRain int     `json:"hoursSinceRain"`
	Temperature    int     `json:"temperature"`
	Condition      string  `json:"condition"`
}

// ModuleStatus describes one actuator module.
type ModuleStatus struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	Intensity int    `json:"intensity"`
	// TargetTemperature is only meaningful for the heating module.
	TargetTemperature int `json:"targetTemperature,omitempty"`
}

// Snapshot is the immutable aggregate state produced by the engine after
// every mutating operation. Consumers must not modify it.
type Snapshot struct {
	Version        int            `json:"version"`
	Day            int            `json:"day"`
	AirTemperature int            `json:"temperature"`
	HoursElapsed   int            `json:"hoursElapsed"`
	HourOfDay      int            `json:"hourOfDay"`
	Plants         []PlantStatus  `json:"plants"`
	Soil           SoilStatus     `json:"soil"`
	Weather        WeatherStatus  `json:"weather"`
	Modules        []ModuleStatus `json:"modules"`
	TotalPlants    int            `json:"totalPlants"`
	AlivePlants    int            `json:"alivePlants"`
	DeadPlants     int            `json:"deadPlants"`
}

// Event is one entry in the garden's append-only history.
type Event struct {
	Day         int       `json:"day"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
}

// RunInfo identifies one simulation run (one initializeGarden call).
type RunInfo struct {
	ID            uint      `json:"id"`
	StartedAt     time.Time `json:"startedAt"`
	ConfigPath    string    `json:"configPath"`
	EngineVersion string    `json:"engineVersion"`
	PlantCount    int       `json:"plantCount"`
}

// PerformanceSample is one monitor reading of engine health.
type PerformanceSample struct {
	Time           time.Time `json:"time"`
	HoursElapsed   int       `json:"hoursElapsed"`
	SnapshotMicros int64     `json:"snapshotMicros"`
	Goroutines     int       `json:"goroutines"`
	HeapAllocBytes uint64    `json:"heapAllocBytes"`
}
