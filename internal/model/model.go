package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which
// represent tables in the database schema.
var DatabaseModels = []interface{}{
	&Run{},
	&EventRecord{},
	&SnapshotRecord{},
	&PerformanceRecord{},
}

// Run is one simulation run, opened by garden initialization and closed
// on shutdown.
type Run struct {
	gorm.Model
	StartedAt     time.Time `json:"startedAt" gorm:"type:timestamptz"`
	EndedAt       time.Time `json:"endedAt" gorm:"type:timestamptz"`
	ConfigPath    string    `json:"configPath" gorm:"size:255"`
	EngineVersion string    `json:"engineVersion" gorm:"size:64"`
	PlantCount    int       `json:"plantCount"`
}

func (*Run) TableName() string {
	return "runs"
}

// EventRecord is one garden history entry tied to a run.
type EventRecord struct {
	gorm.Model
	RunID       uint      `json:"runId" gorm:"index:idx_eventrecord_run_id"`
	Run         Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Day         int       `json:"day"`
	EventType   string    `json:"eventType" gorm:"size:32;index:idx_eventrecord_type"`
	Description string    `json:"description" gorm:"size:255"`
	Time        time.Time `json:"time" gorm:"type:timestamptz;index:idx_eventrecord_time"`
}

func (*EventRecord) TableName() string {
	return "event_records"
}

// SnapshotRecord persists one full state snapshot as JSON alongside the
// hot columns dashboards filter on.
type SnapshotRecord struct {
	gorm.Model
	RunID          uint           `json:"runId" gorm:"index:idx_snapshotrecord_run_id"`
	Run            Run            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	Day            int            `json:"day"`
	HoursElapsed   int            `json:"hoursElapsed" gorm:"index:idx_snapshotrecord_hours"`
	AirTemperature int            `json:"airTemperature"`
	SoilMoisture   float64        `json:"soilMoisture"`
	AlivePlants    int            `json:"alivePlants"`
	DeadPlants     int            `json:"deadPlants"`
	Payload        datatypes.JSON `json:"payload"`
}

func (*SnapshotRecord) TableName() string {
	return "snapshot_records"
}

// PerformanceRecord is the model for engine performance metrics.
type PerformanceRecord struct {
	Time           time.Time `json:"time" gorm:"type:timestamptz;index:idx_performancerecord_time"`
	RunID          uint      `json:"runId" gorm:"index:idx_performancerecord_run_id"`
	Run            Run       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:RunID;"`
	HoursElapsed   int       `json:"hoursElapsed"`
	SnapshotMicros int64     `json:"snapshotMicros"`
	Goroutines     int       `json:"goroutines"`
	HeapAllocBytes uint64    `json:"heapAllocBytes"`
}

func (*PerformanceRecord) TableName() string {
	return "performance_records"
}
