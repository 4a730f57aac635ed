package telemetry

import (
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/gardensim/engine/pkg/state"
)

// SnapshotPoints converts one state snapshot into measurement points:
// one garden-level point, one per plant, one for the soil.
func SnapshotPoints(snap state.Snapshot, at time.Time) []*influxdb2_write.Point {
	points := make([]*influxdb2_write.Point, 0, len(snap.Plants)+2)

	gardenPoint := influxdb2_write.NewPointWithMeasurement("garden").
		AddField("day", snap.Day).
		AddField("hours_elapsed", snap.HoursElapsed).
		AddField("air_temperature", snap.AirTemperature).
		AddField("alive_plants", snap.AlivePlants).
		AddField("dead_plants", snap.DeadPlants).
		AddField("cloud_cover", snap.Weather.CloudCover).
		AddTag("condition", snap.Weather.Condition).
		SetTime(at)
	points = append(points, gardenPoint)

	soilPoint := influxdb2_write.NewPointWithMeasurement("soil").
		AddField("moisture", snap.Soil.Moisture).
		AddField("nutrients", snap.Soil.Nutrients).
		AddField("ph", snap.Soil.PH).
		AddField("temperature", snap.Soil.Temperature).
		AddField("pest_count", len(snap.Soil.Pests)).
		SetTime(at)
	points = append(points, soilPoint)

	for _, p := range snap.Plants {
		points = append(points, influxdb2_write.NewPointWithMeasurement("plant").
			AddTag("name", p.Name).
			AddTag("type", p.Type).
			AddField("health", p.Health).
			AddField("water", p.Water).
			AddField("alive", p.Alive).
			AddField("infested", p.Infested).
			SetTime(at))
	}

	return points
}

// EventPoint converts one garden event into a point.
func EventPoint(ev state.Event) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("event").
		AddTag("type", ev.Type).
		AddField("day", ev.Day).
		AddField("description", ev.Description).
		SetTime(ev.Time)
}

// PerformancePoint converts one monitor sample into a point.
func PerformancePoint(p state.PerformanceSample) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement("engine").
		AddField("hours_elapsed", p.HoursElapsed).
		AddField("snapshot_micros", p.SnapshotMicros).
		AddField("goroutines", p.Goroutines).
		AddField("heap_alloc_bytes", int64(p.HeapAllocBytes)).
		SetTime(p.Time)
}
