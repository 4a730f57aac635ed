package garden

import (
	"errors"
	"math"
	"testing"
)

func newTestGarden() *Garden {
	g := New(Dependencies{})
	g.RegisterDefaultTemplates()
	return g
}

func TestPlantNewUnknownType(t *testing.T) {
	g := newTestGarden()
	_, err := g.PlantNew("Mystery-001", "Cactus")
	if !errors.Is(err, ErrUnknownPlantType) {
		t.Fatalf("expected ErrUnknownPlantType, got %v", err)
	}
	if len(g.Plants()) != 0 {
		t.Fatalf("expected empty roster, got %d plants", len(g.Plants()))
	}
}

func TestApplyRainfallRaisesSoilMoisture(t *testing.T) {
	g := newTestGarden()
	g.Soil().Moisture = 10
	g.ApplyRainfall(5)
	if got := g.Soil().Moisture; got != 15 {
		t.Fatalf("moisture = %v, want 15", got)
	}
}

func TestApplyRainfallCapsAtMax(t *testing.T) {
	g := newTestGarden()
	g.Soil().Moisture = 90
	g.ApplyRainfall(50)
	if got := g.Soil().Moisture; got != 95 {
		t.Fatalf("moisture = %v, want cap of 95", got)
	}
}

func TestApplyRainfallFloodsExcessOntoPlants(t *testing.T) {
	g := newTestGarden()
	rose, _ := g.PlantNew("Rose-001", "Rose") // requirement 10
	rose.CurrentWater = 0

	// 30 units against a 10-unit max requirement: 20 units of excess
	// land on the plant, clipped at the 1.5x flood cap with a penalty.
	g.ApplyRainfall(30)
	if rose.CurrentWater != 15 {
		t.Fatalf("water = %d, want flood cap of 15", rose.CurrentWater)
	}
	if rose.Health != 95 {
		t.Fatalf("health = %v, want 95 after over-water penalty", rose.Health)
	}
}

func TestApplyTemperatureRejectsOutOfRange(t *testing.T) {
	g := newTestGarden()
	rose, _ := g.PlantNew("Rose-001", "Rose")
	before := rose.Health

	err := g.ApplyTemperature(30)
	if !errors.Is(err, ErrInvalidTemperature) {
		t.Fatalf("expected ErrInvalidTemperature, got %v", err)
	}
	if g.AirTemperature() != defaultAirTemperature {
		t.Fatalf("air temperature mutated to %d on rejected input", g.AirTemperature())
	}
	if rose.Health != before {
		t.Fatalf("health mutated to %v on rejected input", rose.Health)
	}
}

func TestOptimalTemperatureWithFullWaterRecovers(t *testing.T) {
	g := newTestGarden()
	rose, _ := g.PlantNew("Rose-001", "Rose")
	rose.Health = 90

	if err := g.ApplyTemperature(70); err != nil {
		t.Fatalf("ApplyTemperature: %v", err)
	}
	if rose.Health <= 90 {
		t.Fatalf("health = %v, want strict increase from 90", rose.Health)
	}
}

func TestOutOfToleranceTemperatureHurts(t *testing.T) {
	g := newTestGarden()
	rose, _ := g.PlantNew("Rose-001", "Rose") // tolerance 40–95
	rose.Health = 90

	if err := g.ApplyTemperature(100); err != nil {
		t.Fatalf("ApplyTemperature: %v", err)
	}
	if rose.Health >= 90 {
		t.Fatalf("health = %v, want strict decrease from 90", rose.Health)
	}
}

func TestWaterGatesTemperatureBenefit(t *testing.T) {
	g := newTestGarden()
	thirsty, _ := g.PlantNew("Rose-001", "Rose")
	hydrated, _ := g.PlantNew("Rose-002", "Rose")
	thirsty.Health, hydrated.Health = 90, 90
	thirsty.CurrentWater = 5 // ratio 0.5
	hydrated.CurrentWater = 10

	if err := g.ApplyTemperature(70); err != nil {
		t.Fatalf("ApplyTemperature: %v", err)
	}
	if thirsty.Health >= hydrated.Health {
		t.Fatalf("thirsty plant recovered %v, hydrated %v; hydration should gate recovery",
			thirsty.Health-90, hydrated.Health-90)
	}
}

func TestParasiteOnlyInfestsVulnerableHosts(t *testing.T) {
	g := newTestGarden()
	tomato, _ := g.PlantNew("Tomato-001", "Tomato") // not vulnerable to slugs
	lettuce, _ := g.PlantNew("Lettuce-001", "Lettuce")
	before := tomato.Health

	g.TriggerParasiteInfestation("slugs")
	if tomato.Infested {
		t.Fatal("tomato infested by a pest it is not vulnerable to")
	}
	if tomato.Health != before {
		t.Fatalf("tomato health changed to %v", tomato.Health)
	}
	if !lettuce.Infested {
		t.Fatal("lettuce should be infested by slugs")
	}
	if !g.Soil().HasPest("slugs") {
		t.Fatal("soil should record the pest even without hosts")
	}
}

func TestDehydrationMagnitudeOverFullDay(t *testing.T) {
	p := NewPlant("Rose-001", PlantTemplate{Type: "Rose", WaterRequirement: 10})
	p.CurrentWater = 0
	cfg := DefaultStressConfig()

	for i := 0; i < SlicesPerDay; i++ {
		p.ConsumeWaterSlice(cfg)
	}
	loss := 100 - p.Health
	// Severe dehydration costs about 30 health per day, not a rounding
	// error. Guards the per-slice rates against accidental rescaling.
	if loss < 25 || loss > 35 {
		t.Fatalf("lost %.4f health over a dehydrated day, want ~30", loss)
	}
}

func TestReinfectionDamagesInfestedPlant(t *testing.T) {
	g := newTestGarden()
	lettuce, _ := g.PlantNew("Lettuce-001", "Lettuce")

	g.TriggerParasiteInfestation("slugs")
	afterFirst := lettuce.Health

	g.TriggerParasiteInfestation("slugs")
	if !lettuce.Infested {
		t.Fatal("plant should remain infested")
	}
	if lettuce.Health != afterFirst-3 {
		t.Fatalf("health = %v, want %v; each infection event damages the host",
			lettuce.Health, afterFirst-3)
	}
}

func TestTreatParasiteClearsInfestation(t *testing.T) {
	g := newTestGarden()
	lettuce, _ := g.PlantNew("Lettuce-001", "Lettuce")
	g.TriggerParasiteInfestation("slugs")
	afterInfection := lettuce.Health

	g.TreatParasite("slugs")
	if lettuce.Infested {
		t.Fatal("plant still infested after treatment")
	}
	if lettuce.Health != afterInfection-1 {
		t.Fatalf("health = %v, want %v after treatment penalty", lettuce.Health, afterInfection-1)
	}
	if g.Soil().HasPest("slugs") {
		t.Fatal("soil still records the pest after treatment")
	}
}

func TestFullDayOfSlicesDrainsOneRequirement(t *testing.T) {
	g := newTestGarden()
	tomato, _ := g.PlantNew("Tomato-001", "Tomato") // requirement 15
	g.Soil().Moisture = 0                           // no absorption refill
	start := tomato.CurrentWater

	for i := 0; i < SlicesPerDay; i++ {
		g.AdvanceSlice()
	}
	drained := start - tomato.CurrentWater
	if math.Abs(float64(drained-tomato.WaterRequirement)) > 1 {
		t.Fatalf("drained %d units over a day, want %d ±1", drained, tomato.WaterRequirement)
	}
}

func TestAbsorptionRefillsFromSoil(t *testing.T) {
	g := newTestGarden()
	rose, _ := g.PlantNew("Rose-001", "Rose")
	rose.CurrentWater = 0
	g.Soil().Moisture = 90
	before := g.Soil().Moisture

	for i := 0; i < SlicesPerHour; i++ {
		g.AdvanceSlice()
	}
	if rose.CurrentWater == 0 {
		t.Fatal("plant absorbed nothing from wet soil")
	}
	if g.Soil().Moisture >= before {
		t.Fatal("soil moisture did not drop while plants absorbed")
	}
}

func TestAbsorptionStopsAtTarget(t *testing.T) {
	g := newTestGarden()
	rose, _ := g.PlantNew("Rose-001", "Rose") // requirement 10, target 11
	g.Soil().Moisture = 95

	for i := 0; i < SlicesPerDay; i++ {
		g.AdvanceSlice()
	}
	if rose.CurrentWater > 11 {
		t.Fatalf("water = %d, absorption overshot the 110%% target", rose.CurrentWater)
	}
}

func TestHealthClampAndDeath(t *testing.T) {
	g := newTestGarden()
	rose, _ := g.PlantNew("Rose-001", "Rose")
	rose.Health = 0.05
	rose.CurrentWater = 0
	g.Soil().Moisture = 0

	for i := 0; i < SlicesPerDay && rose.Alive; i++ {
		g.AdvanceSlice()
	}
	if rose.Alive {
		t.Fatal("plant survived a full dehydrated day at near-zero health")
	}
	if rose.Health != 0 {
		t.Fatalf("health = %v, want clamp at 0", rose.Health)
	}
}

func TestAdvanceDaySoilDrift(t *testing.T) {
	g := newTestGarden()
	g.Soil().Moisture = 50
	g.Soil().Nutrients = 50
	g.Soil().PH = 6.5

	g.AdvanceDay()
	if g.Soil().Moisture != 48 {
		t.Errorf("moisture = %v, want 48 after evaporation", g.Soil().Moisture)
	}
	if g.Soil().Nutrients != 49.5 {
		t.Errorf("nutrients = %v, want 49.5 after depletion", g.Soil().Nutrients)
	}
	if g.Soil().PH != 6.55 {
		t.Errorf("pH = %v, want drift toward neutral", g.Soil().PH)
	}
	if g.SimulationDay() != 1 {
		t.Errorf("day = %d, want 1", g.SimulationDay())
	}
}

func TestResetClearsStateKeepsTemplates(t *testing.T) {
	g := newTestGarden()
	g.PlantNew("Rose-001", "Rose")
	g.ApplyRainfall(10)
	g.AdvanceDay()

	g.Reset()
	if len(g.Plants()) != 0 || g.SimulationDay() != 0 || len(g.History()) != 0 {
		t.Fatal("reset left residual state")
	}
	if _, err := g.PlantNew("Rose-002", "Rose"); err != nil {
		t.Fatalf("templates lost on reset: %v", err)
	}
}

func TestWaterRequirementBounds(t *testing.T) {
	g := newTestGarden()
	g.PlantNew("Rose-001", "Rose")       // 10
	g.PlantNew("Tomato-001", "Tomato")   // 15
	g.PlantNew("Lettuce-001", "Lettuce") // 8

	if got := g.MinWaterRequirement(); got != 8 {
		t.Errorf("min requirement = %d, want 8", got)
	}
	if got := g.MaxWaterRequirement(); got != 15 {
		t.Errorf("max requirement = %d, want 15", got)
	}
}
