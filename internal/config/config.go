package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/gardensim/engine/internal/autoevent"
	"github.com/gardensim/engine/internal/garden"
)

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// GormConfig holds database storage backend settings.
type GormConfig struct {
	FlushInterval time.Duration
}

// StorageConfig selects and configures the run-recording backend.
type StorageConfig struct {
	Type   string
	Memory MemoryConfig
	Gorm   GormConfig
}

// DBConfig holds relational database connection settings.
type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// InfluxConfig holds time-series telemetry settings.
type InfluxConfig struct {
	Enabled  bool
	Protocol string
	Host     string
	Port     string
	Token    string
	Org      string
}

// URL assembles the connection URL.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig holds GELF log shipping settings.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// APIConfig holds dashboard upload settings.
type APIConfig struct {
	Enabled   bool
	ServerURL string
	APIKey    string
	RunName   string
	Tag       string
}

// OTelConfig holds OpenTelemetry metric pipeline settings.
type OTelConfig struct {
	Enabled        bool
	ServiceName    string
	ExportInterval time.Duration
}

// SimConfig holds engine-level settings.
type SimConfig struct {
	HazardMultiplier       float64
	Seed                   int64
	TemplatesPath          string
	SliceInterval          time.Duration
	StatusInterval         time.Duration
	PestSweepCooldownHours int
}

// Load reads configuration from the JSON config file in configDir and
// sets default values.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./gardenlogs")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "gardensim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "gardensim-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.serverUrl", "http://localhost:5000")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.runName", "")
	viper.SetDefault("api.tag", "")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "gardensim-engine")
	viper.SetDefault("otel.exportInterval", "30s")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./runs")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.gorm.flushInterval", "5s")

	viper.SetDefault("sim.hazardMultiplier", garden.DefaultHazardMultiplier)
	viper.SetDefault("sim.seed", 0)
	viper.SetDefault("sim.plantTemplates", "")
	viper.SetDefault("sim.sliceInterval", "1s")
	viper.SetDefault("sim.statusInterval", "30s")
	viper.SetDefault("sim.pestSweepCooldownHours", 2)

	// Stress band rates apply once per slice; event penalties apply once
	// per event.
	viper.SetDefault("sim.stress.severeDehydration", -0.21)
	viper.SetDefault("sim.stress.moderateDehydration", -0.14)
	viper.SetDefault("sim.stress.mildDehydration", -0.07)
	viper.SetDefault("sim.stress.outOfTolerance", -0.104)
	viper.SetDefault("sim.stress.optimalFullWater", 0.07)
	viper.SetDefault("sim.stress.optimalGoodWater", 0.035)
	viper.SetDefault("sim.stress.optimalLowWater", 0.014)
	viper.SetDefault("sim.stress.toleranceHighWater", 0.035)
	viper.SetDefault("sim.stress.toleranceGoodWater", 0.007)
	viper.SetDefault("sim.stress.toleranceLowWater", -0.035)
	viper.SetDefault("sim.stress.infectionPenalty", -3.0)
	viper.SetDefault("sim.stress.treatmentPenalty", -1.0)
	viper.SetDefault("sim.stress.overWaterPenalty", -5.0)

	viper.SetDefault("sim.absorption.factor", 0.02)
	viper.SetDefault("sim.absorption.maxPerSlice", 1.5)
	viper.SetDefault("sim.absorption.targetRatio", 1.10)
	viper.SetDefault("sim.absorption.soilLoss", 0.4)

	auto := autoevent.DefaultConfig()
	viper.SetDefault("autoevent.rainChance", auto.RainChance)
	viper.SetDefault("autoevent.temperatureChance", auto.TemperatureChance)
	viper.SetDefault("autoevent.parasiteChance", auto.ParasiteChance)
	viper.SetDefault("autoevent.rainCooldownHours", auto.RainCooldownHours)
	viper.SetDefault("autoevent.parasiteSpacingHours", auto.ParasiteSpacingHours)
	viper.SetDefault("autoevent.minTemperature", auto.MinAutoTemperature)
	viper.SetDefault("autoevent.maxTemperature", auto.MaxAutoTemperature)
	viper.SetDefault("autoevent.maxConcurrentPests", auto.MaxConcurrentPests)

	viper.SetConfigName("gardensim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the typed storage section.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		Gorm: GormConfig{
			FlushInterval: viper.GetDuration("storage.gorm.flushInterval"),
		},
	}
}

// GetDBConfig returns the typed db section.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetInfluxConfig returns the typed influx section.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
	}
}

// GetGraylogConfig returns the typed graylog section.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetAPIConfig returns the typed api section.
func GetAPIConfig() APIConfig {
	return APIConfig{
		Enabled:   viper.GetBool("api.enabled"),
		ServerURL: viper.GetString("api.serverUrl"),
		APIKey:    viper.GetString("api.apiKey"),
		RunName:   viper.GetString("api.runName"),
		Tag:       viper.GetString("api.tag"),
	}
}

// GetOTelConfig returns the typed otel section.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
	}
}

// GetSimConfig returns the typed sim section.
func GetSimConfig() SimConfig {
	return SimConfig{
		HazardMultiplier:       viper.GetFloat64("sim.hazardMultiplier"),
		Seed:                   viper.GetInt64("sim.seed"),
		TemplatesPath:          viper.GetString("sim.plantTemplates"),
		SliceInterval:          viper.GetDuration("sim.sliceInterval"),
		StatusInterval:         viper.GetDuration("sim.statusInterval"),
		PestSweepCooldownHours: viper.GetInt("sim.pestSweepCooldownHours"),
	}
}

// GetStressConfig returns the per-slice stress tuning.
func GetStressConfig() garden.StressConfig {
	return garden.StressConfig{
		SevereDehydration:   viper.GetFloat64("sim.stress.severeDehydration"),
		ModerateDehydration: viper.GetFloat64("sim.stress.moderateDehydration"),
		MildDehydration:     viper.GetFloat64("sim.stress.mildDehydration"),
		OutOfTolerance:      viper.GetFloat64("sim.stress.outOfTolerance"),
		OptimalFullWater:    viper.GetFloat64("sim.stress.optimalFullWater"),
		OptimalGoodWater:    viper.GetFloat64("sim.stress.optimalGoodWater"),
		OptimalLowWater:     viper.GetFloat64("sim.stress.optimalLowWater"),
		ToleranceHighWater:  viper.GetFloat64("sim.stress.toleranceHighWater"),
		ToleranceGoodWater:  viper.GetFloat64("sim.stress.toleranceGoodWater"),
		ToleranceLowWater:   viper.GetFloat64("sim.stress.toleranceLowWater"),
		InfectionPenalty:    viper.GetFloat64("sim.stress.infectionPenalty"),
		TreatmentPenalty:    viper.GetFloat64("sim.stress.treatmentPenalty"),
		OverWaterPenalty:    viper.GetFloat64("sim.stress.overWaterPenalty"),
	}
}

// GetAbsorptionConfig returns the absorption-phase tuning.
func GetAbsorptionConfig() garden.AbsorptionConfig {
	return garden.AbsorptionConfig{
		Factor:      viper.GetFloat64("sim.absorption.factor"),
		MaxPerSlice: viper.GetFloat64("sim.absorption.maxPerSlice"),
		TargetRatio: viper.GetFloat64("sim.absorption.targetRatio"),
		SoilLoss:    viper.GetFloat64("sim.absorption.soilLoss"),
	}
}

// GetAutoEventConfig returns the typed autoevent section.
func GetAutoEventConfig() autoevent.Config {
	return autoevent.Config{
		RainChance:           viper.GetFloat64("autoevent.rainChance"),
		TemperatureChance:    viper.GetFloat64("autoevent.temperatureChance"),
		ParasiteChance:       viper.GetFloat64("autoevent.parasiteChance"),
		RainCooldownHours:    viper.GetInt("autoevent.rainCooldownHours"),
		ParasiteSpacingHours: viper.GetInt("autoevent.parasiteSpacingHours"),
		MinAutoTemperature:   viper.GetInt("autoevent.minTemperature"),
		MaxAutoTemperature:   viper.GetInt("autoevent.maxTemperature"),
		MaxConcurrentPests:   viper.GetInt("autoevent.maxConcurrentPests"),
	}
}
