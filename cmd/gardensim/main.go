package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/gardensim/engine/internal/api"
	"github.com/gardensim/engine/internal/bus"
	"github.com/gardensim/engine/internal/config"
	"github.com/gardensim/engine/internal/logging"
	"github.com/gardensim/engine/internal/monitor"
	intOtel "github.com/gardensim/engine/internal/otel"
	"github.com/gardensim/engine/internal/sim"
	"github.com/gardensim/engine/internal/storage"
	"github.com/gardensim/engine/internal/telemetry"
	"github.com/gardensim/engine/pkg/state"
)

// EngineVersion can be overridden at build time via ldflags.
var (
	EngineVersion string = "0.0.1"
	BuildDate     string = "unknown"

	EngineName string = "gardensim"
)

var (
	SessionStartTime time.Time = time.Now()

	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles the OpenTelemetry metric pipeline
	OTelProvider *intOtel.Provider
)

func main() {
	configDir := flag.String("config", ".", "directory holding gardensim.cfg.json")
	runHours := flag.Int("hours", 0, "stop after this many simulated hours (0 runs until interrupted)")
	flag.Parse()

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(os.Stderr, "info", nil)
	Logger = SlogManager.Logger()

	if err := config.Load(*configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config", "dir", *configDir)
	}

	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logFilePath := logging.LogFilePath(logsDir, EngineName, SessionStartTime)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logFilePath)
	}
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	var graylogWriter io.Writer
	if gl := config.GetGraylogConfig(); gl.Enabled {
		graylogWriter, err = logging.NewGraylogWriter(gl.Address)
		if err != nil {
			Logger.Warn("Graylog unavailable, skipping GELF sink", "error", err)
			graylogWriter = nil
		} else {
			Logger.Info("Shipping logs to Graylog", "address", gl.Address)
		}
	}
	SlogManager.Setup(logFile, viper.GetString("logLevel"), graylogWriter)
	Logger = SlogManager.Logger()
	Logger.Info("Engine starting", "version", EngineVersion, "buildDate", BuildDate)

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:        otelCfg.Enabled,
			ServiceName:    otelCfg.ServiceName,
			ExportInterval: otelCfg.ExportInterval,
			MetricWriter:   logFile,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			Logger.Info("OTel metrics enabled", "file", logFilePath)
		}
	}

	if err := run(*runHours); err != nil {
		Logger.Error("Engine exited with error", "error", err)
		os.Exit(1)
	}
}

func run(runHours int) error {
	simCfg := config.GetSimConfig()

	storageBackend, dbManager, err := initStorage()
	if err != nil {
		return fmt.Errorf("storage init: %w", err)
	}
	defer storageBackend.Close()

	var influx *telemetry.Manager
	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
		influx = telemetry.NewManager(zl, logging.LogFilePath(viper.GetString("logsDir"), EngineName+".influx_backup", SessionStartTime))
		if err := influx.Connect(); err != nil {
			Logger.Warn("InfluxDB unavailable, keeping line-protocol backup only", "error", err)
		}
		defer influx.Close()
	}

	engineBus, err := bus.New()
	if err != nil {
		return fmt.Errorf("bus init: %w", err)
	}
	defer engineBus.Close()

	opts := sim.Options{
		Log:                    SlogManager,
		Bus:                    engineBus,
		Stress:                 config.GetStressConfig(),
		Absorption:             config.GetAbsorptionConfig(),
		AutoEvents:             config.GetAutoEventConfig(),
		HazardMultiplier:       simCfg.HazardMultiplier,
		Seed:                   simCfg.Seed,
		PestSweepCooldownHours: simCfg.PestSweepCooldownHours,
	}
	if simCfg.TemplatesPath != "" {
		entries, err := config.LoadTemplates(simCfg.TemplatesPath)
		if err != nil {
			return fmt.Errorf("loading plant templates: %w", err)
		}
		for _, e := range entries {
			opts.Templates = append(opts.Templates, e.Template)
			opts.Plan = append(opts.Plan, sim.PlantSpec{Type: e.Template.Type, Count: e.Instances})
		}
		Logger.Info("Loaded plant templates", "path", simCfg.TemplatesPath, "types", len(entries))
	}

	engine := sim.New(opts)
	if err := engine.InitializeGarden(); err != nil {
		return fmt.Errorf("initializing garden: %w", err)
	}
	plants, _ := engine.GetPlants()
	Logger.Info("Garden initialized", "plants", len(plants))

	if err := storageBackend.StartRun(&state.RunInfo{
		StartedAt:     SessionStartTime,
		ConfigPath:    viper.ConfigFileUsed(),
		EngineVersion: EngineVersion,
		PlantCount:    len(plants),
	}); err != nil {
		return fmt.Errorf("starting run: %w", err)
	}
	defer func() {
		if err := storageBackend.EndRun(); err != nil {
			Logger.Error("Failed to end run", "error", err)
		}
		if dbManager != nil && dbManager.ShouldSaveLocal {
			if err := dbManager.DumpMemoryToDisk(); err != nil {
				Logger.Error("Failed to dump in-memory database", "error", err)
			}
		}
		uploadRunArchive(engine, storageBackend, len(plants))
	}()

	sub := engineBus.Subscribe(256)
	recorderDone := make(chan struct{})
	go recordRun(sub, storageBackend, influx, recorderDone)
	defer func() {
		engineBus.Unsubscribe(sub)
		<-recorderDone
	}()

	monitorService := monitor.NewService(monitor.Dependencies{
		Engine:     engine,
		Storage:    storageBackend,
		Influx:     influx,
		LogManager: SlogManager,
		StatusDir:  viper.GetString("logsDir"),
		Interval:   simCfg.StatusInterval,
	})
	if err := monitorService.Start(); err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}
	defer monitorService.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(simCfg.SliceInterval)
	defer ticker.Stop()

	Logger.Info("Simulation loop running",
		"sliceInterval", simCfg.SliceInterval, "hazardMultiplier", simCfg.HazardMultiplier)

	for {
		select {
		case sig := <-sigChan:
			Logger.Info("Received signal, shutting down", "signal", sig)
			flushTelemetry()
			return nil
		case <-ticker.C:
			summary, err := engine.ProcessAutoSlices(1)
			if err != nil {
				return fmt.Errorf("advancing simulation: %w", err)
			}
			if summary != "" {
				Logger.Debug("Auto events", "summary", summary)
			}
			hours, _ := engine.GetHoursElapsed()
			if runHours > 0 && hours >= runHours {
				Logger.Info("Requested hours elapsed, shutting down", "hours", hours)
				flushTelemetry()
				return nil
			}
		}
	}
}

// recordRun drains one bus subscription into the storage backend and, when
// available, InfluxDB. It exits when the subscription channels close.
func recordRun(sub *bus.Subscription, backend storage.Backend, influx *telemetry.Manager, done chan<- struct{}) {
	defer close(done)

	currentDay := 0
	states, logs := sub.States, sub.Logs
	for states != nil || logs != nil {
		select {
		case snap, ok := <-states:
			if !ok {
				states = nil
				continue
			}
			currentDay = snap.Day
			if err := backend.RecordSnapshot(snap); err != nil {
				Logger.Error("Failed to record snapshot", "error", err)
			}
			if influx != nil {
				now := time.Now()
				for _, point := range telemetry.SnapshotPoints(snap, now) {
					influx.WritePoint(context.Background(), telemetry.BucketGardenState, point)
				}
			}
		case line, ok := <-logs:
			if !ok {
				logs = nil
				continue
			}
			ev := state.Event{
				Day:         currentDay,
				Type:        line.Tag,
				Description: line.Message,
				Time:        line.Time,
			}
			if err := backend.RecordEvent(ev); err != nil {
				Logger.Error("Failed to record event", "error", err)
			}
			if influx != nil {
				influx.WritePoint(context.Background(), telemetry.BucketGardenEvents, telemetry.EventPoint(ev))
			}
		}
	}
}

// uploadRunArchive pushes the exported run file to the dashboard when
// uploads are enabled and the backend produced one.
func uploadRunArchive(engine *sim.API, backend storage.Backend, plantCount int) {
	apiCfg := config.GetAPIConfig()
	if !apiCfg.Enabled {
		return
	}
	exportable, ok := backend.(storage.Exportable)
	if !ok || exportable.ExportedFilePath() == "" {
		Logger.Warn("Upload enabled but backend produced no run archive")
		return
	}

	client := api.New(apiCfg.ServerURL, apiCfg.APIKey)
	if err := client.Healthcheck(); err != nil {
		Logger.Error("Dashboard unreachable, skipping upload", "error", err)
		return
	}

	days := 0
	if snap, err := engine.CurrentState(); err == nil {
		days = snap.Day
	}
	meta := storage.UploadMetadata{
		RunName:       apiCfg.RunName,
		EngineVersion: EngineVersion,
		DaysSimulated: days,
		PlantCount:    plantCount,
		Tag:           apiCfg.Tag,
	}
	if err := client.Upload(exportable.ExportedFilePath(), meta); err != nil {
		Logger.Error("Run archive upload failed", "error", err)
		return
	}
	Logger.Info("Run archive uploaded", "file", exportable.ExportedFilePath())
}

func flushTelemetry() {
	if OTelProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Shutdown(ctx); err != nil {
			Logger.Error("OTel shutdown failed", "error", err)
		}
	}
}
