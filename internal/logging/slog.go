package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SlogManager manages slog-based logging with console, file, and optional
// Graylog sinks behind a single multi-handler.
type SlogManager struct {
	logger   *slog.Logger
	provider ContextProvider
}

// SetContextProvider installs a provider whose attributes are stamped on
// every record. The provider runs inside logging calls and must not
// block or take engine locks.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.provider = p
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup initializes the logging system with file and optional Graylog output.
// Either writer may be nil to disable that sink.
func (m *SlogManager) Setup(file io.Writer, level string, graylog io.Writer) {
	lvl := parseLevel(level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler

	// Console handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))

	// File handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	// Graylog handler (GELF-framed JSON over the gelf writer)
	if graylog != nil {
		handlers = append(handlers, slog.NewJSONHandler(graylog, handlerOpts))
	}

	root := NewContextHandler(NewMultiHandler(handlers...), func() []slog.Attr {
		if m.provider == nil {
			return nil
		}
		return m.provider()
	})
	m.logger = slog.New(root)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// WriteLog writes a tagged log entry at the given level. This is the
// (tag, message) surface the simulation components log through; tags are
// short upper-case event categories like RAIN, SENSOR, or ALERT.
func (m *SlogManager) WriteLog(tag, message, level string) {
	if m.logger == nil {
		return
	}

	switch parseLevel(level) {
	case slog.LevelDebug:
		m.logger.Debug(message, "tag", tag)
	case slog.LevelWarn:
		m.logger.Warn(message, "tag", tag)
	case slog.LevelError:
		m.logger.Error(message, "tag", tag)
	default:
		m.logger.Info(message, "tag", tag)
	}
}

// Log writes a tagged entry at info level. Most garden events use this form.
func (m *SlogManager) Log(tag, message string) {
	m.WriteLog(tag, message, "INFO")
}
