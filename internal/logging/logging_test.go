package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	got := LogFilePath("logs", "gardensim", start)
	if !strings.Contains(got, "gardensim.20260314_092653.log") {
		t.Errorf("unexpected log path: %s", got)
	}
}

func TestWriteLog_TagAppears(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	m.WriteLog("RAIN", "Rainfall applied: 12 units", "INFO")

	out := buf.String()
	if !strings.Contains(out, "tag=RAIN") {
		t.Errorf("expected tag attribute in output, got: %s", out)
	}
	if !strings.Contains(out, "Rainfall applied") {
		t.Errorf("expected message in output, got: %s", out)
	}
}

func TestWriteLog_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	m.WriteLog("DEBUG", "should be filtered", "DEBUG")
	if strings.Contains(buf.String(), "should be filtered") {
		t.Error("debug entry should not pass an info-level handler")
	}

	m.WriteLog("ALERT", "plant has died", "ERROR")
	if !strings.Contains(buf.String(), "plant has died") {
		t.Error("error entry missing from output")
	}
}

func TestWriteLog_BeforeSetupIsNoop(t *testing.T) {
	m := NewSlogManager()
	// Must not panic.
	m.WriteLog("INIT", "not set up yet", "INFO")
}

func TestWriteLog_ContextProviderStampsAttrs(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.SetContextProvider(func() []slog.Attr {
		return []slog.Attr{slog.Int64("simDay", 4), slog.Int64("simHour", 13)}
	})
	m.Setup(&buf, "info", nil)

	m.WriteLog("RAIN", "Rainfall applied: 3 units", "INFO")

	out := buf.String()
	if !strings.Contains(out, "simDay=4") || !strings.Contains(out, "simHour=13") {
		t.Errorf("expected simulation time attributes in output, got: %s", out)
	}
}

func TestLog_DefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	m := NewSlogManager()
	m.Setup(&buf, "info", nil)

	m.Log("STATE", "Day 3: 7/8 plants alive.")
	if !strings.Contains(buf.String(), "7/8 plants alive") {
		t.Errorf("expected state summary in output, got: %s", buf.String())
	}
}
