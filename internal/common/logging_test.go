package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/voipbin/voipbin-mcp/internal/config"
)

func TestNewLogger_ReturnsNonNil(t *testing.T) {
	logger := NewLogger("info")
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
}

func TestNewLogger_FluentAPI(t *testing.T) {
	// Must not panic
	logger := NewLogger("error")
	logger.Info().Str("tool", "get_calls").Msg("test message")
	logger.Warn().Int("status", 502).Msg("warning")
	logger.Error().Err(nil).Msg("error message")
	logger.Debug().Int64("duration_ms", 12).Bool("ok", true).Msg("debug")
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logger := NewLoggerFromConfig(config.LoggingConfig{
		Level:    "info",
		Outputs:  []string{"file"},
		FilePath: dir + "/voipbin-mcp.log",
	})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Info().Str("key", "value").Msg("to file")
}

func TestNewLoggerFromConfig_FileOutputWithoutPathIsSkipped(t *testing.T) {
	logger := NewLoggerFromConfig(config.LoggingConfig{
		Level:   "info",
		Outputs: []string{"file", "syslog"},
	})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	// Must not panic
	logger.Info().Msg("no writers attached")
}

func TestNewLoggerFromConfig_DefaultConfig(t *testing.T) {
	logger := NewLoggerFromConfig(config.NewDefaultConfig().Logging)
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	logger.Debug().Str("tool", "get_calls").Msg("default outputs")
}

func TestNewLoggerWithOutput_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("tool", "get_agents").Msg("tool invoked")

	output := buf.String()
	if output == "" {
		t.Fatal("expected output to provided writer, got empty string")
	}
	if !strings.Contains(output, "tool invoked") {
		t.Errorf("expected message in output, got %q", output)
	}
}

func TestNewSilentLogger_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("should be discarded")
	silent.Error().Msg("should be discarded")

	if strings.Contains(buf.String(), "should be discarded") {
		t.Errorf("silent logger leaked output: %q", buf.String())
	}
}

func TestWithCorrelationId(t *testing.T) {
	logger := NewSilentLogger().WithCorrelationId("req-1")
	if logger == nil || logger.ILogger == nil {
		t.Fatal("WithCorrelationId returned nil logger")
	}
	logger.Info().Msg("correlated")
}
