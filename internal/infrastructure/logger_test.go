package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bondmatch/internal/config"
)

func lastJSONLine(t *testing.T, content []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLoggerWritesJSONFile(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "bondmatch.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("dataset loaded", "records", 3)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := lastJSONLine(t, content)
	assert.Equal(t, "dataset loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["records"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "search completed")

	entry := lastJSONLine(t, buf.Bytes())
	assert.Equal(t, "trace-123", entry["trace_id"])
}

func TestTraceIDSurvivesWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "trace-456")
	WithComponent(logger, "bond_service").InfoContext(ctx, "resolved")

	entry := lastJSONLine(t, buf.Bytes())
	assert.Equal(t, "trace-456", entry["trace_id"])
	assert.Equal(t, "bond_service", entry["component"])
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
	require.NoError(t, err)

	logger.Info("plain", "k", "v")
	assert.Contains(t, buf.String(), "msg=plain")
	assert.Contains(t, buf.String(), "k=v")
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)
			require.NoError(t, err)

			logger.Debug("debug line")
			logger.Info("info line")
			logger.Warn("warn line")

			out := buf.String()
			assert.Equal(t, tt.debugSeen, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.infoSeen, strings.Contains(out, "info line"))
			assert.Equal(t, tt.warnSeen, strings.Contains(out, "warn line"))
		})
	}
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.NotEmpty(t, traceID)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace ID must be kept")
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestLoggerFromContext(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	globalLogger = logger

	LoggerFromContext(WithTraceID(context.Background(), "abc")).Info("hello")

	entry := lastJSONLine(t, buf.Bytes())
	assert.Equal(t, "abc", entry["trace_id"])
}

func TestLoggerFromContext_Attached(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	ctx := WithLogger(context.Background(), logger.With("request_id", "req-9"))
	LoggerFromContext(ctx).InfoContext(ctx, "search served")

	entry := lastJSONLine(t, buf.Bytes())
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "search served", entry["msg"])
}

func TestOpenLogFileBadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "app.log")}, os.Stdout)
	assert.Error(t, err)
}
