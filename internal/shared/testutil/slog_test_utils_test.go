package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, h := NewTestLogger(t)

	logger.With("component", "loader").Info("dataset loaded", "records", 3)
	logger.Warn("candidate tie")

	records := h.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "loader", records[0].Attrs["component"])
	assert.Equal(t, int64(3), records[0].Attrs["records"])
	assert.True(t, h.ContainsMessage("tie"))
	assert.Len(t, h.RecordsAt(slog.LevelWarn), 1)

	AssertLogContains(t, h, slog.LevelInfo, "loaded")
	AssertNoErrors(t, h)

	h.Reset()
	assert.Empty(t, h.Records())
}

func TestWriteDataset(t *testing.T) {
	path := WriteDataset(t, t.TempDir(), "bonds.csv", SampleRows())
	assert.FileExists(t, path)
}
