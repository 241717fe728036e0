package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/pkg/correlationid"
)

func TestEnrichedHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(config.Log{Format: config.LogFormatJSON, Level: slog.LevelInfo}, &buf))

	ctx := correlationid.NewContext(context.Background(), "corr-42")
	logger.With(slog.String("service", "http")).InfoContext(ctx, "category created", slog.Int64("category_id", 1))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "category created", record["msg"])
	assert.Equal(t, "corr-42", record["correlation_id"])
	assert.Equal(t, "http", record["service"])
	assert.NotContains(t, record, "trace_id")
}

func TestHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(config.Log{Format: config.LogFormatText, Level: slog.LevelWarn}, &buf))

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
