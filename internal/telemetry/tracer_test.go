package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/telemetry"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := telemetry.InitTracer(t.Context(), config.Otel{ServiceName: "catalog-service"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
	assert.NoError(t, shutdown(t.Context()))
}
