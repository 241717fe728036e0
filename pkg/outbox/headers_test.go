package outbox_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/catalog-service/pkg/correlationid"
	"github.com/tuanvumaihuynh/catalog-service/pkg/outbox"
)

func TestHeaders(t *testing.T) {
	ctx := correlationid.NewContext(context.Background(), "corr-1")

	headers := outbox.BuildHeaders(ctx)
	assert.Equal(t, "corr-1", headers[correlationid.Header])

	t.Run("Should restore correlation id from headers map", func(t *testing.T) {
		got, ok := correlationid.FromContext(outbox.ExtractContextFromHeaders(context.Background(), headers))
		assert.True(t, ok)
		assert.Equal(t, "corr-1", got)
	})

	t.Run("Should restore correlation id from kafka record", func(t *testing.T) {
		rec := &kgo.Record{Headers: []kgo.RecordHeader{{Key: correlationid.Header, Value: []byte("corr-1")}}}

		got, ok := correlationid.FromContext(outbox.ExtractContextFromRecord(context.Background(), rec))
		assert.True(t, ok)
		assert.Equal(t, "corr-1", got)
	})

	t.Run("Should leave context untouched without headers", func(t *testing.T) {
		_, ok := correlationid.FromContext(outbox.ExtractContextFromRecord(context.Background(), &kgo.Record{}))
		assert.False(t, ok)
	})
}
