package event_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/event"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/mq"
)

type fakeConsumer struct {
	handlers map[string]mq.HandlerFunc
	running  bool
	stopped  bool
}

func (c *fakeConsumer) RegisterHandler(topic string, handler mq.HandlerFunc) error {
	if c.handlers == nil {
		c.handlers = make(map[string]mq.HandlerFunc)
	}
	c.handlers[topic] = handler
	return nil
}

func (c *fakeConsumer) Run(context.Context) (mq.CleanupFunc, error) {
	c.running = true
	return func() { c.stopped = true }, nil
}

func startService(t *testing.T) (*fakeConsumer, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	consumer := &fakeConsumer{}

	cleanup, err := event.New(logger, consumer).Run(t.Context())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return consumer, &buf
}

func TestRunRegistersEveryTopic(t *testing.T) {
	consumer, _ := startService(t)

	assert.True(t, consumer.running)
	for _, topic := range []string{
		event.TopicCategoryCreated,
		event.TopicCategoryUpdated,
		event.TopicCategoryDeleted,
		event.TopicItemCreated,
		event.TopicItemUpdated,
		event.TopicItemStockUpdated,
		event.TopicItemDeleted,
	} {
		assert.Contains(t, consumer.handlers, topic)
	}
}

func TestStockUpdatedHandler(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		level   string
		msg     string
	}{
		{
			name:    "Should warn when item runs out of stock",
			payload: `{"item_id":1,"sku":"S1","previous_stock":2,"stock":0,"delta":-2}`,
			level:   `"level":"WARN"`,
			msg:     "item is out of stock",
		},
		{
			name:    "Should log info when stock remains",
			payload: `{"item_id":1,"sku":"S1","previous_stock":2,"stock":1,"delta":-1}`,
			level:   `"level":"INFO"`,
			msg:     "handling item stock updated event",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			consumer, buf := startService(t)

			err := consumer.handlers[event.TopicItemStockUpdated](t.Context(), event.TopicItemStockUpdated, []byte(tc.payload))
			require.NoError(t, err)

			assert.Contains(t, buf.String(), tc.level)
			assert.Contains(t, buf.String(), tc.msg)
			assert.Contains(t, buf.String(), `"sku":"S1"`)
		})
	}
}

func TestHandlerRejectsMalformedPayload(t *testing.T) {
	consumer, _ := startService(t)

	err := consumer.handlers[event.TopicItemCreated](t.Context(), event.TopicItemCreated, []byte("{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal item.created event")
}

func TestCleanupStopsConsumer(t *testing.T) {
	var buf bytes.Buffer
	consumer := &fakeConsumer{}

	cleanup, err := event.New(slog.New(slog.NewTextHandler(&buf, nil)), consumer).Run(t.Context())
	require.NoError(t, err)

	cleanup()
	assert.True(t, consumer.stopped)
}
