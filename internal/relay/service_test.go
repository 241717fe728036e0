package relay_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/relay"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository"
	"github.com/tuanvumaihuynh/catalog-service/internal/repository/repotest"
	"github.com/tuanvumaihuynh/catalog-service/internal/storage/mq"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

type mockProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failOn   string
}

func (p *mockProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if msg.Topic == p.failOn {
		return errors.New("broker unavailable")
	}
	p.produced = append(p.produced, msg)
	return nil
}

func newRelay(store *repotest.Store, producer mq.Producer) *relay.Service {
	cfg := config.Relay{BatchSize: 10, Interval: 10 * time.Millisecond, ProduceTimeout: time.Second}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return relay.NewService(cfg, logger, store.DB(), store.Outbox(), producer)
}

func TestRelayBatch(t *testing.T) {
	store := repotest.NewStore()
	outbox := store.Outbox()

	require.NoError(t, outbox.CreateOutboxMsg(t.Context(), repository.CreateOutboxMsgParams{
		Topic:        "category.created",
		Headers:      map[string]string{"X-Correlation-ID": "corr-1"},
		Payload:      []byte(`{"category_id":1}`),
		PartitionKey: ptr.New("1"),
	}))
	require.NoError(t, outbox.CreateOutboxMsg(t.Context(), repository.CreateOutboxMsgParams{
		Topic:   "item.created",
		Payload: []byte(`{"item_id":1}`),
	}))

	producer := &mockProducer{failOn: "item.created"}
	svc := newRelay(store, producer)

	n, err := svc.RelayBatch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, producer.produced, 1)
	assert.Equal(t, "category.created", producer.produced[0].Topic)
	assert.Equal(t, "corr-1", producer.produced[0].Headers["X-Correlation-ID"])
	assert.Equal(t, ptr.New("1"), producer.produced[0].PartitionKey)

	msgs := store.OutboxMsgs()

	processed, errMsg := store.OutboxResult(msgs[0].ID)
	assert.True(t, processed)
	assert.Nil(t, errMsg)

	processed, errMsg = store.OutboxResult(msgs[1].ID)
	assert.True(t, processed)
	require.NotNil(t, errMsg)
	assert.Equal(t, "broker unavailable", *errMsg)

	t.Run("Should skip processed messages", func(t *testing.T) {
		n, err := svc.RelayBatch(t.Context())
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestRun(t *testing.T) {
	store := repotest.NewStore()
	require.NoError(t, store.Outbox().CreateOutboxMsg(t.Context(), repository.CreateOutboxMsgParams{
		Topic:   "item.deleted",
		Payload: []byte(`{"item_id":1}`),
	}))

	producer := &mockProducer{}
	cleanup := newRelay(store, producer).Run(t.Context())
	defer cleanup()

	assert.Eventually(t, func() bool {
		processed, _ := store.OutboxResult(store.OutboxMsgs()[0].ID)
		return processed
	}, time.Second, 10*time.Millisecond)
}
