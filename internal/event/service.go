package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/catalog-service/internal/storage/mq"
)

// Service consumes the catalog topics published by the outbox relay.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

// jsonHandler decodes the payload into T before calling fn.
func jsonHandler[T any](fn func(ctx context.Context, topic string, ev T) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev T
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := fn(ctx, topic, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}

func (s *Service) handlers() map[string]mq.HandlerFunc {
	return map[string]mq.HandlerFunc{
		TopicCategoryCreated:  jsonHandler(s.handleCategoryEvent),
		TopicCategoryUpdated:  jsonHandler(s.handleCategoryEvent),
		TopicCategoryDeleted:  jsonHandler(s.handleCategoryDeletedEvent),
		TopicItemCreated:      jsonHandler(s.handleItemEvent),
		TopicItemUpdated:      jsonHandler(s.handleItemEvent),
		TopicItemStockUpdated: jsonHandler(s.handleItemStockUpdatedEvent),
		TopicItemDeleted:      jsonHandler(s.handleItemDeletedEvent),
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	for topic, handler := range s.handlers() {
		if err := s.mqConsumer.RegisterHandler(topic, handler); err != nil {
			return nil, fmt.Errorf("register %s event handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}
