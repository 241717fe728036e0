package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleCategoryEvent(ctx context.Context, topic string, ev CategoryEvent) error {
	s.logger.InfoContext(ctx, "handling category event",
		slog.String("topic", topic),
		slog.Int64("category_id", ev.CategoryID),
		slog.String("code", ev.Code),
	)
	return nil
}

func (s *Service) handleCategoryDeletedEvent(ctx context.Context, _ string, ev CategoryDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling category deleted event",
		slog.Int64("category_id", ev.CategoryID),
		slog.String("code", ev.Code),
	)
	return nil
}

func (s *Service) handleItemEvent(ctx context.Context, topic string, ev ItemEvent) error {
	s.logger.InfoContext(ctx, "handling item event",
		slog.String("topic", topic),
		slog.Int64("item_id", ev.ItemID),
		slog.String("sku", ev.Sku),
		slog.Int64("category_id", ev.CategoryID),
	)
	return nil
}

func (s *Service) handleItemStockUpdatedEvent(ctx context.Context, _ string, ev ItemStockUpdatedEvent) error {
	attrs := []any{
		slog.Int64("item_id", ev.ItemID),
		slog.String("sku", ev.Sku),
		slog.Int("previous_stock", ev.PreviousStock),
		slog.Int("stock", ev.Stock),
	}

	if ev.Stock == 0 {
		s.logger.WarnContext(ctx, "item is out of stock", attrs...)
		return nil
	}

	s.logger.InfoContext(ctx, "handling item stock updated event", attrs...)
	return nil
}

func (s *Service) handleItemDeletedEvent(ctx context.Context, _ string, ev ItemDeletedEvent) error {
	s.logger.InfoContext(ctx, "handling item deleted event",
		slog.Int64("item_id", ev.ItemID),
		slog.String("sku", ev.Sku),
	)
	return nil
}
