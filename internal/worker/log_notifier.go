package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/polkiloo/restock/internal/domain/model"
)

// LogNotifier writes status events to the log when no transport is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the event.
func (n *LogNotifier) Notify(_ context.Context, event model.StatusEvent) error {
	n.logger.Info("restock order status changed",
		zap.Int64("event_id", event.ID),
		zap.Int64("order_id", event.OrderID),
		zap.String("skc", event.SKC),
		zap.String("shop", event.ShopRef),
		zap.String("from", event.From.String()),
		zap.String("to", event.To.String()),
		zap.String("operation", event.Operation),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

func (n *LogNotifier) Name() string {
	return "log"
}
