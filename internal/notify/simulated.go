package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
)

// SimulatedNotifier stands in for the real email and chat channels. Each
// channel takes a fixed artificial delay and then succeeds; unlike the
// system it replaces, the delay is cancellable so a torn-down caller never
// receives a late callback.
type SimulatedNotifier struct {
	latency time.Duration
	logger  *zap.Logger
}

func NewSimulatedNotifier(latency time.Duration, logger *zap.Logger) *SimulatedNotifier {
	if latency <= 0 {
		latency = 400 * time.Millisecond
	}
	return &SimulatedNotifier{latency: latency, logger: logger}
}

func (n *SimulatedNotifier) Send(ctx context.Context, order domain.Order) ([]Result, error) {
	results := make([]Result, 0, 2)
	for _, channel := range []string{"email", "whatsapp"} {
		select {
		case <-time.After(n.latency):
		case <-ctx.Done():
			return results, ctx.Err()
		}

		n.logger.Info("simulated order notification",
			zap.String("channel", channel),
			zap.String("order_id", order.ID.String()),
			zap.String("recipient", order.Shipping.Email),
			zap.Float64("total", order.Total))
		results = append(results, Result{
			Channel: channel,
			Detail:  fmt.Sprintf("delivered to %s", order.Shipping.Email),
			Success: true,
		})
	}
	return results, nil
}
