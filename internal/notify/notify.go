// Package notify dispatches completed orders to the customer-facing
// notification channels. Dispatch is best effort everywhere: a failed
// channel is reported in the result, never as a blocking error.
package notify

import (
	"context"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
)

// Result is the per-channel outcome of a dispatch.
type Result struct {
	Channel string `json:"channel"`
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
}

// Notifier accepts an order payload and reports per-channel results. Send
// must honour ctx cancellation and return promptly once it fires.
type Notifier interface {
	Send(ctx context.Context, order domain.Order) ([]Result, error)
}
