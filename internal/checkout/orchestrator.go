// Package checkout drives the fixed three-step checkout flow over a draft
// order: Shipping -> Payment -> Review, then a terminal Completed on
// submission. Forward moves are gated by per-step validation; the final
// submission consumes the cart snapshot and produces an ephemeral Order.
package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/domain"
	"github.com/kajarral-381/jarrals-kitchen-sub000/internal/notify"
)

var (
	// ErrEmptyCart rejects checkout before the first step is ever reached.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrIllegalTransition is returned when an operation does not apply to
	// the current step.
	ErrIllegalTransition = errors.New("illegal checkout transition")
)

// CartAccess is what the orchestrator needs from the cart store. It reads
// totals and the line snapshot, and mutates the cart only through Clear.
type CartAccess interface {
	Snapshot() domain.Cart
	Totals() (count int, price float64)
	Clear() domain.Cart
}

// Pricing carries the fixed delivery-fee table and the tax rate.
type Pricing struct {
	TaxRate      float64
	DeliveryFees map[domain.DeliveryMethod]float64
}

// DefaultPricing returns the storefront defaults.
func DefaultPricing() Pricing {
	return Pricing{
		TaxRate: 0.08,
		DeliveryFees: map[domain.DeliveryMethod]float64{
			domain.DeliveryStandard: 2.99,
			domain.DeliveryExpress:  7.99,
			domain.DeliveryPickup:   0,
		},
	}
}

const dispatchTimeout = 15 * time.Second

// Orchestrator owns one checkout flow's draft and step position. It is
// created per session and injected; it never reaches for ambient state.
type Orchestrator struct {
	mu       sync.Mutex
	step     Step
	active   bool
	draft    Draft
	cart     CartAccess
	notifier notify.Notifier
	pricing  Pricing
	logger   *zap.Logger
}

func NewOrchestrator(cart CartAccess, notifier notify.Notifier, pricing Pricing, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		step:     StepShipping,
		cart:     cart,
		notifier: notifier,
		pricing:  pricing,
		logger:   logger,
	}
}

// Begin starts (or restarts) the flow with a fresh draft, optionally
// pre-filled from the signed-in user. An empty cart is rejected here, as a
// precondition, not as a step validation.
func (o *Orchestrator) Begin(prefill *domain.ShippingDetails) error {
	count, _ := o.cart.Totals()
	if count == 0 {
		return ErrEmptyCart
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.draft = Draft{Delivery: domain.DeliveryStandard, Payment: domain.PaymentBankTransfer}
	if prefill != nil {
		o.draft.Shipping = *prefill
	}
	o.step = StepShipping
	o.active = true
	return nil
}

// Step returns the current flow position.
func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

// Draft returns a copy of the current draft.
func (o *Orchestrator) Draft() Draft {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.draft
}

// SubmitShipping records the shipping details on the draft and advances to
// Payment when they validate. On failure the draft keeps the submitted
// values and the step does not move.
func (o *Orchestrator) SubmitShipping(details domain.ShippingDetails, delivery domain.DeliveryMethod, notes string) (FieldErrors, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active || !canTransition(o.step, StepPayment) {
		return nil, ErrIllegalTransition
	}
	o.draft.Shipping = details
	o.draft.Delivery = delivery
	o.draft.Notes = notes

	if errs := o.draft.validateShipping(); len(errs) > 0 {
		return errs, nil
	}
	o.step = StepPayment
	return nil, nil
}

// SubmitPayment records the payment details and advances to Review when
// they validate.
func (o *Orchestrator) SubmitPayment(method domain.PaymentMethod, transactionID string) (FieldErrors, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active || !canTransition(o.step, StepReview) {
		return nil, ErrIllegalTransition
	}
	o.draft.Payment = method
	o.draft.TransactionID = transactionID

	if errs := o.draft.validatePayment(); len(errs) > 0 {
		return errs, nil
	}
	o.step = StepReview
	return nil, nil
}

// Back moves one step backward. Backward moves are always permitted and
// never re-validate the step being left.
func (o *Orchestrator) Back() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	var to Step
	switch o.step {
	case StepPayment:
		to = StepShipping
	case StepReview:
		to = StepPayment
	default:
		return ErrIllegalTransition
	}
	if !o.active || !canTransition(o.step, to) {
		return ErrIllegalTransition
	}
	o.step = to
	return nil
}

// Submit completes the flow from Review: it freezes the cart into an Order,
// computes the totals, clears the active cart and dispatches the order to
// the notifier. Prior steps are not re-validated here; the forward gates
// already ran when the steps were advanced. Notification dispatch is
// asynchronous and best effort, its outcome never affects the placed order.
func (o *Orchestrator) Submit(ctx context.Context) (*domain.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active || !canTransition(o.step, StepCompleted) {
		return nil, ErrIllegalTransition
	}

	snapshot := o.cart.Snapshot()
	if len(snapshot.ActiveItems) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := snapshot.TotalPrice()
	fee := o.pricing.DeliveryFees[o.draft.Delivery]
	tax := subtotal * o.pricing.TaxRate

	order := &domain.Order{
		ID:            uuid.New(),
		Items:         orderItems(snapshot.ActiveItems),
		Subtotal:      subtotal,
		DeliveryFee:   fee,
		Tax:           tax,
		Total:         subtotal + fee + tax,
		Delivery:      o.draft.Delivery,
		Payment:       o.draft.Payment,
		TransactionID: o.draft.TransactionID,
		Shipping:      o.draft.Shipping,
		Notes:         o.draft.Notes,
		CreatedAt:     time.Now(),
	}

	o.step = StepCompleted
	o.active = false
	o.draft = Draft{}
	o.cart.Clear()

	go o.dispatch(*order)

	return order, nil
}

// dispatch sends the order to the notifier on a detached, bounded context
// so it outlives the submitting request but cannot linger forever. Channel
// failures are logged only.
func (o *Orchestrator) dispatch(order domain.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	results, err := o.notifier.Send(ctx, order)
	if err != nil {
		o.logger.Warn("order notification dispatch failed",
			zap.String("order_id", order.ID.String()), zap.Error(err))
		return
	}
	for _, res := range results {
		if res.Success {
			o.logger.Info("order notification sent",
				zap.String("order_id", order.ID.String()),
				zap.String("channel", res.Channel))
		} else {
			o.logger.Warn("order notification channel failed",
				zap.String("order_id", order.ID.String()),
				zap.String("channel", res.Channel),
				zap.String("detail", res.Detail))
		}
	}
}

func orderItems(lines []domain.CartLine) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return items
}
