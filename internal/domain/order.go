package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryMethod selects the fixed delivery fee applied at checkout.
type DeliveryMethod string

const (
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryExpress  DeliveryMethod = "express"
	DeliveryPickup   DeliveryMethod = "pickup"
)

// Valid reports whether the value is one of the supported methods.
func (m DeliveryMethod) Valid() bool {
	switch m {
	case DeliveryStandard, DeliveryExpress, DeliveryPickup:
		return true
	}
	return false
}

// PaymentMethod is fixed to a single manual bank-transfer method; the type
// exists so adding a second method stays a local change.
type PaymentMethod string

const PaymentBankTransfer PaymentMethod = "bank_transfer"

// OrderItem is a cart line frozen at submission time.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// ShippingDetails is the validated shipping portion of a checkout draft.
type ShippingDetails struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Order is the finalized record produced once checkout is submitted. It is
// ephemeral: rendered on the confirmation view and dispatched to the
// notifier, never stored.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	Items         []OrderItem     `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	DeliveryFee   float64         `json:"delivery_fee"`
	Tax           float64         `json:"tax"`
	Total         float64         `json:"total"`
	Delivery      DeliveryMethod  `json:"delivery_method"`
	Payment       PaymentMethod   `json:"payment_method"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Shipping      ShippingDetails `json:"shipping"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
