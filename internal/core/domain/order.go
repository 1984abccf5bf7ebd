package domain

import (
	"errors"
	"time"
)

// OrderStatus is the lifecycle state of a payment order.
type OrderStatus string

const (
	OrderPending OrderStatus = "pending"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotPayable    = errors.New("order cannot be paid")
	ErrBadSignature       = errors.New("payment signature mismatch")
	ErrPaymentNotComplete = errors.New("payment not completed")
)

// PaymentOrder is a pending gateway transaction for a room listing.
// The gateway reference is the external identifier signed into the redirect
// payload and echoed back on the verify callback.
type PaymentOrder struct {
	ID          string      `json:"id"`
	RoomID      string      `json:"room_id"`
	AccountID   string      `json:"account_id"`
	Amount      float64     `json:"amount"`
	GatewayRef  string      `json:"gateway_ref"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
