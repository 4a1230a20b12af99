package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicatePayment is returned by Create when an order for the same
	// payment identifier already exists. The unique index on payment_id is
	// the true idempotency arbiter; existence checks are only a fast path.
	ErrDuplicatePayment = errors.New("an order for this payment already exists")
)

type OrderStatus int

const (
	Pending OrderStatus = iota
	Paid
	Shipped
	Delivered
	Cancelled
)

func (s OrderStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Paid:
		return "paid"
	case Shipped:
		return "shipped"
	case Delivered:
		return "delivered"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

type Order struct {
	ID uuid.UUID
	// UserID is nil for fully anonymous guest orders.
	UserID            *uuid.UUID
	TotalCents        int64
	Status            OrderStatus
	ShippingAddress   string
	PaymentMethod     string
	PaymentID         string
	ExternalReference string
	CustomerEmail     string
	CustomerName      string
	Items             []LineItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LineItem snapshots a purchased product at payment time; PriceCents never
// changes with later product price edits.
type LineItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ProductID  uuid.UUID
	Title      string
	Quantity   int
	PriceCents int64
	Flavor     string
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	// Create persists the order header and all line items as one unit and
	// returns ErrDuplicatePayment on a payment_id uniqueness violation.
	Create(order *Order) error
	FindByPaymentID(paymentID string) (*Order, error)
	FindByExternalReference(externalReference string) (*Order, error)
	ListByUser(userID uuid.UUID) ([]Order, error)
}
