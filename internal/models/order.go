package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Order types.
const (
	OrderTypeDelivery = "DELIVERY"
	OrderTypePickup   = "PICKUP"
)

// Payment methods accepted at order time.
const (
	PaymentMethodCash = "CASH"
	PaymentMethodCard = "CARD"
)

// Payment statuses.
const (
	PaymentStatusPending = "PENDING"
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// Order is placed by a user. Items are created atomically with the order
// and immutable afterward; TotalAmount is always computed server-side.
type Order struct {
	BaseModel
	UserID        uuid.UUID       `gorm:"type:uuid;index" json:"user_id"`
	User          *User           `json:"user,omitempty"`
	Status        string          `gorm:"default:PENDING" json:"status"`
	OrderType     string          `json:"order_type"`
	ScheduledTime *time.Time      `json:"scheduled_time,omitempty"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Items         []OrderItem     `json:"items,omitempty"`
	Payment       *Payment        `json:"payment,omitempty"`
}

// OrderItem snapshots the product price at order time so historical orders
// are immune to later catalog price changes.
type OrderItem struct {
	BaseModel
	OrderID      uuid.UUID       `gorm:"type:uuid;index" json:"order_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;index" json:"product_id"`
	Product      *Product        `json:"product,omitempty"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_at_order"`
}

// Payment is the zero-or-one card payment record attached to an order.
// It is created at order time for CARD orders or at intent creation, and
// updated by the webhook reconciler.
type Payment struct {
	BaseModel
	OrderID       uuid.UUID       `gorm:"type:uuid;uniqueIndex" json:"order_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Status        string          `gorm:"default:PENDING" json:"status"`
	TransactionID string          `json:"transaction_id"`
}

// orderTransitions encodes the forward-only order lifecycle. CANCELLED is
// reachable from any non-terminal state.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
}

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
