package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusAccepted  OrderStatus = "accepted"
	StatusRejected  OrderStatus = "rejected"
	StatusDelivered OrderStatus = "delivered"
)

// ParseOrderStatus converts a raw value into one of the four known statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case StatusPending, StatusAccepted, StatusRejected, StatusDelivered:
		return OrderStatus(s), true
	}
	return "", false
}

// Order is a single-item order placed by a customer with a restaurant.
// Total is captured at creation and never recomputed.
type Order struct {
	ID           int64           `json:"id" db:"id"`
	CustomerID   int64           `json:"customerId" db:"customer_id"`
	RestaurantID int64           `json:"restaurantId" db:"restaurant_id"`
	ItemID       int64           `json:"itemId" db:"item_id"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Total        decimal.Decimal `json:"total" db:"total"`
	Status       OrderStatus     `json:"status" db:"status"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderView is an order row joined with the names shown on order lists.
type OrderView struct {
	ID             int64
	ItemName       string
	Quantity       int
	Total          decimal.Decimal
	Status         OrderStatus
	CustomerName   string
	RestaurantName string
	CreatedAt      time.Time
	// NextStatuses and Final are filled for restaurant listings only.
	NextStatuses []OrderStatus
	Final        bool
}

// StatusChange is one entry of an order's audit trail.
type StatusChange struct {
	ID        int64       `db:"id"`
	OrderID   int64       `db:"order_id"`
	From      OrderStatus `db:"from_status"`
	To        OrderStatus `db:"to_status"`
	ChangedBy int64       `db:"changed_by"`
	ChangedAt time.Time   `db:"changed_at"`
}
