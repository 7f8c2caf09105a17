// Package events publishes order lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"food-ordering/internal/model"

	"github.com/shopspring/decimal"
)

// Routing keys used on the events exchange.
const (
	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

// Event is the JSON body of an order notification.
type Event struct {
	Type           string            `json:"type"`
	OrderID        int64             `json:"orderId"`
	CustomerID     int64             `json:"customerId"`
	RestaurantID   int64             `json:"restaurantId"`
	ItemID         int64             `json:"itemId"`
	Quantity       int               `json:"quantity"`
	Total          decimal.Decimal   `json:"total"`
	Status         model.OrderStatus `json:"status"`
	PreviousStatus model.OrderStatus `json:"previousStatus,omitempty"`
	ChangedBy      int64             `json:"changedBy,omitempty"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

// Publisher delivers events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// OrderPlaced builds the event emitted when a customer places an order.
func OrderPlaced(order *model.Order) Event {
	return Event{
		Type:         TypeOrderPlaced,
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		RestaurantID: order.RestaurantID,
		ItemID:       order.ItemID,
		Quantity:     order.Quantity,
		Total:        order.Total,
		Status:       order.Status,
		OccurredAt:   order.CreatedAt.UTC(),
	}
}

// StatusChanged builds the event emitted after a restaurant moves an order.
func StatusChanged(order *model.Order, change *model.StatusChange) Event {
	return Event{
		Type:           TypeOrderStatusChanged,
		OrderID:        order.ID,
		CustomerID:     order.CustomerID,
		RestaurantID:   order.RestaurantID,
		ItemID:         order.ItemID,
		Quantity:       order.Quantity,
		Total:          order.Total,
		Status:         change.To,
		PreviousStatus: change.From,
		ChangedBy:      change.ChangedBy,
		OccurredAt:     change.ChangedAt.UTC(),
	}
}

func encode(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}
	return body, nil
}

// nopPublisher discards every event.
type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops events, used when AMQP is disabled.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }
