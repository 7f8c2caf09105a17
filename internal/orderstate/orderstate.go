// Package orderstate defines which order status changes a restaurant may make.
package orderstate

import (
	"fmt"

	"food-ordering/internal/model"
)

// transitions maps each status to the statuses it may move to.
// Rejected and delivered orders are final.
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.StatusPending:  {model.StatusAccepted, model.StatusRejected},
	model.StatusAccepted: {model.StatusDelivered},
}

// Next returns the statuses reachable from the given one, in display order.
func Next(from model.OrderStatus) []model.OrderStatus {
	next := transitions[from]
	out := make([]model.OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsFinal reports whether no further change is allowed from the status.
func IsFinal(s model.OrderStatus) bool {
	return len(transitions[s]) == 0
}

// Check returns model.ErrInvalidTransition wrapped with context when the move is not allowed.
func Check(from, to model.OrderStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%s -> %s: %w", from, to, model.ErrInvalidTransition)
}
