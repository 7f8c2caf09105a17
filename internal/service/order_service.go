package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"food-ordering/internal/events"
	"food-ordering/internal/model"
	"food-ordering/internal/orderstate"
	"food-ordering/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// maxQuantity bounds a single order line.
const maxQuantity = 1000

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		publisher: publisher,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder prices the order from the item's current price and routes it
// to the restaurant that owns the item.
func (s *orderService) PlaceOrder(ctx context.Context, customerID, itemID int64, rawQuantity string) (*model.Order, error) {
	item, err := s.menuRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	if item == nil {
		s.logger.Debug().Int64("item_id", itemID).Msg("order for unknown item")
		return nil, model.ErrItemNotFound
	}

	quantity, err := parseQuantity(rawQuantity)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		CustomerID:   customerID,
		RestaurantID: item.RestaurantID,
		ItemID:       item.ID,
		Quantity:     quantity,
		Total:        item.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Int64("order_id", order.ID).
		Int64("customer_id", customerID).
		Int64("restaurant_id", order.RestaurantID).
		Int("quantity", quantity).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")

	s.publish(ctx, events.OrderPlaced(order))

	return order, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID int64) ([]model.OrderView, error) {
	views, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	return views, nil
}

func (s *orderService) ListRestaurantOrders(ctx context.Context, restaurantID int64) ([]model.OrderView, error) {
	views, err := s.orderRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant orders: %w", err)
	}

	for i := range views {
		views[i].NextStatuses = orderstate.Next(views[i].Status)
		views[i].Final = orderstate.IsFinal(views[i].Status)
	}

	return views, nil
}

// UpdateStatus locks the order, checks the transition and records it in
// the audit trail, all in one transaction. Orders owned by another
// restaurant are reported as not found.
func (s *orderService) UpdateStatus(ctx context.Context, restaurantID, orderID int64, rawStatus string) (*model.Order, error) {
	to, ok := model.ParseOrderStatus(rawStatus)
	if !ok {
		s.logger.Debug().Str("status", rawStatus).Int64("order_id", orderID).Msg("unknown status requested")
		return nil, model.ErrInvalidStatus
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Int64("order_id", orderID).Msg("failed to rollback transaction")
			}
		}
	}()

	order, err := s.orderRepo.GetForUpdate(ctx, tx, orderID, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		s.logger.Warn().
			Int64("order_id", orderID).
			Int64("restaurant_id", restaurantID).
			Msg("status change for order not owned by restaurant")
		return nil, err
	}

	if err = orderstate.Check(order.Status, to); err != nil {
		s.logger.Debug().
			Int64("order_id", orderID).
			Str("from", string(order.Status)).
			Str("to", string(to)).
			Msg("transition not allowed")
		return nil, err
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, order.ID, to); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	change := &model.StatusChange{
		OrderID:   order.ID,
		From:      order.Status,
		To:        to,
		ChangedBy: restaurantID,
	}
	if err = s.orderRepo.CreateStatusChange(ctx, tx, change); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("order_id", orderID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	order.Status = to

	s.logger.Info().
		Int64("order_id", order.ID).
		Str("from", string(change.From)).
		Str("to", string(to)).
		Msg("order status updated")

	s.publish(ctx, events.StatusChanged(order, change))

	return order, nil
}

// publish never fails the caller; the order is already committed.
func (s *orderService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error().
			Err(err).
			Str("type", event.Type).
			Int64("order_id", event.OrderID).
			Msg("failed to publish order event")
	}
}

// parseQuantity returns 1 for empty, non-numeric and non-positive input and
// model.ErrQuantityTooLarge above maxQuantity, including values that overflow int.
func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	q, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return 0, model.ErrQuantityTooLarge
	}
	if err != nil || q < 1 {
		return 1, nil
	}
	if q > maxQuantity {
		return 0, model.ErrQuantityTooLarge
	}
	return q, nil
}
