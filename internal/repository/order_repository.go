package repository

import (
	"context"
	"errors"
	"fmt"

	"food-ordering/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order. Status defaults to pending in the schema.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	query := `
		INSERT INTO orders (customer_id, restaurant_id, item_id, quantity, total)
		VALUES ($1, $2, $3, $4, $5::text::numeric)
		RETURNING id, status, created_at, updated_at
	`

	var status string
	err := r.pool.QueryRow(ctx, query,
		order.CustomerID,
		order.RestaurantID,
		order.ItemID,
		order.Quantity,
		order.Total.String(),
	).Scan(&order.ID, &status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("customer_id", order.CustomerID).
			Int64("item_id", order.ItemID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}
	order.Status = model.OrderStatus(status)

	r.logger.Debug().
		Int64("order_id", order.ID).
		Msg("order created successfully")

	return nil
}

// GetForUpdate locks the order row for the rest of the transaction.
func (r *orderRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id, restaurantID int64) (*model.Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, item_id, quantity, total::text, status, created_at, updated_at
		FROM orders
		WHERE id = $1 AND restaurant_id = $2
		FOR UPDATE
	`

	var o model.Order
	var total, status string
	err := tx.QueryRow(ctx, query, id, restaurantID).Scan(
		&o.ID,
		&o.CustomerID,
		&o.RestaurantID,
		&o.ItemID,
		&o.Quantity,
		&total,
		&status,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().
				Int64("order_id", id).
				Int64("restaurant_id", restaurantID).
				Msg("order not found for restaurant")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if o.Total, err = parseNumeric(total); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)

	return &o, nil
}

// UpdateStatus sets the order's status within the provided transaction.
func (r *orderRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if tag.RowsAffected() != 1 {
		return fmt.Errorf("failed to update order status: %d rows affected", tag.RowsAffected())
	}

	return nil
}

// CreateStatusChange inserts an audit row within the provided transaction.
func (r *orderRepository) CreateStatusChange(ctx context.Context, tx pgx.Tx, change *model.StatusChange) error {
	query := `
		INSERT INTO order_status_history (order_id, from_status, to_status, changed_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, changed_at
	`

	err := tx.QueryRow(ctx, query, change.OrderID, string(change.From), string(change.To), change.ChangedBy).
		Scan(&change.ID, &change.ChangedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("order_id", change.OrderID).Msg("failed to record status change")
		return fmt.Errorf("failed to record status change: %w", err)
	}

	return nil
}

// ListByCustomer returns the customer's orders with item and restaurant names.
func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.OrderView, error) {
	query := `
		SELECT o.id, m.item_name, o.quantity, o.total::text, o.status, u.name, o.created_at
		FROM orders o
		JOIN menu m ON o.item_id = m.id
		JOIN users u ON o.restaurant_id = u.id
		WHERE o.customer_id = $1
		ORDER BY o.id DESC
	`

	return r.listViews(ctx, query, customerID, func(v *model.OrderView) *string { return &v.RestaurantName })
}

// ListByRestaurant returns the restaurant's orders with item and customer names.
func (r *orderRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.OrderView, error) {
	query := `
		SELECT o.id, m.item_name, o.quantity, o.total::text, o.status, u.name, o.created_at
		FROM orders o
		JOIN menu m ON o.item_id = m.id
		JOIN users u ON o.customer_id = u.id
		WHERE o.restaurant_id = $1
		ORDER BY o.id DESC
	`

	return r.listViews(ctx, query, restaurantID, func(v *model.OrderView) *string { return &v.CustomerName })
}

// listViews runs an order listing query; name selects which view field
// receives the joined user name.
func (r *orderRepository) listViews(
	ctx context.Context,
	query string,
	ownerID int64,
	name func(*model.OrderView) *string,
) ([]model.OrderView, error) {
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.Error().Err(err).Int64("owner_id", ownerID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var views []model.OrderView
	for rows.Next() {
		var v model.OrderView
		var total, status string
		if err := rows.Scan(&v.ID, &v.ItemName, &v.Quantity, &total, &status, name(&v), &v.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if v.Total, err = parseNumeric(total); err != nil {
			return nil, err
		}
		v.Status = model.OrderStatus(status)
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return views, nil
}
