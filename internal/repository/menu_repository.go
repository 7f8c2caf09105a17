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

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// Create inserts a menu item. The price round-trips as text to keep it exact.
func (r *menuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu (restaurant_id, item_name, price)
		VALUES ($1, $2, $3::text::numeric)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, item.RestaurantID, item.Name, item.Price.String()).
		Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("restaurant_id", item.RestaurantID).
			Msg("failed to create menu item")
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	r.logger.Debug().
		Int64("item_id", item.ID).
		Int64("restaurant_id", item.RestaurantID).
		Msg("menu item created successfully")

	return nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id int64) (*model.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, item_name, price::text, created_at
		FROM menu
		WHERE id = $1
	`

	var item model.MenuItem
	var price string
	err := r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.RestaurantID, &item.Name, &price, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("item_id", id).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("item_id", id).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	if item.Price, err = parseNumeric(price); err != nil {
		return nil, err
	}

	return &item, nil
}

// ListWithRestaurant returns every menu item with the owning restaurant's name.
func (r *menuRepository) ListWithRestaurant(ctx context.Context) ([]model.MenuEntry, error) {
	query := `
		SELECT m.id, m.restaurant_id, m.item_name, m.price::text, m.created_at, u.name
		FROM menu m
		JOIN users u ON m.restaurant_id = u.id
		ORDER BY u.name, m.item_name, m.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query menu")
		return nil, fmt.Errorf("failed to query menu: %w", err)
	}
	defer rows.Close()

	var entries []model.MenuEntry
	for rows.Next() {
		var e model.MenuEntry
		var price string
		if err := rows.Scan(&e.ID, &e.RestaurantID, &e.Name, &price, &e.CreatedAt, &e.RestaurantName); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		if e.Price, err = parseNumeric(price); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu rows")
		return nil, fmt.Errorf("error iterating menu: %w", err)
	}

	return entries, nil
}

// ListByRestaurant returns one restaurant's items in insertion order.
func (r *menuRepository) ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, item_name, price::text, created_at
		FROM menu
		WHERE restaurant_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		r.logger.Error().Err(err).Int64("restaurant_id", restaurantID).Msg("failed to query restaurant menu")
		return nil, fmt.Errorf("failed to query restaurant menu: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		var price string
		if err := rows.Scan(&item.ID, &item.RestaurantID, &item.Name, &price, &item.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu row")
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		if item.Price, err = parseNumeric(price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating menu rows")
		return nil, fmt.Errorf("error iterating menu: %w", err)
	}

	return items, nil
}
