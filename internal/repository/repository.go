package repository

import (
	"context"

	"food-ordering/internal/model"

	"github.com/jackc/pgx/v5"
)

// UserRepository defines data access for the credential store.
type UserRepository interface {
	// Create inserts a user and fills in its ID and CreatedAt.
	// Returns model.ErrDuplicateAccount when the email is taken.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail returns nil, nil when no user has the email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id int64) (*model.User, error)

	// List returns every user ordered by ID.
	List(ctx context.Context) ([]model.User, error)

	// UpdateRole sets a user's role and reports whether a row was changed.
	UpdateRole(ctx context.Context, id int64, role model.Role) (bool, error)
}

// MenuRepository defines data access for the catalog.
type MenuRepository interface {
	// Create inserts a menu item and fills in its ID and CreatedAt.
	Create(ctx context.Context, item *model.MenuItem) error

	// GetByID returns nil, nil when the item does not exist.
	GetByID(ctx context.Context, id int64) (*model.MenuItem, error)

	// ListWithRestaurant returns every item joined with its restaurant's name.
	ListWithRestaurant(ctx context.Context) ([]model.MenuEntry, error)

	// ListByRestaurant returns the items owned by one restaurant.
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.MenuItem, error)
}

// OrderRepository defines data access for the order ledger.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts an order and fills in its ID, Status and timestamps.
	Create(ctx context.Context, order *model.Order) error

	// GetForUpdate locks and returns the order when it belongs to the restaurant.
	// Returns nil, nil otherwise.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id, restaurantID int64) (*model.Order, error)

	// UpdateStatus sets the status of an order within the transaction.
	UpdateStatus(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) error

	// CreateStatusChange appends an audit entry within the transaction.
	CreateStatusChange(ctx context.Context, tx pgx.Tx, change *model.StatusChange) error

	// ListByCustomer returns a customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID int64) ([]model.OrderView, error)

	// ListByRestaurant returns a restaurant's orders, newest first.
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]model.OrderView, error)
}
