package service

import (
	"context"

	"food-ordering/internal/model"
)

// AuthService defines account registration and credential checks.
type AuthService interface {
	// Register creates a customer account from the public form.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)

	// Login verifies credentials and returns the matching user.
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)

	// EnsureAdmin creates or promotes the bootstrap administrator.
	EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error)
}

// MenuService defines operations on the catalog.
type MenuService interface {
	// ListMenu returns every item with the name of its restaurant.
	ListMenu(ctx context.Context) ([]model.MenuEntry, error)

	// GetItem returns model.ErrItemNotFound when the item does not exist.
	GetItem(ctx context.Context, id int64) (*model.MenuItem, error)

	// AddItem validates the raw form and stores a new item for the restaurant.
	AddItem(ctx context.Context, restaurantID int64, req *model.AddItemRequest) (*model.MenuItem, error)

	// ListRestaurantItems returns the items owned by one restaurant.
	ListRestaurantItems(ctx context.Context, restaurantID int64) ([]model.MenuItem, error)
}

// OrderService defines order placement and fulfilment.
type OrderService interface {
	// PlaceOrder creates a pending order. rawQuantity is coerced to 1 when
	// it is missing, not a number or below 1.
	PlaceOrder(ctx context.Context, customerID, itemID int64, rawQuantity string) (*model.Order, error)

	// ListCustomerOrders returns a customer's orders, newest first.
	ListCustomerOrders(ctx context.Context, customerID int64) ([]model.OrderView, error)

	// ListRestaurantOrders returns a restaurant's orders, newest first, each
	// with the statuses it may move to.
	ListRestaurantOrders(ctx context.Context, restaurantID int64) ([]model.OrderView, error)

	// UpdateStatus moves one of the restaurant's orders to rawStatus.
	UpdateStatus(ctx context.Context, restaurantID, orderID int64, rawStatus string) (*model.Order, error)
}

// UserService defines account administration.
type UserService interface {
	// ListUsers returns every account ordered by ID.
	ListUsers(ctx context.Context) ([]model.User, error)

	// GetUser returns nil, nil when the user does not exist.
	GetUser(ctx context.Context, id int64) (*model.User, error)

	// GrantRole sets the role of targetID on behalf of actorID.
	GrantRole(ctx context.Context, actorID, targetID int64, rawRole string) error
}
