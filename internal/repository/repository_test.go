package repository

import (
	"context"
	"testing"

	"food-ordering/internal/model"
	"food-ordering/internal/testutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture holds repositories sharing one migrated database.
type fixture struct {
	pool   *pgxpool.Pool
	users  UserRepository
	menu   MenuRepository
	orders OrderRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	pool := testutil.NewMigratedPool(t)
	logger := zerolog.Nop()

	return &fixture{
		pool:   pool,
		users:  NewUserRepository(pool, logger),
		menu:   NewMenuRepository(pool, logger),
		orders: NewOrderRepository(pool, logger),
	}
}

func (f *fixture) createUser(t *testing.T, name, email string, role model.Role) *model.User {
	t.Helper()

	u := &model.User{Name: name, Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) createItem(t *testing.T, restaurantID int64, name, price string) *model.MenuItem {
	t.Helper()

	item := &model.MenuItem{RestaurantID: restaurantID, Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, f.menu.Create(context.Background(), item))
	return item
}

func (f *fixture) createOrder(t *testing.T, customerID int64, item *model.MenuItem, qty int) *model.Order {
	t.Helper()

	o := &model.Order{
		CustomerID:   customerID,
		RestaurantID: item.RestaurantID,
		ItemID:       item.ID,
		Quantity:     qty,
		Total:        item.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
	require.NoError(t, f.orders.Create(context.Background(), o))
	return o
}
