package service

import (
	"context"
	"errors"
	"testing"

	"food-ordering/internal/events"
	"food-ordering/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceMocks struct {
	orders    *MockOrderRepository
	menu      *MockMenuRepository
	publisher *MockPublisher
	tx        *MockTx
}

func newTestOrderService() (OrderService, *orderServiceMocks) {
	m := &orderServiceMocks{
		orders:    new(MockOrderRepository),
		menu:      new(MockMenuRepository),
		publisher: new(MockPublisher),
		tx:        new(MockTx),
	}
	return NewOrderService(m.orders, m.menu, m.publisher, zerolog.Nop()), m
}

func pizzaItem() *model.MenuItem {
	return &model.MenuItem{ID: 10, RestaurantID: 2, Name: "Pizza", Price: decimal.RequireFromString("10.00")}
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()

	m.menu.On("GetByID", ctx, int64(10)).Return(pizzaItem(), nil)
	m.orders.On("Create", ctx, mock.AnythingOfType("*model.Order")).
		Run(func(args mock.Arguments) {
			o := args.Get(1).(*model.Order)
			o.ID = 100
			o.Status = model.StatusPending
		}).
		Return(nil)
	m.publisher.On("Publish", ctx, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.TypeOrderPlaced && e.OrderID == 100
	})).Return(nil)

	order, err := svc.PlaceOrder(ctx, 1, 10, "3")

	require.NoError(t, err)
	assert.Equal(t, int64(100), order.ID)
	assert.Equal(t, int64(1), order.CustomerID)
	assert.Equal(t, int64(2), order.RestaurantID)
	assert.Equal(t, 3, order.Quantity)
	assert.Equal(t, "30.00", order.Total.StringFixed(2))
	assert.Equal(t, model.StatusPending, order.Status)

	m.menu.AssertExpectations(t)
	m.orders.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestOrderService_PlaceOrder_QuantityCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"0", 1},
		{"-4", 1},
		{"abc", 1},
		{"2.5", 1},
		{" 2 ", 2},
		{"1000", 1000},
		{"-99999999999999999999", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newTestOrderService()

			m.menu.On("GetByID", ctx, int64(10)).Return(pizzaItem(), nil)
			m.orders.On("Create", ctx, mock.AnythingOfType("*model.Order")).Return(nil)
			m.publisher.On("Publish", ctx, mock.Anything).Return(nil)

			order, err := svc.PlaceOrder(ctx, 1, 10, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, order.Quantity)
			assert.True(t, order.Total.Equal(decimal.NewFromInt(int64(tt.want*10))))
		})
	}
}

func TestOrderService_PlaceOrder_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown item", func(t *testing.T) {
		svc, m := newTestOrderService()
		m.menu.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := svc.PlaceOrder(ctx, 1, 99, "1")
		assert.ErrorIs(t, err, model.ErrItemNotFound)
		m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	for _, raw := range []string{"1001", "5000", "99999999999999999999"} {
		t.Run("quantity too large "+raw, func(t *testing.T) {
			svc, m := newTestOrderService()
			m.menu.On("GetByID", ctx, int64(10)).Return(pizzaItem(), nil)

			_, err := svc.PlaceOrder(ctx, 1, 10, raw)
			assert.ErrorIs(t, err, model.ErrQuantityTooLarge)
			m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("unknown item wins over quantity too large", func(t *testing.T) {
		svc, m := newTestOrderService()
		m.menu.On("GetByID", ctx, int64(99)).Return(nil, nil)

		_, err := svc.PlaceOrder(ctx, 1, 99, "5000")
		assert.ErrorIs(t, err, model.ErrItemNotFound)
		m.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the order", func(t *testing.T) {
		svc, m := newTestOrderService()
		m.menu.On("GetByID", ctx, int64(10)).Return(pizzaItem(), nil)
		m.orders.On("Create", ctx, mock.Anything).Return(nil)
		m.publisher.On("Publish", ctx, mock.Anything).Return(errors.New("broker gone"))

		order, err := svc.PlaceOrder(ctx, 1, 10, "1")
		require.NoError(t, err)
		assert.NotNil(t, order)
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, m := newTestOrderService()
		m.menu.On("GetByID", ctx, int64(10)).Return(pizzaItem(), nil)
		m.orders.On("Create", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := svc.PlaceOrder(ctx, 1, 10, "1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to place order")
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestOrderService_ListRestaurantOrders_NextStatuses(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()

	m.orders.On("ListByRestaurant", ctx, int64(2)).Return([]model.OrderView{
		{ID: 3, Status: model.StatusPending},
		{ID: 2, Status: model.StatusAccepted},
		{ID: 1, Status: model.StatusDelivered},
	}, nil)

	views, err := svc.ListRestaurantOrders(ctx, 2)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, []model.OrderStatus{model.StatusAccepted, model.StatusRejected}, views[0].NextStatuses)
	assert.Equal(t, []model.OrderStatus{model.StatusDelivered}, views[1].NextStatuses)
	assert.Empty(t, views[2].NextStatuses)

	assert.False(t, views[0].Final)
	assert.False(t, views[1].Final)
	assert.True(t, views[2].Final)
}

func TestOrderService_ListCustomerOrders(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()

	m.orders.On("ListByCustomer", ctx, int64(1)).Return(nil, errors.New("timeout"))

	_, err := svc.ListCustomerOrders(ctx, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list customer orders")
}

func TestOrderService_UpdateStatus_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()

	pending := &model.Order{ID: 5, CustomerID: 1, RestaurantID: 2, ItemID: 10, Quantity: 3, Status: model.StatusPending}

	m.orders.On("BeginTx", ctx).Return(m.tx, nil)
	m.orders.On("GetForUpdate", ctx, m.tx, int64(5), int64(2)).Return(pending, nil)
	m.orders.On("UpdateStatus", ctx, m.tx, int64(5), model.StatusAccepted).Return(nil)
	m.orders.On("CreateStatusChange", ctx, m.tx, mock.MatchedBy(func(c *model.StatusChange) bool {
		return c.From == model.StatusPending && c.To == model.StatusAccepted && c.ChangedBy == 2
	})).Return(nil)
	m.tx.On("Commit", ctx).Return(nil)
	m.publisher.On("Publish", ctx, mock.MatchedBy(func(e events.Event) bool {
		return e.Type == events.TypeOrderStatusChanged &&
			e.Status == model.StatusAccepted &&
			e.PreviousStatus == model.StatusPending
	})).Return(nil)

	order, err := svc.UpdateStatus(ctx, 2, 5, "accepted")

	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, order.Status)
	assert.True(t, m.tx.committed)
	assert.False(t, m.tx.rolledBack)

	m.orders.AssertExpectations(t)
	m.tx.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc, m := newTestOrderService()

	_, err := svc.UpdateStatus(context.Background(), 2, 5, "bogus")

	assert.ErrorIs(t, err, model.ErrInvalidStatus)
	m.orders.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_UpdateStatus_NotOwned(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()

	m.orders.On("BeginTx", ctx).Return(m.tx, nil)
	m.orders.On("GetForUpdate", ctx, m.tx, int64(5), int64(3)).Return(nil, nil)
	m.tx.On("Rollback", ctx).Return(nil)

	_, err := svc.UpdateStatus(ctx, 3, 5, "accepted")

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
	assert.True(t, m.tx.rolledBack)
	m.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    model.OrderStatus
		to      string
		allowed bool
	}{
		{model.StatusPending, "accepted", true},
		{model.StatusPending, "rejected", true},
		{model.StatusPending, "delivered", false},
		{model.StatusPending, "pending", false},
		{model.StatusAccepted, "delivered", true},
		{model.StatusAccepted, "rejected", false},
		{model.StatusDelivered, "pending", false},
		{model.StatusRejected, "accepted", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+tt.to, func(t *testing.T) {
			ctx := context.Background()
			svc, m := newTestOrderService()

			order := &model.Order{ID: 5, RestaurantID: 2, Status: tt.from}
			m.orders.On("BeginTx", ctx).Return(m.tx, nil)
			m.orders.On("GetForUpdate", ctx, m.tx, int64(5), int64(2)).Return(order, nil)
			m.orders.On("UpdateStatus", ctx, m.tx, int64(5), mock.Anything).Return(nil).Maybe()
			m.orders.On("CreateStatusChange", ctx, m.tx, mock.Anything).Return(nil).Maybe()
			m.tx.On("Commit", ctx).Return(nil).Maybe()
			m.tx.On("Rollback", ctx).Return(nil).Maybe()
			m.publisher.On("Publish", ctx, mock.Anything).Return(nil).Maybe()

			_, err := svc.UpdateStatus(ctx, 2, 5, tt.to)

			if tt.allowed {
				require.NoError(t, err)
				assert.True(t, m.tx.committed)
				return
			}

			assert.ErrorIs(t, err, model.ErrInvalidTransition)
			assert.True(t, m.tx.rolledBack)
			assert.False(t, m.tx.committed)
			m.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_UpdateStatus_RollbackOnFailure(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()

	order := &model.Order{ID: 5, RestaurantID: 2, Status: model.StatusPending}
	m.orders.On("BeginTx", ctx).Return(m.tx, nil)
	m.orders.On("GetForUpdate", ctx, m.tx, int64(5), int64(2)).Return(order, nil)
	m.orders.On("UpdateStatus", ctx, m.tx, int64(5), model.StatusRejected).Return(nil)
	m.orders.On("CreateStatusChange", ctx, m.tx, mock.Anything).Return(errors.New("insert failed"))
	m.tx.On("Rollback", ctx).Return(nil)

	_, err := svc.UpdateStatus(ctx, 2, 5, "rejected")

	require.Error(t, err)
	assert.True(t, m.tx.rolledBack)
	assert.False(t, m.tx.committed)
	assert.Equal(t, model.StatusPending, order.Status)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_BeginTxFailure(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestOrderService()

	m.orders.On("BeginTx", ctx).Return(nil, errors.New("pool exhausted"))

	_, err := svc.UpdateStatus(ctx, 2, 5, "accepted")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update order")
}
