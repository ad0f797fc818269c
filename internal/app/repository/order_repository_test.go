package repository

import (
	"testing"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.Store, []model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	store := createTestStore(t, testDB, "Centro")
	products := []model.Product{
		{StoreID: store.ID, Name: "Coxinha", Price: 7, Active: true},
		{StoreID: store.ID, Name: "Pão de queijo", Price: 4, Active: true},
	}
	require.NoError(t, testDB.Create(&products).Error)

	return testDB, NewOrderRepository(testDB), store, products
}

func newTestOrder(store *model.Store, customer string, status model.OrderStatus, items ...model.OrderItem) *model.Order {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal
	}
	return &model.Order{
		StoreID:      store.ID,
		CustomerName: customer,
		Type:         model.OrderTypeCounter,
		Status:       status,
		Subtotal:     subtotal,
		Total:        subtotal,
		Items:        items,
	}
}

func lineFor(p model.Product, qty int) model.OrderItem {
	return model.OrderItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
		LineTotal: p.Price * float64(qty),
	}
}

func TestOrderRepository_Create(t *testing.T) {
	testDB, repo, store, products := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(store, "Joana", model.OrderStatusPending, lineFor(products[0], 2), lineFor(products[1], 3))
	require.NoError(t, repo.Create(order))
	assert.NotZero(t, order.ID)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joana", found.CustomerName)
	assert.Len(t, found.Items, 2)
	assert.Equal(t, 26.0, found.Total)
}

func TestOrderRepository_FindWithFilter(t *testing.T) {
	testDB, repo, store, products := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	first := newTestOrder(store, "Joana Silva", model.OrderStatusPending, lineFor(products[0], 1))
	second := newTestOrder(store, "Pedro", model.OrderStatusReady, lineFor(products[1], 1))
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	// push the first order to yesterday
	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, testDB.Model(&model.Order{}).Where("id = ?", first.ID).Update("created_at", yesterday).Error)

	all, err := repo.FindWithFilter(OrderFilter{StoreID: &store.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	ready, err := repo.FindWithFilter(OrderFilter{StoreID: &store.ID, Status: model.OrderStatusReady})
	require.NoError(t, err)
	require.Len(t, ready, 1)
	assert.Equal(t, "Pedro", ready[0].CustomerName)

	byName, err := repo.FindWithFilter(OrderFilter{StoreID: &store.ID, Search: "joana"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, first.ID, byName[0].ID)

	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := repo.FindWithFilter(OrderFilter{StoreID: &store.ID, From: &startOfToday})
	require.NoError(t, err)
	require.Len(t, today, 1)
	assert.Equal(t, second.ID, today[0].ID)
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	testDB, repo, store, products := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := newTestOrder(store, "Joana", model.OrderStatusReady, lineFor(products[0], 1))
	require.NoError(t, repo.Create(order))

	now := time.Now()
	userID := uint(9)
	order.Status = model.OrderStatusDelivered
	order.CompletedBy = &userID
	order.CompletedAt = &now
	require.NoError(t, repo.UpdateStatus(order, model.OrderStatusReady))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, found.Status)
	require.NotNil(t, found.CompletedBy)
	assert.Equal(t, userID, *found.CompletedBy)
	assert.NotNil(t, found.CompletedAt)

	// stale expected status leaves the row untouched
	order.Status = model.OrderStatusCancelled
	order.CompletedBy = nil
	order.CompletedAt = nil
	assert.ErrorIs(t, repo.UpdateStatus(order, model.OrderStatusReady), ErrStatusChanged)

	found, err = repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, found.Status)

	missing := &model.Order{ID: 9999, Status: model.OrderStatusPreparing}
	assert.ErrorIs(t, repo.UpdateStatus(missing, model.OrderStatusPending), gorm.ErrRecordNotFound)
}

func TestOrderRepository_Aggregates(t *testing.T) {
	testDB, repo, store, products := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	orders := []*model.Order{
		newTestOrder(store, "A", model.OrderStatusPending, lineFor(products[0], 2)),
		newTestOrder(store, "B", model.OrderStatusPending, lineFor(products[1], 5)),
		newTestOrder(store, "C", model.OrderStatusDelivered, lineFor(products[0], 1), lineFor(products[1], 1)),
		newTestOrder(store, "D", model.OrderStatusCancelled, lineFor(products[0], 10)),
	}
	for _, o := range orders {
		require.NoError(t, repo.Create(o))
	}

	counts, err := repo.CountByStatus(store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.OrderStatusPending])
	assert.Equal(t, int64(0), counts[model.OrderStatusPreparing])
	assert.Equal(t, int64(1), counts[model.OrderStatusCancelled])

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	sum, err := repo.SumTotal(store.ID, from, to)
	require.NoError(t, err)
	assert.InDelta(t, 14+20+11, sum, 0.001, "cancelled orders are left out")

	top, err := repo.TopProducts(store.ID, nil, nil, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Pão de queijo", top[0].Name)
	assert.Equal(t, int64(6), top[0].Quantity)
	assert.Equal(t, "Coxinha", top[1].Name)
	assert.Equal(t, int64(3), top[1].Quantity)
}
