package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/internal/db"
	"github.com/evoapps/confeitaria-backend/internal/storage"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testDeliveryFee = 5.0

type testEnv struct {
	db        *gorm.DB
	users     repository.UserRepository
	stores    repository.StoreRepository
	cats      repository.CategoryRepository
	products  repository.ProductRepository
	clients   repository.ClientRepository
	orders    repository.OrderRepository
	backups   repository.BackupRepository
	activity  ActivityService
	throttle  *MemoryLoginThrottle
	revoker   *MemoryTokenRevoker
	auth      AuthService
	events    *recordingPublisher
	orderSvc  OrderService
	store     *model.Store
	employee  *model.User
	manager   *model.User
	adminUser *model.User
}

func setupTestEnv(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:       testDB,
		users:    repository.NewUserRepository(testDB),
		stores:   repository.NewStoreRepository(testDB),
		cats:     repository.NewCategoryRepository(testDB),
		products: repository.NewProductRepository(testDB),
		clients:  repository.NewClientRepository(testDB),
		orders:   repository.NewOrderRepository(testDB),
		backups:  repository.NewBackupRepository(testDB),
		throttle: NewMemoryLoginThrottle(),
		revoker:  NewMemoryTokenRevoker(),
		events:   &recordingPublisher{},
	}
	env.activity = NewActivityService(repository.NewActivityRepository(testDB))
	env.auth = NewAuthService(env.users, env.activity, env.throttle, env.revoker, "test-jwt-secret", 15*time.Minute, 24*time.Hour)
	env.orderSvc = NewOrderService(env.orders, env.products, env.clients, env.stores, env.auth, env.activity, env.events, testDeliveryFee)

	env.store = &model.Store{Name: "Centro", Theme: model.DefaultTheme()}
	require.NoError(t, env.stores.Create(env.store))

	env.adminUser = env.createUser(t, "admin", "admin123", model.RoleAdmin, nil)
	env.manager = env.createUser(t, "gerente", "gerente123", model.RoleManager, &env.store.ID)
	env.employee = env.createUser(t, "caixa01", "caixa123", model.RoleEmployee, &env.store.ID)
	return env
}

func (env *testEnv) createUser(t *testing.T, login, password string, role model.UserRole, storeID *uint) *model.User {
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{Name: login, Login: login, PasswordHash: hash, Role: role, StoreID: storeID}
	require.NoError(t, env.users.Create(user))
	return user
}

func (env *testEnv) createProduct(t *testing.T, name string, price float64, categoryID *uint) *model.Product {
	product := &model.Product{StoreID: env.store.ID, Name: name, Price: price, CategoryID: categoryID, Active: true}
	require.NoError(t, env.products.Create(product))
	return product
}

type recordingPublisher struct {
	mu       sync.Mutex
	created  []uint
	statuses []model.OrderStatus
}

func (p *recordingPublisher) OrderCreated(order *model.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, order.ID)
}

func (p *recordingPublisher) OrderStatusChanged(order *model.Order, _ model.OrderStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, order.Status)
}

// memoryBlobs is a BlobStorage kept in a map
type memoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: make(map[string][]byte)}
}

func (m *memoryBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *memoryBlobs) Backend() string {
	return "memory"
}
