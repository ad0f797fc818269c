package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/evoapps/confeitaria-backend/internal/db"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/evoapps/confeitaria-backend/internal/storage"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	users    repository.UserRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
	blobs    *memoryBlobs
	store    *model.Store
	other    *model.Store
}

// setupAPI mounts every controller behind the same middleware chain the
// server uses, on an in-memory database seeded with one store and three users
func setupAPI(t *testing.T) *apiEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &apiEnv{
		db:       testDB,
		users:    repository.NewUserRepository(testDB),
		products: repository.NewProductRepository(testDB),
		clients:  repository.NewClientRepository(testDB),
		blobs:    newMemoryBlobs(),
	}
	storeRepo := repository.NewStoreRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	activity := service.NewActivityService(repository.NewActivityRepository(testDB))
	auth := service.NewAuthService(env.users, activity, service.NewMemoryLoginThrottle(), service.NewMemoryTokenRevoker(),
		"test-jwt-secret", 15*time.Minute, 24*time.Hour)
	orders := service.NewOrderService(orderRepo, env.products, env.clients, storeRepo, auth, activity,
		service.OrderEventPublishers{}, 5)
	backups := service.NewBackupService(repository.NewBackupRepository(testDB), env.blobs, activity, "backups")

	authCtrl := NewAuthController(auth)
	userCtrl := NewUserController(service.NewUserService(env.users, storeRepo, activity))
	storeCtrl := NewStoreController(service.NewStoreService(storeRepo, activity))
	categoryCtrl := NewCategoryController(service.NewCategoryService(categoryRepo))
	productCtrl := NewProductController(service.NewProductService(env.products, categoryRepo))
	orderCtrl := NewOrderController(orders)
	clientCtrl := NewClientController(service.NewClientService(env.clients, orderRepo))
	dashboardCtrl := NewDashboardController(
		service.NewDashboardService(orderRepo),
		service.NewReportService(orderRepo, env.products, categoryRepo),
		activity,
	)
	backupCtrl := NewBackupController(backups)
	uploadCtrl := NewUploadController(nil)

	mw := middleware.NewAuthMiddleware(auth)
	admin := mw.RequireRole(model.RoleAdmin)
	supervisor := mw.RequireRole(model.RoleAdmin, model.RoleOwner, model.RoleManager)

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.POST("/auth/login", authCtrl.Login)
	r.POST("/auth/refresh", authCtrl.Refresh)

	authed := r.Group("", mw.Authenticate())
	authed.POST("/auth/logout", authCtrl.Logout)
	authed.GET("/auth/me", authCtrl.GetMe)
	authed.POST("/auth/authorize", authCtrl.Authorize)

	authed.GET("/users", admin, userCtrl.List)
	authed.GET("/users/:id", admin, userCtrl.Get)
	authed.POST("/users", admin, userCtrl.Create)
	authed.PUT("/users/:id", admin, userCtrl.Update)
	authed.DELETE("/users/:id", admin, userCtrl.Delete)

	authed.GET("/stores", admin, storeCtrl.List)
	authed.POST("/stores", admin, storeCtrl.Create)
	authed.DELETE("/stores/:id", admin, storeCtrl.Delete)
	authed.GET("/stores/:id/theme", storeCtrl.GetTheme)
	authed.PUT("/stores/:id/theme", admin, storeCtrl.UpdateTheme)

	authed.GET("/admin/backups", admin, backupCtrl.List)
	authed.POST("/admin/backups", admin, backupCtrl.Create)
	authed.GET("/admin/backups/export", admin, backupCtrl.Export)
	authed.POST("/admin/backups/restore", admin, backupCtrl.Restore)
	authed.POST("/admin/backups/:id/restore", admin, backupCtrl.RestoreRecord)
	authed.GET("/admin/backups/settings", admin, backupCtrl.GetSettings)
	authed.PUT("/admin/backups/settings", admin, backupCtrl.UpdateSettings)

	authed.GET("/activities", supervisor, dashboardCtrl.Activities)

	scoped := authed.Group("", mw.RequireStore())
	scoped.GET("/categories", categoryCtrl.List)
	scoped.POST("/categories", supervisor, categoryCtrl.Create)
	scoped.DELETE("/categories/:id", supervisor, categoryCtrl.Delete)
	scoped.GET("/products", productCtrl.List)
	scoped.GET("/products/:id", productCtrl.Get)
	scoped.POST("/products", supervisor, productCtrl.Create)
	scoped.PUT("/products/:id", supervisor, productCtrl.Update)
	scoped.GET("/orders", orderCtrl.List)
	scoped.GET("/orders/export", orderCtrl.Export)
	scoped.GET("/orders/:id", orderCtrl.Get)
	scoped.GET("/orders/:id/receipt", orderCtrl.Receipt)
	scoped.POST("/orders", orderCtrl.Create)
	scoped.POST("/orders/:id/advance", orderCtrl.Advance)
	scoped.PUT("/orders/:id/status", orderCtrl.UpdateStatus)
	scoped.POST("/pdv/checkout", orderCtrl.Checkout)
	scoped.GET("/clients", clientCtrl.List)
	scoped.POST("/clients", clientCtrl.Create)
	scoped.GET("/clients/:id/orders", clientCtrl.Orders)
	scoped.GET("/dashboard/overview", supervisor, dashboardCtrl.Overview)
	scoped.GET("/reports/:type", supervisor, dashboardCtrl.Report)
	scoped.GET("/reports/:type/export", supervisor, dashboardCtrl.ExportReport)
	scoped.POST("/uploads/product-image", supervisor, uploadCtrl.ProductImage)
	env.router = r

	env.store = &model.Store{Name: "Centro", Theme: model.DefaultTheme()}
	require.NoError(t, storeRepo.Create(env.store))
	env.other = &model.Store{Name: "Filial", Theme: model.DefaultTheme()}
	require.NoError(t, storeRepo.Create(env.other))

	env.createUser(t, "admin", "admin123", model.RoleAdmin, nil)
	env.createUser(t, "gerente", "gerente123", model.RoleManager, &env.store.ID)
	env.createUser(t, "caixa01", "caixa123", model.RoleEmployee, &env.store.ID)
	return env
}

func (env *apiEnv) createUser(t *testing.T, login, password string, role model.UserRole, storeID *uint) *model.User {
	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{Name: login, Login: login, PasswordHash: hash, Role: role, StoreID: storeID}
	require.NoError(t, env.users.Create(user))
	return user
}

func (env *apiEnv) createProduct(t *testing.T, storeID uint, name string, price float64) *model.Product {
	product := &model.Product{StoreID: storeID, Name: name, Price: price, Active: true}
	require.NoError(t, env.products.Create(product))
	return product
}

// login returns an access token for one of the seeded users
func (env *apiEnv) login(t *testing.T, login, password string) string {
	w := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{"login": login, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Tokens util.TokenPair `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Tokens.AccessToken
}

func (env *apiEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]interface{}
	decode(t, w, &body)
	code, _ := body["error"].(string)
	return code
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
