package controller

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderResponse struct {
	Order model.Order `json:"order"`
}

func createOrder(t *testing.T, env *apiEnv, token string, req CreateOrderRequest) model.Order {
	w := env.do(t, http.MethodPost, "/orders", token, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp orderResponse
	decode(t, w, &resp)
	return resp.Order
}

func TestOrderController_Create(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)
	cafe := env.createProduct(t, env.store.ID, "Café", 4)

	order := createOrder(t, env, token, CreateOrderRequest{
		CustomerName:    "Maria",
		Type:            model.OrderTypeDelivery,
		DeliveryAddress: "Rua das Flores, 10",
		Items: []OrderItemRequest{
			{ProductID: bolo.ID, Quantity: 2},
			{ProductID: cafe.ID, Quantity: 1},
			{ProductID: bolo.ID, Quantity: 1},
		},
	})

	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, 41.5, order.Subtotal)
	assert.Equal(t, 5.0, order.DeliveryFee)
	assert.Equal(t, 46.5, order.Total)
	assert.Equal(t, env.store.ID, order.StoreID)
}

func TestOrderController_Create_Rejected(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)
	foreign := env.createProduct(t, env.other.ID, "Torta", 30)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Without items",
			body:       CreateOrderRequest{CustomerName: "Maria"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.OrderEmpty,
		},
		{
			name:       "Without customer",
			body:       CreateOrderRequest{Items: []OrderItemRequest{{ProductID: bolo.ID, Quantity: 1}}},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidInput,
		},
		{
			name:       "Zero quantity",
			body:       map[string]interface{}{"customer_name": "Maria", "items": []map[string]interface{}{{"product_id": bolo.ID, "quantity": 0}}},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidInput,
		},
		{
			name:       "Product of another store",
			body:       CreateOrderRequest{CustomerName: "Maria", Items: []OrderItemRequest{{ProductID: foreign.ID, Quantity: 1}}},
			wantStatus: http.StatusNotFound,
			wantCode:   apperrors.ResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/orders", token, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}
}

func TestOrderController_CreateFieldErrors(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de cenoura", 20)

	body := map[string]interface{}{
		"customer_name": "Maria",
		"items":         []map[string]interface{}{{"product_id": bolo.ID, "quantity": 0}},
	}
	w := env.do(t, http.MethodPost, "/orders", token, body)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp apperrors.ValidationError
	decode(t, w, &resp)
	assert.Equal(t, apperrors.ValidationInvalidInput, resp.Error)
	assert.Equal(t, "required", resp.Fields["items[0].quantity"])
}

func TestOrderController_Lifecycle(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)
	order := createOrder(t, env, token, CreateOrderRequest{
		CustomerName: "João",
		Items:        []OrderItemRequest{{ProductID: bolo.ID, Quantity: 1}},
	})
	base := fmt.Sprintf("/orders/%d", order.ID)

	for _, want := range []model.OrderStatus{model.OrderStatusPreparing, model.OrderStatusReady, model.OrderStatusDelivered} {
		w := env.do(t, http.MethodPost, base+"/advance", token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp orderResponse
		decode(t, w, &resp)
		assert.Equal(t, want, resp.Order.Status)
	}

	w := env.do(t, http.MethodPost, base+"/advance", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.OrderInvalidTransition, errorCode(t, w))

	w = env.do(t, http.MethodPut, base+"/status", token, UpdateOrderStatusRequest{Status: model.OrderStatusCancelled})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderController_UpdateStatus(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)
	order := createOrder(t, env, token, CreateOrderRequest{
		CustomerName: "João",
		Items:        []OrderItemRequest{{ProductID: bolo.ID, Quantity: 1}},
	})
	path := fmt.Sprintf("/orders/%d/status", order.ID)

	w := env.do(t, http.MethodPut, path, token, UpdateOrderStatusRequest{Status: model.OrderStatusReady})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPut, path, token, UpdateOrderStatusRequest{Status: model.OrderStatusCancelled})
	require.Equal(t, http.StatusOK, w.Code)
	var resp orderResponse
	decode(t, w, &resp)
	assert.Equal(t, model.OrderStatusCancelled, resp.Order.Status)
}

func TestOrderController_Checkout(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)
	items := []OrderItemRequest{{ProductID: bolo.ID, Quantity: 2}}

	t.Run("Supervisor approves", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/pdv/checkout", token, CheckoutRequest{
			CreateOrderRequest: CreateOrderRequest{CustomerName: "Balcão", Items: items},
			SupervisorLogin:    "gerente",
			SupervisorPassword: "gerente123",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp orderResponse
		decode(t, w, &resp)
		assert.Equal(t, model.OrderStatusDelivered, resp.Order.Status)
		assert.Equal(t, model.OrderTypeCounter, resp.Order.Type)
		assert.Equal(t, 25.0, resp.Order.Total)
		require.NotNil(t, resp.Order.CompletedBy)
		assert.NotNil(t, resp.Order.CompletedAt)
	})

	t.Run("Employee cannot approve", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/pdv/checkout", token, CheckoutRequest{
			CreateOrderRequest: CreateOrderRequest{CustomerName: "Balcão", Items: items},
			SupervisorLogin:    "caixa01",
			SupervisorPassword: "caixa123",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Wrong supervisor password", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/pdv/checkout", token, CheckoutRequest{
			CreateOrderRequest: CreateOrderRequest{CustomerName: "Balcão", Items: items},
			SupervisorLogin:    "gerente",
			SupervisorPassword: "errada",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestOrderController_ListExportReceipt(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)
	first := createOrder(t, env, token, CreateOrderRequest{
		CustomerName: "Maria",
		Items:        []OrderItemRequest{{ProductID: bolo.ID, Quantity: 1}},
	})
	createOrder(t, env, token, CreateOrderRequest{
		CustomerName: "João",
		Items:        []OrderItemRequest{{ProductID: bolo.ID, Quantity: 3}},
	})

	w := env.do(t, http.MethodGet, "/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Orders []model.Order `json:"orders"`
		Count  int           `json:"count"`
	}
	decode(t, w, &list)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "João", list.Orders[0].CustomerName, "newest first")

	w = env.do(t, http.MethodGet, "/orders?search=mar", token, nil)
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)

	w = env.do(t, http.MethodGet, "/orders?client_id=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/orders/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pedidos-")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "ID,Cliente,Data,Total,Status", strings.TrimSpace(lines[0]))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/orders/%d/receipt", first.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Centro")
	assert.Contains(t, w.Body.String(), "Bolo de pote")
	assert.Contains(t, w.Body.String(), "R$ 12,50")
}

func TestOrderController_StoreIsolation(t *testing.T) {
	env := setupAPI(t)
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)
	order := createOrder(t, env, env.login(t, "caixa01", "caixa123"), CreateOrderRequest{
		CustomerName: "Maria",
		Items:        []OrderItemRequest{{ProductID: bolo.ID, Quantity: 1}},
	})

	env.createUser(t, "filial01", "filial123", model.RoleEmployee, &env.other.ID)
	other := env.login(t, "filial01", "filial123")

	w := env.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	admin := env.login(t, "admin", "admin123")
	w = env.do(t, http.MethodGet, "/orders", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.AuthzStoreRequired, errorCode(t, w))

	w = env.do(t, http.MethodGet, fmt.Sprintf("/orders/%d?store_id=%d", order.ID, env.store.ID), admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
