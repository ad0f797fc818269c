package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryAndProductController(t *testing.T) {
	env := setupAPI(t)
	manager := env.login(t, "gerente", "gerente123")
	staff := env.login(t, "caixa01", "caixa123")

	w := env.do(t, http.MethodPost, "/categories", manager, CategoryRequest{Name: "Bolos"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category struct {
		Category model.Category `json:"category"`
	}
	decode(t, w, &category)

	w = env.do(t, http.MethodPost, "/categories", manager, CategoryRequest{Name: "bolos"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/categories", staff, CategoryRequest{Name: "Doces"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodPost, "/products", manager, ProductRequest{
		Name: "Bolo de cenoura", Description: "Com calda de chocolate", Price: 45, CategoryID: &category.Category.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		Product model.Product `json:"product"`
	}
	decode(t, w, &product)
	assert.True(t, product.Product.Active)

	w = env.do(t, http.MethodPost, "/products", manager, ProductRequest{Name: "Brinde", Price: 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	inactive := false
	w = env.do(t, http.MethodPost, "/products", manager, ProductRequest{Name: "Panetone", Price: 60, Active: &inactive})
	require.Equal(t, http.StatusCreated, w.Code)

	var list struct {
		Products []model.Product `json:"products"`
		Count    int             `json:"count"`
	}
	w = env.do(t, http.MethodGet, "/products?search=CHOCOLATE", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)

	w = env.do(t, http.MethodGet, "/products?active=false", staff, nil)
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, "Panetone", list.Products[0].Name)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/products?category_id=%d", category.Category.ID), staff, nil)
	decode(t, w, &list)
	assert.Equal(t, 1, list.Count)

	w = env.do(t, http.MethodGet, "/products?active=talvez", staff, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// categories with products cannot be deleted
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.Category.ID), manager, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.ResourceInUse, errorCode(t, w))
}

func TestProductController_ForeignCategory(t *testing.T) {
	env := setupAPI(t)
	manager := env.login(t, "gerente", "gerente123")

	foreign := &model.Category{StoreID: env.other.ID, Name: "Salgados"}
	require.NoError(t, env.db.Create(foreign).Error)

	w := env.do(t, http.MethodPost, "/products", manager, ProductRequest{Name: "Coxinha", Price: 7, CategoryID: &foreign.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClientController(t *testing.T) {
	env := setupAPI(t)
	token := env.login(t, "caixa01", "caixa123")
	bolo := env.createProduct(t, env.store.ID, "Bolo de pote", 12.5)

	w := env.do(t, http.MethodPost, "/clients", token, ClientRequest{Name: "Dona Lúcia", Phone: "11999990000", Address: "Rua A, 1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Client model.Client `json:"client"`
	}
	decode(t, w, &created)

	order := createOrder(t, env, token, CreateOrderRequest{
		ClientID: &created.Client.ID,
		Type:     model.OrderTypeDelivery,
		Items:    []OrderItemRequest{{ProductID: bolo.ID, Quantity: 1}},
	})
	assert.Equal(t, "Dona Lúcia", order.CustomerName)
	assert.Equal(t, "Rua A, 1", order.DeliveryAddress)

	w = env.do(t, http.MethodGet, "/clients?search=lúcia", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Clients []model.Client `json:"clients"`
	}
	decode(t, w, &list)
	require.Len(t, list.Clients, 1)
	assert.Equal(t, int64(1), list.Clients[0].OrderCount)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/clients/%d/orders", created.Client.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders struct {
		Count int `json:"count"`
	}
	decode(t, w, &orders)
	assert.Equal(t, 1, orders.Count)
}
