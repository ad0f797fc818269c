package service

import (
	"testing"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewCategoryService(env.cats)

	other := &model.Store{Name: "Outra"}
	require.NoError(t, env.stores.Create(other))

	bolos, err := svc.Create(env.store.ID, CategoryInput{Name: " Bolos ", Description: "Bolos caseiros"})
	require.NoError(t, err)
	assert.Equal(t, "Bolos", bolos.Name)

	_, err = svc.Create(env.store.ID, CategoryInput{Name: "bolos"})
	assert.ErrorIs(t, err, ErrCategoryExists, "names are unique ignoring case")

	_, err = svc.Create(other.ID, CategoryInput{Name: "Bolos"})
	assert.NoError(t, err, "another store may reuse the name")

	_, err = svc.Create(env.store.ID, CategoryInput{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)

	doces, err := svc.Create(env.store.ID, CategoryInput{Name: "Doces"})
	require.NoError(t, err)

	_, err = svc.Update(env.store.ID, doces.ID, CategoryInput{Name: "BOLOS"})
	assert.ErrorIs(t, err, ErrCategoryExists)
	renamed, err := svc.Update(env.store.ID, doces.ID, CategoryInput{Name: "Doces Finos"})
	require.NoError(t, err)
	assert.Equal(t, "Doces Finos", renamed.Name)

	_, err = svc.Get(other.ID, bolos.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	list, err := svc.List(env.store.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	env.createProduct(t, "Bolo de Fubá", 30, &bolos.ID)
	assert.ErrorIs(t, svc.Delete(env.store.ID, bolos.ID), ErrCategoryInUse)
	require.NoError(t, svc.Delete(env.store.ID, doces.ID))

	_, err = svc.Create(env.store.ID, CategoryInput{Name: "Doces Finos"})
	assert.NoError(t, err, "a deleted category name can be used again")
}

func TestProductService(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewProductService(env.products, env.cats)

	bolos := &model.Category{StoreID: env.store.ID, Name: "Bolos"}
	require.NoError(t, env.cats.Create(bolos))
	other := &model.Store{Name: "Outra"}
	require.NoError(t, env.stores.Create(other))
	foreign := &model.Category{StoreID: other.ID, Name: "Pães"}
	require.NoError(t, env.cats.Create(foreign))

	inactive := false

	tests := []struct {
		name    string
		input   ProductInput
		wantErr error
	}{
		{name: "With category", input: ProductInput{Name: "Bolo de Cenoura", Price: 45.999, CategoryID: &bolos.ID}},
		{name: "Inactive", input: ProductInput{Name: "Panetone", Price: 39.9, Active: &inactive}},
		{name: "Zero price", input: ProductInput{Name: "Brinde", Price: 0}, wantErr: ErrInvalidInput},
		{name: "Blank name", input: ProductInput{Name: " ", Price: 3}, wantErr: ErrInvalidInput},
		{name: "Category of another store", input: ProductInput{Name: "Baguete", Price: 9, CategoryID: &foreign.ID}, wantErr: ErrCategoryNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := svc.Create(env.store.ID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input.Active == nil, product.Active)
		})
	}

	all, err := svc.List(env.store.ID, ProductListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Bolo de Cenoura", all[0].Name)
	assert.Equal(t, 46.0, all[0].Price)

	active := true
	onSale, err := svc.List(env.store.ID, ProductListOptions{Active: &active})
	require.NoError(t, err)
	assert.Len(t, onSale, 1)

	found, err := svc.List(env.store.ID, ProductListOptions{Search: "PANE"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	panetone := found[0]
	updated, err := svc.Update(env.store.ID, panetone.ID, ProductInput{Name: "Panetone Trufado", Price: 59.9, Active: &active})
	require.NoError(t, err)
	assert.True(t, updated.Active)

	_, err = svc.Get(other.ID, panetone.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	require.NoError(t, svc.Delete(env.store.ID, panetone.ID))
	_, err = svc.Get(env.store.ID, panetone.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestClientService(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewClientService(env.clients, env.orders)

	_, err := svc.Create(env.store.ID, ClientInput{Phone: "11 99999-0000"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	joana, err := svc.Create(env.store.ID, ClientInput{Name: " Joana Prado ", Phone: "11 98888-1234", Email: "joana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Joana Prado", joana.Name)
	_, err = svc.Create(env.store.ID, ClientInput{Name: "Pedro Lima", Phone: "11 97777-0000"})
	require.NoError(t, err)

	cake := env.createProduct(t, "Bolo", 50, nil)
	_, err = env.orderSvc.Create(env.store.ID, env.employee.ID, OrderInput{
		ClientID: &joana.ID,
		Items:    []OrderItemInput{{ProductID: cake.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	found, err := svc.List(env.store.ID, "98888")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, joana.ID, found[0].ID)
	assert.Equal(t, int64(1), found[0].OrderCount)

	orders, err := svc.Orders(env.store.ID, joana.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Joana Prado", orders[0].CustomerName)

	updated, err := svc.Update(env.store.ID, joana.ID, ClientInput{Name: "Joana P.", Address: "Rua A"})
	require.NoError(t, err)
	assert.Equal(t, "Rua A", updated.Address)

	other := &model.Store{Name: "Outra"}
	require.NoError(t, env.stores.Create(other))
	_, err = svc.Get(other.ID, joana.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)

	require.NoError(t, svc.Delete(env.store.ID, joana.ID))
	_, err = svc.Orders(env.store.ID, joana.ID)
	assert.ErrorIs(t, err, ErrClientNotFound)
}
