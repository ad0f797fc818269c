package repository

import (
	"testing"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryRepository(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	centro := createTestStore(t, testDB, "Centro")
	bairro := createTestStore(t, testDB, "Bairro")
	repo := NewCategoryRepository(testDB)

	bolos := &model.Category{StoreID: centro.ID, Name: "Bolos"}
	require.NoError(t, repo.Create(bolos))

	t.Run("Name unique per store", func(t *testing.T) {
		assert.Error(t, repo.Create(&model.Category{StoreID: centro.ID, Name: "Bolos"}))
		assert.NoError(t, repo.Create(&model.Category{StoreID: bairro.ID, Name: "Bolos"}))
	})

	t.Run("FindByName ignores case", func(t *testing.T) {
		found, err := repo.FindByName(centro.ID, "bolos")
		require.NoError(t, err)
		assert.Equal(t, bolos.ID, found.ID)
	})

	t.Run("CountProducts", func(t *testing.T) {
		require.NoError(t, testDB.Create(&model.Product{StoreID: centro.ID, CategoryID: &bolos.ID, Name: "Bolo", Price: 10, Active: true}).Error)
		count, err := repo.CountProducts(bolos.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Soft deleted products do not block delete", func(t *testing.T) {
		tortas := &model.Category{StoreID: centro.ID, Name: "Tortas"}
		require.NoError(t, repo.Create(tortas))
		torta := &model.Product{StoreID: centro.ID, CategoryID: &tortas.ID, Name: "Torta de limão", Price: 60, Active: true}
		require.NoError(t, testDB.Create(torta).Error)
		require.NoError(t, testDB.Delete(torta).Error)

		count, err := repo.CountProducts(tortas.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		require.NoError(t, repo.Delete(tortas.ID))

		var stored model.Product
		require.NoError(t, testDB.Unscoped().First(&stored, torta.ID).Error)
		assert.Nil(t, stored.CategoryID, "deleted product no longer points at the category")
		assert.ErrorIs(t, repo.Delete(tortas.ID), gorm.ErrRecordNotFound)
	})

	t.Run("Deleted name can be reused", func(t *testing.T) {
		doces := &model.Category{StoreID: centro.ID, Name: "Doces"}
		require.NoError(t, repo.Create(doces))
		require.NoError(t, repo.Delete(doces.ID))
		assert.NoError(t, repo.Create(&model.Category{StoreID: centro.ID, Name: "Doces"}))
	})

	list, err := repo.FindByStore(centro.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
