package repository

import (
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	FindAll() ([]model.Store, error)
	Update(store *model.Store) error
	UpdateTheme(id uint, theme model.Theme) error
	Delete(id uint) error
	CountUsers(id uint) (int64, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name": store.Name,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name": store.Name,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	logger.Debug("Finding store by ID in database", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		logger.Error("Failed to find store by ID in database", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}

	logger.Debug("Store found by ID in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return &store, nil
}

func (r *storeRepository) FindAll() ([]model.Store, error) {
	logger.Debug("Finding all stores in database")

	var stores []model.Store
	if err := r.db.Order("name ASC").Find(&stores).Error; err != nil {
		logger.Error("Failed to find stores in database", err)
		return nil, err
	}

	logger.Debug("Stores found in database", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}

func (r *storeRepository) Update(store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
	})

	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}

	logger.Debug("Store updated in database", map[string]interface{}{
		"store_id": store.ID,
	})
	return nil
}

func (r *storeRepository) UpdateTheme(id uint, theme model.Theme) error {
	logger.Debug("Updating store theme in database", map[string]interface{}{
		"store_id": id,
	})

	// a map keeps empty strings from being skipped as zero values
	result := r.db.Model(&model.Store{ID: id}).Updates(map[string]interface{}{
		"theme_primary_color":   theme.PrimaryColor,
		"theme_primary_light":   theme.PrimaryLight,
		"theme_primary_dark":    theme.PrimaryDark,
		"theme_secondary_color": theme.SecondaryColor,
		"theme_secondary_light": theme.SecondaryLight,
		"theme_secondary_dark":  theme.SecondaryDark,
		"theme_accent_color":    theme.AccentColor,
		"theme_accent_light":    theme.AccentLight,
		"theme_accent_dark":     theme.AccentDark,
	})
	if result.Error != nil {
		logger.Error("Failed to update store theme in database", result.Error, map[string]interface{}{
			"store_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	result := r.db.Delete(&model.Store{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete store from database", result.Error, map[string]interface{}{
			"store_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Store deleted from database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

func (r *storeRepository) CountUsers(id uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.User{}).Where("store_id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to count store users", err, map[string]interface{}{
			"store_id": id,
		})
		return 0, err
	}
	return count, nil
}
