package repository

import (
	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByID(id uint) (*model.Category, error)
	FindByName(storeID uint, name string) (*model.Category, error)
	FindByStore(storeID uint) ([]model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error
	CountProducts(id uint) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"store_id": category.StoreID,
		"name":     category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"store_id": category.StoreID,
			"name":     category.Name,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
	})
	return nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	logger.Debug("Finding category by ID in database", map[string]interface{}{
		"category_id": id,
	})

	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		logger.Error("Failed to find category by ID in database", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return &category, nil
}

// FindByName matches case-insensitively within a store
func (r *categoryRepository) FindByName(storeID uint, name string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("store_id = ? AND LOWER(name) = LOWER(?)", storeID, name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByStore(storeID uint) ([]model.Category, error) {
	logger.Debug("Finding categories by store in database", map[string]interface{}{
		"store_id": storeID,
	})

	var categories []model.Category
	if err := r.db.Where("store_id = ?", storeID).Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories in database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	logger.Debug("Categories found in database", map[string]interface{}{
		"store_id": storeID,
		"count":    len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// soft deleted products still reference the row
		if err := tx.Unscoped().Model(&model.Product{}).
			Where("category_id = ? AND deleted_at IS NOT NULL", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to delete category from database", err, map[string]interface{}{
				"category_id": id,
			})
		}
		return err
	}

	logger.Debug("Category deleted from database", map[string]interface{}{
		"category_id": id,
	})
	return nil
}

// CountProducts counts live products of the category
func (r *categoryRepository) CountProducts(id uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		logger.Error("Failed to count category products", err, map[string]interface{}{
			"category_id": id,
		})
		return 0, err
	}
	return count, nil
}
