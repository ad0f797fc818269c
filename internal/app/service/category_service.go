package service

import (
	"errors"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists = errors.New("category name already used in this store")
	ErrCategoryInUse  = errors.New("category still has products")
)

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryService interface {
	List(storeID uint) ([]model.Category, error)
	Get(storeID, id uint) (*model.Category, error)
	Create(storeID uint, input CategoryInput) (*model.Category, error)
	Update(storeID, id uint, input CategoryInput) (*model.Category, error)
	Delete(storeID, id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(storeID uint) ([]model.Category, error) {
	return s.categoryRepo.FindByStore(storeID)
}

// Get hides categories of other stores
func (s *categoryService) Get(storeID, id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if category.StoreID != storeID {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryService) checkName(storeID, exceptID uint, name string) error {
	existing, err := s.categoryRepo.FindByName(storeID, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return ErrCategoryExists
	}
	return nil
}

func (s *categoryService) Create(storeID uint, input CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidf("category name is required")
	}
	if err := s.checkName(storeID, 0, name); err != nil {
		return nil, err
	}

	category := &model.Category{
		StoreID:     storeID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"store_id":    storeID,
		"name":        name,
	})
	return category, nil
}

func (s *categoryService) Update(storeID, id uint, input CategoryInput) (*model.Category, error) {
	category, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalidf("category name is required")
	}
	if err := s.checkName(storeID, id, name); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = strings.TrimSpace(input.Description)
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(storeID, id uint) error {
	if _, err := s.Get(storeID, id); err != nil {
		return err
	}
	count, err := s.categoryRepo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Category delete refused: products still linked", map[string]interface{}{
			"category_id": id,
			"products":    count,
		})
		return ErrCategoryInUse
	}
	return s.categoryRepo.Delete(id)
}
