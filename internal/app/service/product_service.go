package service

import (
	"errors"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name        string
	Description string
	Price       float64
	CategoryID  *uint
	ImageURL    string
	Active      *bool // nil means active
}

type ProductListOptions struct {
	CategoryID *uint
	Search     string
	Active     *bool
}

type ProductService interface {
	List(storeID uint, opts ProductListOptions) ([]model.Product, error)
	Get(storeID, id uint) (*model.Product, error)
	Create(storeID uint, input ProductInput) (*model.Product, error)
	Update(storeID, id uint, input ProductInput) (*model.Product, error)
	Delete(storeID, id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) List(storeID uint, opts ProductListOptions) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(repository.ProductFilter{
		StoreID:    &storeID,
		CategoryID: opts.CategoryID,
		Search:     opts.Search,
		Active:     opts.Active,
	})
}

func (s *productService) Get(storeID, id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.StoreID != storeID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) validate(storeID uint, input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.ImageURL = strings.TrimSpace(input.ImageURL)

	if input.Name == "" {
		return invalidf("product name is required")
	}
	if input.Price <= 0 {
		return invalidf("price must be greater than zero")
	}
	input.Price = util.RoundCents(input.Price)

	if input.CategoryID != nil {
		category, err := s.categoryRepo.FindByID(*input.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}
		if category.StoreID != storeID {
			return ErrCategoryNotFound
		}
	}
	return nil
}

func (s *productService) Create(storeID uint, input ProductInput) (*model.Product, error) {
	if err := s.validate(storeID, &input); err != nil {
		return nil, err
	}

	product := &model.Product{
		StoreID:     storeID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Active:      input.Active == nil || *input.Active,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"store_id":   storeID,
		"price":      product.Price,
	})
	return product, nil
}

func (s *productService) Update(storeID, id uint, input ProductInput) (*model.Product, error) {
	product, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(storeID, &input); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.CategoryID = input.CategoryID
	product.Category = nil
	product.ImageURL = input.ImageURL
	if input.Active != nil {
		product.Active = *input.Active
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
		"store_id":   storeID,
	})
	return product, nil
}

func (s *productService) Delete(storeID, id uint) error {
	if _, err := s.Get(storeID, id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}
