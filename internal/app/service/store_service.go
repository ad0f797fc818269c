package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrInvalidTheme = errors.New("theme colors must be #rrggbb")
	ErrStoreInUse   = errors.New("store still has users")
)

type StoreInput struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

type StoreService interface {
	List() ([]model.Store, error)
	Get(id uint) (*model.Store, error)
	Create(actorID uint, input StoreInput) (*model.Store, error)
	Update(actorID, id uint, input StoreInput) (*model.Store, error)
	Delete(actorID, id uint) error
	GetTheme(id uint) (model.Theme, error)
	UpdateTheme(actorID, id uint, theme model.Theme) (model.Theme, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
	activity  ActivityService
}

func NewStoreService(storeRepo repository.StoreRepository, activity ActivityService) StoreService {
	return &storeService{storeRepo: storeRepo, activity: activity}
}

func (s *storeService) List() ([]model.Store, error) {
	return s.storeRepo.FindAll()
}

func (s *storeService) Get(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func normalizeStoreInput(input *StoreInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Address = strings.TrimSpace(input.Address)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return invalidf("store name is required")
	}
	return nil
}

func (s *storeService) Create(actorID uint, input StoreInput) (*model.Store, error) {
	if err := normalizeStoreInput(&input); err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:    input.Name,
		Address: input.Address,
		Phone:   input.Phone,
		Email:   input.Email,
		Theme:   model.DefaultTheme(),
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	s.activity.Record(actorID, &store.ID, model.ActivityManageStore, fmt.Sprintf("created store %s", store.Name))
	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return store, nil
}

func (s *storeService) Update(actorID, id uint, input StoreInput) (*model.Store, error) {
	store, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := normalizeStoreInput(&input); err != nil {
		return nil, err
	}

	store.Name = input.Name
	store.Address = input.Address
	store.Phone = input.Phone
	store.Email = input.Email
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	s.activity.Record(actorID, &store.ID, model.ActivityManageStore, fmt.Sprintf("updated store %s", store.Name))
	return store, nil
}

// Delete refuses stores that still have staff assigned
func (s *storeService) Delete(actorID, id uint) error {
	store, err := s.Get(id)
	if err != nil {
		return err
	}
	users, err := s.storeRepo.CountUsers(id)
	if err != nil {
		return err
	}
	if users > 0 {
		return ErrStoreInUse
	}
	if err := s.storeRepo.Delete(id); err != nil {
		return err
	}

	s.activity.Record(actorID, nil, model.ActivityManageStore, fmt.Sprintf("deleted store %s", store.Name))
	logger.Info("Store deleted", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

func (s *storeService) GetTheme(id uint) (model.Theme, error) {
	store, err := s.Get(id)
	if err != nil {
		return model.Theme{}, err
	}
	return store.EffectiveTheme(), nil
}

func (s *storeService) UpdateTheme(actorID, id uint, theme model.Theme) (model.Theme, error) {
	if !theme.Valid() {
		return model.Theme{}, ErrInvalidTheme
	}
	if _, err := s.Get(id); err != nil {
		return model.Theme{}, err
	}
	if err := s.storeRepo.UpdateTheme(id, theme); err != nil {
		return model.Theme{}, err
	}

	s.activity.Record(actorID, &id, model.ActivityManageStore, "updated theme")
	return theme, nil
}
