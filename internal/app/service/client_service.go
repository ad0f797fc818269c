package service

import (
	"errors"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"gorm.io/gorm"
)

type ClientInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	Notes   string
}

type ClientService interface {
	List(storeID uint, search string) ([]model.Client, error)
	Get(storeID, id uint) (*model.Client, error)
	Create(storeID uint, input ClientInput) (*model.Client, error)
	Update(storeID, id uint, input ClientInput) (*model.Client, error)
	Delete(storeID, id uint) error
	Orders(storeID, id uint) ([]model.Order, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
	orderRepo  repository.OrderRepository
}

func NewClientService(clientRepo repository.ClientRepository, orderRepo repository.OrderRepository) ClientService {
	return &clientService{clientRepo: clientRepo, orderRepo: orderRepo}
}

func (s *clientService) List(storeID uint, search string) ([]model.Client, error) {
	return s.clientRepo.FindWithFilter(repository.ClientFilter{StoreID: &storeID, Search: search})
}

func (s *clientService) Get(storeID, id uint) (*model.Client, error) {
	client, err := s.clientRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.StoreID != storeID {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func normalizeClientInput(input *ClientInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.TrimSpace(input.Email)
	input.Address = strings.TrimSpace(input.Address)
	input.Notes = strings.TrimSpace(input.Notes)
	if input.Name == "" {
		return invalidf("client name is required")
	}
	return nil
}

func (s *clientService) Create(storeID uint, input ClientInput) (*model.Client, error) {
	if err := normalizeClientInput(&input); err != nil {
		return nil, err
	}
	client := &model.Client{
		StoreID: storeID,
		Name:    input.Name,
		Phone:   input.Phone,
		Email:   input.Email,
		Address: input.Address,
		Notes:   input.Notes,
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) Update(storeID, id uint, input ClientInput) (*model.Client, error) {
	client, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	if err := normalizeClientInput(&input); err != nil {
		return nil, err
	}

	client.Name = input.Name
	client.Phone = input.Phone
	client.Email = input.Email
	client.Address = input.Address
	client.Notes = input.Notes
	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) Delete(storeID, id uint) error {
	if _, err := s.Get(storeID, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(id)
}

func (s *clientService) Orders(storeID, id uint) ([]model.Order, error) {
	if _, err := s.Get(storeID, id); err != nil {
		return nil, err
	}
	return s.orderRepo.FindWithFilter(repository.OrderFilter{StoreID: &storeID, ClientID: &id})
}
