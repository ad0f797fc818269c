package repository

import (
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

type ClientFilter struct {
	StoreID *uint
	Search  string
}

type ClientRepository interface {
	Create(client *model.Client) error
	FindByID(id uint) (*model.Client, error)
	FindWithFilter(filter ClientFilter) ([]model.Client, error)
	Update(client *model.Client) error
	Delete(id uint) error
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(client *model.Client) error {
	logger.Debug("Creating client in database", map[string]interface{}{
		"store_id": client.StoreID,
		"name":     client.Name,
	})

	if err := r.db.Create(client).Error; err != nil {
		logger.Error("Failed to create client in database", err, map[string]interface{}{
			"store_id": client.StoreID,
		})
		return err
	}

	logger.Debug("Client created in database", map[string]interface{}{
		"client_id": client.ID,
	})
	return nil
}

func (r *clientRepository) FindByID(id uint) (*model.Client, error) {
	logger.Debug("Finding client by ID in database", map[string]interface{}{
		"client_id": id,
	})

	var client model.Client
	if err := r.db.First(&client, id).Error; err != nil {
		logger.Error("Failed to find client by ID in database", err, map[string]interface{}{
			"client_id": id,
		})
		return nil, err
	}

	clients := []model.Client{client}
	if err := r.attachOrderCounts(clients); err != nil {
		return nil, err
	}
	return &clients[0], nil
}

func (r *clientRepository) FindWithFilter(filter ClientFilter) ([]model.Client, error) {
	logger.Debug("Finding clients with filter", map[string]interface{}{
		"store_id": filter.StoreID,
		"search":   filter.Search,
	})

	query := r.db.Model(&model.Client{})
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}

	var clients []model.Client
	if err := query.Order("name ASC").Find(&clients).Error; err != nil {
		logger.Error("Failed to find clients with filter", err)
		return nil, err
	}
	if err := r.attachOrderCounts(clients); err != nil {
		return nil, err
	}

	logger.Debug("Clients found with filter", map[string]interface{}{
		"count": len(clients),
	})
	return clients, nil
}

// attachOrderCounts fills OrderCount with the number of non-cancelled orders
func (r *clientRepository) attachOrderCounts(clients []model.Client) error {
	if len(clients) == 0 {
		return nil
	}
	ids := make([]uint, len(clients))
	for i, c := range clients {
		ids[i] = c.ID
	}

	var rows []struct {
		ClientID uint
		Count    int64
	}
	err := r.db.Model(&model.Order{}).
		Select("client_id, COUNT(*) AS count").
		Where("client_id IN ? AND status <> ?", ids, model.OrderStatusCancelled).
		Group("client_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count client orders", err)
		return err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ClientID] = row.Count
	}
	for i := range clients {
		clients[i].OrderCount = counts[clients[i].ID]
	}
	return nil
}

func (r *clientRepository) Update(client *model.Client) error {
	logger.Debug("Updating client in database", map[string]interface{}{
		"client_id": client.ID,
	})

	if err := r.db.Save(client).Error; err != nil {
		logger.Error("Failed to update client in database", err, map[string]interface{}{
			"client_id": client.ID,
		})
		return err
	}
	return nil
}

func (r *clientRepository) Delete(id uint) error {
	logger.Debug("Deleting client from database", map[string]interface{}{
		"client_id": id,
	})

	result := r.db.Delete(&model.Client{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete client from database", result.Error, map[string]interface{}{
			"client_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
