package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrStatusChanged means the order left the expected status before the update landed
var ErrStatusChanged = errors.New("order status changed concurrently")

type OrderFilter struct {
	StoreID  *uint
	ClientID *uint
	Status   model.OrderStatus
	From     *time.Time // inclusive
	To       *time.Time // exclusive
	Search   string     // customer name or order id
	Limit    int
}

// ProductSales aggregates sold quantities of one product
type ProductSales struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Total     float64 `json:"total"`
}

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, error)
	UpdateStatus(order *model.Order, from model.OrderStatus) error
	CountByStatus(storeID uint) (map[model.OrderStatus]int64, error)
	SumTotal(storeID uint, from, to time.Time) (float64, error)
	TopProducts(storeID uint, from, to *time.Time, limit int) ([]ProductSales, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items in one transaction
func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"store_id":    order.StoreID,
		"total":       order.Total,
		"type":        order.Type,
		"items_count": len(order.Items),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"store_id": order.StoreID,
			"total":    order.Total,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"store_id": order.StoreID,
		"total":    order.Total,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.db.Preload("Items").First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Debug("Order found by ID in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return &order, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, error) {
	logger.Debug("Finding orders with filter", map[string]interface{}{
		"store_id":  filter.StoreID,
		"client_id": filter.ClientID,
		"status":    filter.Status,
		"from":      filter.From,
		"to":        filter.To,
		"search":    filter.Search,
	})

	query := r.db.Model(&model.Order{}).Preload("Items")
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("(LOWER(customer_name) LIKE ? OR CAST(id AS TEXT) LIKE ?)", like, like)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders with filter", err)
		return nil, err
	}

	logger.Debug("Orders found with filter", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

// UpdateStatus persists the status and completion fields only, and only while
// the stored status is still from
func (r *orderRepository) UpdateStatus(order *model.Order, from model.OrderStatus) error {
	logger.Debug("Updating order status in database", map[string]interface{}{
		"order_id": order.ID,
		"from":     from,
		"status":   order.Status,
	})

	result := r.db.Model(&model.Order{}).Where("id = ? AND status = ?", order.ID, from).Updates(map[string]interface{}{
		"status":       order.Status,
		"completed_by": order.CompletedBy,
		"completed_at": order.CompletedAt,
	})
	if result.Error != nil {
		logger.Error("Failed to update order status in database", result.Error, map[string]interface{}{
			"order_id": order.ID,
			"status":   order.Status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&model.Order{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStatusChanged
	}

	logger.Debug("Order status updated in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return nil
}

func (r *orderRepository) CountByStatus(storeID uint) (map[model.OrderStatus]int64, error) {
	var rows []struct {
		Status model.OrderStatus
		Count  int64
	}
	err := r.db.Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Where("store_id = ?", storeID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count orders by status", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}

	counts := make(map[model.OrderStatus]int64, len(model.OrderStatuses))
	for _, s := range model.OrderStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// SumTotal adds up non-cancelled order totals created in [from, to)
func (r *orderRepository) SumTotal(storeID uint, from, to time.Time) (float64, error) {
	var sum float64
	err := r.db.Model(&model.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Where("store_id = ? AND status <> ? AND created_at >= ? AND created_at < ?",
			storeID, model.OrderStatusCancelled, from, to).
		Scan(&sum).Error
	if err != nil {
		logger.Error("Failed to sum order totals", err, map[string]interface{}{
			"store_id": storeID,
		})
		return 0, err
	}
	return sum, nil
}

// TopProducts ranks products by quantity sold in non-cancelled orders
func (r *orderRepository) TopProducts(storeID uint, from, to *time.Time, limit int) ([]ProductSales, error) {
	query := r.db.Table("order_items").
		Select("order_items.product_id, MAX(order_items.name) AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.line_total) AS total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.store_id = ? AND orders.status <> ? AND orders.deleted_at IS NULL", storeID, model.OrderStatusCancelled)
	if from != nil {
		query = query.Where("orders.created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("orders.created_at < ?", *to)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []ProductSales
	if err := query.Group("order_items.product_id").
		Order("quantity DESC, order_items.product_id ASC").
		Scan(&rows).Error; err != nil {
		logger.Error("Failed to rank products", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return rows, nil
}
