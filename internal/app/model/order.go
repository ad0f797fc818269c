package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type OrderType string

const (
	OrderStatusPending   OrderStatus = "pending"   // accepted, waiting for the kitchen
	OrderStatusPreparing OrderStatus = "preparing" // being baked or assembled
	OrderStatusReady     OrderStatus = "ready"     // waiting for pickup or courier
	OrderStatusDelivered OrderStatus = "delivered" // handed over, sale complete
	OrderStatusCancelled OrderStatus = "cancelled"

	OrderTypeCounter  OrderType = "counter"  // PDV sale
	OrderTypeDelivery OrderType = "delivery" // delivered to an address
	OrderTypePickup   OrderType = "pickup"   // encomenda picked up at the store
)

// OrderStatuses lists every status in lifecycle order, cancelled last
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var nextStatus = map[OrderStatus]OrderStatus{
	OrderStatusPending:   OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusDelivered,
}

func (s OrderStatus) Valid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Next returns the following lifecycle step; ok is false for terminal statuses
func (s OrderStatus) Next() (OrderStatus, bool) {
	n, ok := nextStatus[s]
	return n, ok
}

// CanTransitionTo reports whether moving from s to target is legal
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	n, ok := s.Next()
	return ok && n == target
}

// Label is the Portuguese text printed on receipts and exports
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pendente"
	case OrderStatusPreparing:
		return "Em preparo"
	case OrderStatusReady:
		return "Pronto"
	case OrderStatusDelivered:
		return "Entregue"
	case OrderStatusCancelled:
		return "Cancelado"
	}
	return "Desconhecido"
}

func (t OrderType) Valid() bool {
	return t == OrderTypeCounter || t == OrderTypeDelivery || t == OrderTypePickup
}

type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	StoreID         uint           `gorm:"not null;index" json:"store_id"`
	ClientID        *uint          `gorm:"index" json:"client_id,omitempty"`
	CustomerName    string         `gorm:"not null" json:"customer_name"`
	CustomerPhone   string         `gorm:"type:varchar(30)" json:"customer_phone"`
	DeliveryAddress string         `gorm:"type:text" json:"delivery_address"`
	PickupTime      *time.Time     `json:"pickup_time,omitempty"`
	Type            OrderType      `gorm:"type:varchar(20);not null;default:'counter'" json:"type"`
	Status          OrderStatus    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Subtotal        float64        `gorm:"not null" json:"subtotal"`
	DeliveryFee     float64        `gorm:"not null;default:0" json:"delivery_fee"`
	Total           float64        `gorm:"not null" json:"total"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	CompletedBy     *uint          `json:"completed_by,omitempty"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem keeps a snapshot of the product name and price at sale time
type OrderItem struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	OrderID   uint    `gorm:"not null;index" json:"order_id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	LineTotal float64 `gorm:"not null" json:"line_total"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
