package model

import (
	"time"

	"gorm.io/gorm"
)

// Client is a bakery customer who places encomendas
type Client struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	StoreID   uint           `gorm:"not null;index" json:"store_id"`
	Name      string         `gorm:"not null" json:"name"`
	Phone     string         `gorm:"type:varchar(30);index" json:"phone"`
	Email     string         `json:"email"`
	Address   string         `gorm:"type:text" json:"address"`
	Notes     string         `gorm:"type:text" json:"notes"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Number of non-cancelled orders, filled in on read
	OrderCount int64 `gorm:"-" json:"order_count"`
}

func (Client) TableName() string {
	return "clients"
}
