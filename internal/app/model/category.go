package model

import "time"

// Category groups products of one store. Rows are hard deleted so the
// name can be reused.
type Category struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	StoreID     uint      `gorm:"not null;uniqueIndex:idx_categories_store_name" json:"store_id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_categories_store_name" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
