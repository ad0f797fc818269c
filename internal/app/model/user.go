package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"    // manages every store, users and backups
	RoleOwner    UserRole = "owner"    // owner of a single store
	RoleManager  UserRole = "manager"  // runs a store day to day
	RoleEmployee UserRole = "employee" // counter staff, PDV only
)

// Valid reports whether r is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// Landing is the screen a role is sent to after login
func (r UserRole) Landing() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleOwner, RoleManager:
		return "dashboard"
	case RoleEmployee:
		return "pdv"
	}
	return ""
}

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Login        string         `gorm:"uniqueIndex;not null" json:"login"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	StoreID      *uint          `gorm:"index" json:"store_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Store *Store `gorm:"foreignKey:StoreID" json:"store,omitempty"`
}

func (User) TableName() string {
	return "users"
}
