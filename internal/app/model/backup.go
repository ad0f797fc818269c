package model

import (
	"regexp"
	"time"
)

type BackupFrequency string

const (
	BackupDaily   BackupFrequency = "daily"
	BackupWeekly  BackupFrequency = "weekly"
	BackupMonthly BackupFrequency = "monthly"

	BackupTriggerManual    = "manual"
	BackupTriggerScheduled = "scheduled"
)

var clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func (f BackupFrequency) Valid() bool {
	return f == BackupDaily || f == BackupWeekly || f == BackupMonthly
}

// ValidClock reports whether s is a 24h HH:MM time
func ValidClock(s string) bool {
	return clockTime.MatchString(s)
}

// BackupSettings is a single-row table
type BackupSettings struct {
	ID         uint            `gorm:"primarykey" json:"-"`
	AutoBackup bool            `gorm:"not null;default:false" json:"auto_backup"`
	Frequency  BackupFrequency `gorm:"type:varchar(10);not null;default:'daily'" json:"frequency"`
	Time       string          `gorm:"type:varchar(5);not null;default:'00:00'" json:"time"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (BackupSettings) TableName() string {
	return "backup_settings"
}

// DefaultBackupSettings matches the admin screen defaults
func DefaultBackupSettings() BackupSettings {
	return BackupSettings{AutoBackup: false, Frequency: BackupDaily, Time: "00:00"}
}

// BackupRecord points at a stored snapshot
type BackupRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Key       string    `gorm:"uniqueIndex;not null" json:"key"`
	Size      int64     `json:"size"`
	Trigger   string    `gorm:"type:varchar(20);not null" json:"trigger"`
	CreatedBy *uint     `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (BackupRecord) TableName() string {
	return "backup_records"
}

// BackupVersion is bumped whenever the snapshot layout changes
const BackupVersion = 1

// BackupUser carries the password hash that User hides from JSON
type BackupUser struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"password_hash"`
	Role         UserRole  `json:"role"`
	StoreID      *uint     `json:"store_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewBackupUser(u User) BackupUser {
	return BackupUser{
		ID:           u.ID,
		Name:         u.Name,
		Login:        u.Login,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		StoreID:      u.StoreID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (b BackupUser) User() User {
	return User{
		ID:           b.ID,
		Name:         b.Name,
		Login:        b.Login,
		PasswordHash: b.PasswordHash,
		Role:         b.Role,
		StoreID:      b.StoreID,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// BackupSnapshot is the full export of business data. A nil section means
// the section was absent from the file.
type BackupSnapshot struct {
	Version    int          `json:"version"`
	CreatedAt  time.Time    `json:"created_at"`
	Users      []BackupUser `json:"users"`
	Stores     []Store      `json:"stores"`
	Categories []Category   `json:"categories"`
	Products   []Product    `json:"products"`
	Clients    []Client     `json:"clients"`
	Orders     []Order      `json:"orders"`
}

// MissingSections names the sections absent from the snapshot
func (s *BackupSnapshot) MissingSections() []string {
	var missing []string
	if s.Users == nil {
		missing = append(missing, "users")
	}
	if s.Stores == nil {
		missing = append(missing, "stores")
	}
	if s.Categories == nil {
		missing = append(missing, "categories")
	}
	if s.Products == nil {
		missing = append(missing, "products")
	}
	if s.Clients == nil {
		missing = append(missing, "clients")
	}
	if s.Orders == nil {
		missing = append(missing, "orders")
	}
	return missing
}
