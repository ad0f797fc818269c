package model

import (
	"regexp"
	"time"

	"gorm.io/gorm"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Theme is the color palette a store shows on its screens
type Theme struct {
	PrimaryColor   string `gorm:"type:varchar(7)" json:"primary_color"`
	PrimaryLight   string `gorm:"type:varchar(7)" json:"primary_light"`
	PrimaryDark    string `gorm:"type:varchar(7)" json:"primary_dark"`
	SecondaryColor string `gorm:"type:varchar(7)" json:"secondary_color"`
	SecondaryLight string `gorm:"type:varchar(7)" json:"secondary_light"`
	SecondaryDark  string `gorm:"type:varchar(7)" json:"secondary_dark"`
	AccentColor    string `gorm:"type:varchar(7)" json:"accent_color"`
	AccentLight    string `gorm:"type:varchar(7)" json:"accent_light"`
	AccentDark     string `gorm:"type:varchar(7)" json:"accent_dark"`
}

// DefaultTheme is the EvoApps palette
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:   "#1a237e",
		PrimaryLight:   "#534bae",
		PrimaryDark:    "#000051",
		SecondaryColor: "#2196f3",
		SecondaryLight: "#6ec6ff",
		SecondaryDark:  "#0069c0",
		AccentColor:    "#00bcd4",
		AccentLight:    "#62efff",
		AccentDark:     "#008ba3",
	}
}

func (t Theme) colors() []string {
	return []string{
		t.PrimaryColor, t.PrimaryLight, t.PrimaryDark,
		t.SecondaryColor, t.SecondaryLight, t.SecondaryDark,
		t.AccentColor, t.AccentLight, t.AccentDark,
	}
}

// IsZero reports whether no color has been set
func (t Theme) IsZero() bool {
	for _, c := range t.colors() {
		if c != "" {
			return false
		}
	}
	return true
}

// Valid reports whether every color is a #rrggbb value
func (t Theme) Valid() bool {
	for _, c := range t.colors() {
		if !hexColor.MatchString(c) {
			return false
		}
	}
	return true
}

type Store struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Address   string         `gorm:"type:text" json:"address"`
	Phone     string         `gorm:"type:varchar(30)" json:"phone"`
	Email     string         `json:"email"`
	Theme     Theme          `gorm:"embedded;embeddedPrefix:theme_" json:"theme"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

// EffectiveTheme falls back to the default palette when none was saved
func (s Store) EffectiveTheme() Theme {
	if s.Theme.IsZero() {
		return DefaultTheme()
	}
	return s.Theme
}
