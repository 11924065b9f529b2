package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email               string       `gorm:"uniqueIndex;not null" json:"email"`
	Password            string       `gorm:"not null" json:"-"`
	Name                string       `json:"name"`
	IsActive            bool         `gorm:"default:true" json:"is_active"`
	IsStaff             bool         `gorm:"default:false" json:"is_staff"`
	IsSuperuser         bool         `gorm:"default:false" json:"is_superuser"`
	RefreshTokenHash    string       `gorm:"size:64" json:"-"`
	FailedLoginAttempts int          `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time   `json:"-"`
	LastLoginAt         *time.Time   `json:"last_login_at,omitempty"`
	Tags                []Tag        `gorm:"foreignKey:UserID" json:"tags,omitempty"`
	Ingredients         []Ingredient `gorm:"foreignKey:UserID" json:"ingredients,omitempty"`
	Recipes             []Recipe     `gorm:"foreignKey:UserID" json:"recipes,omitempty"`
}
