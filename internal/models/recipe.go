package models

import "github.com/shopspring/decimal"

// Recipe represents a recipe owned by a user. Tags and ingredients are
// many-to-many; the image path points into the configured file storage
// backend and is empty until an image has been uploaded.
type Recipe struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Title       string          `gorm:"not null" json:"title"`
	TimeMinutes int             `gorm:"not null" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Link        string          `json:"link,omitempty"`
	ImagePath   string          `json:"image,omitempty"`

	// Relationships
	Tags        []Tag        `gorm:"many2many:recipe_tags;" json:"tags,omitempty"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;" json:"ingredients,omitempty"`
}

func (r Recipe) String() string { return r.Title }
