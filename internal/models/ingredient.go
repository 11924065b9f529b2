package models

// Ingredient represents a single ingredient owned by a user.
type Ingredient struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	// Relationships
	Recipes []Recipe `gorm:"many2many:recipe_ingredients;" json:"recipes,omitempty"`
}

func (i Ingredient) String() string { return i.Name }
