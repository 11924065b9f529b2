package models

// Tag represents a user-defined label attached to recipes.
type Tag struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	// Relationships
	Recipes []Recipe `gorm:"many2many:recipe_tags;" json:"recipes,omitempty"`
}

func (t Tag) String() string { return t.Name }
