package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"savora/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestStaffUser creates a user with staff privileges.
func CreateTestStaffUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Updates(map[string]interface{}{"is_staff": true, "is_superuser": true}).Error; err != nil {
		t.Fatalf("failed to promote test user: %v", err)
	}
	user.IsStaff = true
	user.IsSuperuser = true
	return user
}

// CreateTestTag creates a tag owned by the given user.
func CreateTestTag(t *testing.T, db *gorm.DB, userID uint) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		UserID: userID,
		Name:   fmt.Sprintf("Test Tag %d", nextID()),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateTestIngredient creates an ingredient owned by the given user.
func CreateTestIngredient(t *testing.T, db *gorm.DB, userID uint) *models.Ingredient {
	t.Helper()

	ingredient := &models.Ingredient{
		UserID: userID,
		Name:   fmt.Sprintf("Test Ingredient %d", nextID()),
	}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ingredient
}

// CreateTestRecipe creates a recipe owned by the given user.
func CreateTestRecipe(t *testing.T, db *gorm.DB, userID uint) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Recipe %d", nextID()),
		TimeMinutes: 10,
		Price:       decimal.NewFromFloat(5.50),
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}

// CreateTestRecipeWithTags creates a recipe linked to the given tags.
func CreateTestRecipeWithTags(t *testing.T, db *gorm.DB, userID uint, tags ...*models.Tag) *models.Recipe {
	t.Helper()

	recipe := CreateTestRecipe(t, db, userID)
	for _, tag := range tags {
		if err := db.Model(recipe).Association("Tags").Append(tag); err != nil {
			t.Fatalf("failed to attach tag to test recipe: %v", err)
		}
	}
	return recipe
}

// CreateTestRecipeWithIngredients creates a recipe linked to the given ingredients.
func CreateTestRecipeWithIngredients(t *testing.T, db *gorm.DB, userID uint, ingredients ...*models.Ingredient) *models.Recipe {
	t.Helper()

	recipe := CreateTestRecipe(t, db, userID)
	for _, ingredient := range ingredients {
		if err := db.Model(recipe).Association("Ingredients").Append(ingredient); err != nil {
			t.Fatalf("failed to attach ingredient to test recipe: %v", err)
		}
	}
	return recipe
}
