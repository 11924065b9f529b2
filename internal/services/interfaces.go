package services

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"savora/internal/models"
	"savora/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	CreateSuperuser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
}

// TagServicer defines the contract for tag-related business logic.
type TagServicer interface {
	CreateTag(userID uint, name string) (*models.Tag, error)
	GetUserTags(userID uint, assignedOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Tag], error)
	GetTagByID(userID, tagID uint) (*models.Tag, error)
	UpdateTag(userID, tagID uint, name string) (*models.Tag, error)
	DeleteTag(userID, tagID uint) error
}

// IngredientServicer defines the contract for ingredient-related business logic.
type IngredientServicer interface {
	CreateIngredient(userID uint, name string) (*models.Ingredient, error)
	GetUserIngredients(userID uint, assignedOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Ingredient], error)
	GetIngredientByID(userID, ingredientID uint) (*models.Ingredient, error)
	UpdateIngredient(userID, ingredientID uint, name string) (*models.Ingredient, error)
	DeleteIngredient(userID, ingredientID uint) error
}

// RecipeFilter holds optional filter parameters for listing recipes.
// Empty id sets mean "no restriction" for that dimension; supplied sets
// compose conjunctively.
type RecipeFilter struct {
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeInput carries the full set of recipe fields for create and
// full-replace operations.
type RecipeInput struct {
	Title         string
	TimeMinutes   int
	Price         decimal.Decimal
	Link          string
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeUpdate carries optional fields for partial updates. Nil means
// "leave unchanged"; a non-nil id list fully replaces the association.
type RecipeUpdate struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// RecipeServicer defines the contract for recipe-related business logic.
type RecipeServicer interface {
	CreateRecipe(ctx context.Context, userID uint, input RecipeInput) (*models.Recipe, error)
	GetUserRecipes(ctx context.Context, userID uint, filter RecipeFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Recipe], error)
	GetRecipeByID(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, recipeID uint, update RecipeUpdate) (*models.Recipe, error)
	ReplaceRecipe(ctx context.Context, userID, recipeID uint, input RecipeInput) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID uint) error
	UploadImage(ctx context.Context, userID, recipeID uint, filename string, payload io.Reader) (*models.Recipe, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
