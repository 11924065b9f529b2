package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "savora/internal/errors"
	"savora/internal/models"
	"savora/internal/pagination"
)

// ingredientService handles ingredient-related business logic.
type ingredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new IngredientServicer.
func NewIngredientService(db *gorm.DB) IngredientServicer {
	return &ingredientService{db: db}
}

// CreateIngredient creates a new ingredient owned by the user.
func (s *ingredientService) CreateIngredient(userID uint, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ingredient name is required")
	}

	ingredient := &models.Ingredient{
		UserID: userID,
		Name:   name,
	}

	if err := s.db.Create(ingredient).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return ingredient, nil
}

// GetUserIngredients retrieves a paginated list of the user's
// ingredients. With assignedOnly, only ingredients used by at least one
// of the user's recipes are returned, each exactly once.
func (s *ingredientService) GetUserIngredients(userID uint, assignedOnly bool, page pagination.PageRequest) (*pagination.PageResponse[models.Ingredient], error) {
	page.Defaults()

	build := func() *gorm.DB {
		q := s.db.Model(&models.Ingredient{}).Where("ingredients.user_id = ?", userID)
		if assignedOnly {
			q = q.
				Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
				Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id AND recipes.user_id = ? AND recipes.deleted_at IS NULL", userID)
		}
		return q
	}

	var totalItems int64
	if err := build().Distinct("ingredients.id").Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var ingredients []models.Ingredient
	if err := build().Distinct("ingredients.*").
		Order("ingredients.name DESC").
		Scopes(pagination.Paginate(page)).
		Find(&ingredients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(ingredients, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIngredientByID retrieves an ingredient by ID for a specific user
func (s *ingredientService) GetIngredientByID(userID, ingredientID uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.Where("id = ? AND user_id = ?", ingredientID, userID).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIngredientNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ingredient, nil
}

// UpdateIngredient renames an existing ingredient.
func (s *ingredientService) UpdateIngredient(userID, ingredientID uint, name string) (*models.Ingredient, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ingredient name is required")
	}

	ingredient, err := s.GetIngredientByID(userID, ingredientID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(ingredient).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ingredient, nil
}

// DeleteIngredient soft-deletes an ingredient and detaches it from the
// user's recipes.
func (s *ingredientService) DeleteIngredient(userID, ingredientID uint) error {
	ingredient, err := s.GetIngredientByID(userID, ingredientID)
	if err != nil {
		return err
	}

	if err := s.db.Model(ingredient).Association("Recipes").Clear(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Delete(ingredient).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
