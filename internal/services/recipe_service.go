package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"gorm.io/gorm"

	"savora/internal/cache"
	apperrors "savora/internal/errors"
	"savora/internal/logger"
	"savora/internal/models"
	"savora/internal/pagination"
	"savora/internal/storage"
)

// recipeService handles recipe-related business logic.
type recipeService struct {
	db       *gorm.DB
	store    storage.Storage
	cache    *cache.Client
	cacheTTL time.Duration
}

// NewRecipeService creates a new RecipeServicer.
func NewRecipeService(db *gorm.DB, store storage.Storage, cacheClient *cache.Client, cacheTTL time.Duration) RecipeServicer {
	return &recipeService{db: db, store: store, cache: cacheClient, cacheTTL: cacheTTL}
}

// detailCacheKey is scoped by owner so a cached detail can never leak
// across users.
func detailCacheKey(userID, recipeID uint) string {
	return fmt.Sprintf("recipe:%d:%d", userID, recipeID)
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// resolveTags loads the given tag ids and verifies every one belongs to
// the user. A missing or foreign id yields ErrTagNotFound, never a
// silent substitution.
func (s *recipeService) resolveTags(userID uint, ids []uint) ([]models.Tag, error) {
	ids = uniqueIDs(ids)
	tags := make([]models.Tag, 0, len(ids))
	if len(ids) == 0 {
		return tags, nil
	}
	if err := s.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&tags).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(tags) != len(ids) {
		return nil, apperrors.ErrTagNotFound
	}
	return tags, nil
}

// resolveIngredients mirrors resolveTags for ingredients.
func (s *recipeService) resolveIngredients(userID uint, ids []uint) ([]models.Ingredient, error) {
	ids = uniqueIDs(ids)
	ingredients := make([]models.Ingredient, 0, len(ids))
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := s.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&ingredients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(ingredients) != len(ids) {
		return nil, apperrors.ErrIngredientNotFound
	}
	return ingredients, nil
}

// CreateRecipe creates a recipe for the user. Tag and ingredient ids
// must all be owned by the same user.
func (s *recipeService) CreateRecipe(ctx context.Context, userID uint, input RecipeInput) (*models.Recipe, error) {
	if input.Title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recipe title is required")
	}
	if input.TimeMinutes <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "time_minutes must be positive")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price cannot be negative")
	}

	tags, err := s.resolveTags(userID, input.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.resolveIngredients(userID, input.IngredientIDs)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		UserID:      userID,
		Title:       input.Title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Link:        input.Link,
		Tags:        tags,
		Ingredients: ingredients,
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return recipe, nil
}

// GetUserRecipes retrieves a paginated list of the user's recipes,
// newest first. Tag and ingredient id filters restrict the result to
// recipes whose association set intersects the given ids; both filters
// compose conjunctively.
func (s *recipeService) GetUserRecipes(ctx context.Context, userID uint, filter RecipeFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Recipe], error) {
	page.Defaults()

	build := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("recipes.user_id = ?", userID)
		if len(filter.TagIDs) > 0 {
			q = q.
				Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
				Where("recipe_tags.tag_id IN ?", filter.TagIDs)
		}
		if len(filter.IngredientIDs) > 0 {
			q = q.
				Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
				Where("recipe_ingredients.ingredient_id IN ?", filter.IngredientIDs)
		}
		return q
	}

	var totalItems int64
	if err := build().Distinct("recipes.id").Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recipes []models.Recipe
	if err := build().Distinct("recipes.*").
		Preload("Tags").
		Preload("Ingredients").
		Order("recipes.id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&recipes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recipes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecipeByID retrieves a recipe with nested tags and ingredients.
// Detail reads go through the fail-safe cache.
func (s *recipeService) GetRecipeByID(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	key := detailCacheKey(userID, recipeID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached models.Recipe
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	recipe, err := s.getOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(recipe); err == nil {
		_ = s.cache.Set(ctx, key, data, s.cacheTTL)
	}

	return recipe, nil
}

// getOwnedRecipe loads a recipe with its associations, enforcing
// ownership. Unowned ids are indistinguishable from missing ones.
func (s *recipeService) getOwnedRecipe(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("id = ? AND user_id = ?", recipeID, userID).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &recipe, nil
}

// UpdateRecipe applies a partial update. Only non-nil fields change;
// a provided tag or ingredient id list fully replaces that association.
func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID uint, update RecipeUpdate) (*models.Recipe, error) {
	recipe, err := s.getOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Title != nil {
		if *update.Title == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "recipe title is required")
		}
		updates["title"] = *update.Title
	}
	if update.TimeMinutes != nil {
		if *update.TimeMinutes <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "time_minutes must be positive")
		}
		updates["time_minutes"] = *update.TimeMinutes
	}
	if update.Price != nil {
		if update.Price.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "price cannot be negative")
		}
		updates["price"] = *update.Price
	}
	if update.Link != nil {
		updates["link"] = *update.Link
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(recipe).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if update.TagIDs != nil {
		tags, err := s.resolveTags(userID, *update.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(tags); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		recipe.Tags = tags
	}
	if update.IngredientIDs != nil {
		ingredients, err := s.resolveIngredients(userID, *update.IngredientIDs)
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).Model(recipe).Association("Ingredients").Replace(ingredients); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		recipe.Ingredients = ingredients
	}

	_ = s.cache.Delete(ctx, detailCacheKey(userID, recipeID))
	return recipe, nil
}

// ReplaceRecipe applies a full update: every field is overwritten and
// the tag/ingredient associations are replaced, not merged.
func (s *recipeService) ReplaceRecipe(ctx context.Context, userID, recipeID uint, input RecipeInput) (*models.Recipe, error) {
	update := RecipeUpdate{
		Title:         &input.Title,
		TimeMinutes:   &input.TimeMinutes,
		Price:         &input.Price,
		Link:          &input.Link,
		TagIDs:        &input.TagIDs,
		IngredientIDs: &input.IngredientIDs,
	}
	return s.UpdateRecipe(ctx, userID, recipeID, update)
}

// DeleteRecipe soft-deletes a recipe, detaches its associations, and
// removes its stored image best-effort.
func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID uint) error {
	recipe, err := s.getOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(recipe).Association("Tags").Clear(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.WithContext(ctx).Model(recipe).Association("Ingredients").Clear(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.WithContext(ctx).Delete(recipe).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if recipe.ImagePath != "" {
		if err := s.store.Delete(ctx, recipe.ImagePath); err != nil {
			logger.Get().Warnw("failed to delete recipe image",
				"recipe_id", recipeID, "path", recipe.ImagePath, "error", err)
		}
	}

	_ = s.cache.Delete(ctx, detailCacheKey(userID, recipeID))
	return nil
}

// UploadImage validates and stores a new image for an owned recipe. An
// invalid payload leaves the existing image untouched. On success the
// record points at the new path before the previous file is removed;
// file writes are not transactional with the record update, so a crash
// in between can orphan a file.
func (s *recipeService) UploadImage(ctx context.Context, userID, recipeID uint, filename string, payload io.Reader) (*models.Recipe, error) {
	recipe, err := s.getOwnedRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	data, contentType, err := storage.SniffImage(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidImage, err)
	}

	path := storage.RecipeImagePath(filename)
	if err := s.store.Save(ctx, path, bytes.NewReader(data), contentType); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	previous := recipe.ImagePath
	if err := s.db.WithContext(ctx).Model(recipe).Update("image_path", path).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	recipe.ImagePath = path

	if previous != "" {
		if err := s.store.Delete(ctx, previous); err != nil {
			logger.Get().Warnw("failed to delete previous recipe image",
				"recipe_id", recipeID, "path", previous, "error", err)
		}
	}

	_ = s.cache.Delete(ctx, detailCacheKey(userID, recipeID))
	return recipe, nil
}
