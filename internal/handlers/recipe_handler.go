package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "savora/internal/errors"
	"savora/internal/pagination"
	"savora/internal/services"
)

// RecipeHandler handles recipe-related requests.
type RecipeHandler struct {
	recipeService services.RecipeServicer
	auditService  services.AuditServicer
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService services.RecipeServicer, auditService services.AuditServicer) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, auditService: auditService}
}

// CreateRecipeRequest represents the request payload for creating a recipe
type CreateRecipeRequest struct {
	Title         string `json:"title" binding:"required,min=1,max=255"`
	TimeMinutes   int    `json:"time_minutes" binding:"required,gt=0"`
	Price         string `json:"price" binding:"required,price"`
	Link          string `json:"link" binding:"omitempty,max=255"`
	TagIDs        []uint `json:"tags"`
	IngredientIDs []uint `json:"ingredients"`
}

// UpdateRecipeRequest represents the request payload for partially updating
// a recipe. Absent fields are left unchanged.
type UpdateRecipeRequest struct {
	Title         *string `json:"title" binding:"omitempty,min=1,max=255"`
	TimeMinutes   *int    `json:"time_minutes" binding:"omitempty,gt=0"`
	Price         *string `json:"price" binding:"omitempty,price"`
	Link          *string `json:"link" binding:"omitempty,max=255"`
	TagIDs        *[]uint `json:"tags"`
	IngredientIDs *[]uint `json:"ingredients"`
}

// RecipeResponse represents a recipe in the response
type RecipeResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Title       string `json:"title"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	ImagePath   string `json:"image,omitempty"`
}

func (r *CreateRecipeRequest) toInput() services.RecipeInput {
	price, _ := decimal.NewFromString(r.Price)
	return services.RecipeInput{
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         price,
		Link:          r.Link,
		TagIDs:        r.TagIDs,
		IngredientIDs: r.IngredientIDs,
	}
}

func (r *UpdateRecipeRequest) toUpdate() services.RecipeUpdate {
	update := services.RecipeUpdate{
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Link:          r.Link,
		TagIDs:        r.TagIDs,
		IngredientIDs: r.IngredientIDs,
	}
	if r.Price != nil {
		price, _ := decimal.NewFromString(*r.Price)
		update.Price = &price
	}
	return update
}

// CreateRecipe handles the creation of a new recipe
// @Summary     Create a recipe
// @Description Create a new recipe for the authenticated user, optionally linked to owned tags and ingredients
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecipeRequest true "Recipe details"
// @Success     201 {object} RecipeResponse "Recipe created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Referenced tag or ingredient not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECIPE", "recipe", recipe.ID, c.ClientIP(),
		map[string]interface{}{"title": req.Title})

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// GetUserRecipes handles the retrieval of the user's recipes
// @Summary     Get all recipes
// @Description Get all recipes for the authenticated user, optionally filtered by tag and ingredient ids
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       tags query string false "Comma-separated tag ids"
// @Param       ingredients query string false "Comma-separated ingredient ids"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {array} RecipeResponse "List of recipes"
// @Failure     400 {object} ErrorResponse "Invalid query parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recipes [get]
func (h *RecipeHandler) GetUserRecipes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.RecipeFilter{TagIDs: tagIDs, IngredientIDs: ingredientIDs}
	result, err := h.recipeService.GetUserRecipes(c.Request.Context(), userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetRecipeByID handles the retrieval of a specific recipe
// @Summary     Get recipe by ID
// @Description Get a specific recipe by ID with its tags and ingredients
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Success     200 {object} RecipeResponse "Recipe details"
// @Failure     400 {object} ErrorResponse "Invalid recipe ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recipes/{id} [get]
func (h *RecipeHandler) GetRecipeByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipe, err := h.recipeService.GetRecipeByID(c.Request.Context(), userID, recipeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// UpdateRecipe handles partial updates of a recipe
// @Summary     Update recipe
// @Description Partially update a recipe; absent fields are left unchanged
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Param       request body UpdateRecipeRequest true "Fields to update"
// @Success     200 {object} RecipeResponse "Updated recipe"
// @Failure     400 {object} ErrorResponse "Invalid input or recipe ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe, tag or ingredient not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recipes/{id} [patch]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, recipeID, req.toUpdate())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_RECIPE", "recipe", recipeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// ReplaceRecipe handles full replacement of a recipe
// @Summary     Replace recipe
// @Description Fully replace a recipe; all fields are required and associations are reset to the supplied ids
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Param       request body CreateRecipeRequest true "Replacement recipe details"
// @Success     200 {object} RecipeResponse "Replaced recipe"
// @Failure     400 {object} ErrorResponse "Invalid input or recipe ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe, tag or ingredient not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recipes/{id} [put]
func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	recipe, err := h.recipeService.ReplaceRecipe(c.Request.Context(), userID, recipeID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REPLACE_RECIPE", "recipe", recipeID, c.ClientIP(),
		map[string]interface{}{"title": req.Title})

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// DeleteRecipe handles deleting a recipe
// @Summary     Delete recipe
// @Description Delete a recipe by ID
// @Tags        recipes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Success     200 {object} MessageResponse "Recipe deleted"
// @Failure     400 {object} ErrorResponse "Invalid recipe ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, recipeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_RECIPE", "recipe", recipeID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}

// UploadImage handles attaching an image to a recipe
// @Summary     Upload recipe image
// @Description Upload an image file for a recipe; replaces any previous image
// @Tags        recipes
// @Accept      multipart/form-data
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recipe ID"
// @Param       image formData file true "Image file (jpeg, png or gif)"
// @Success     200 {object} RecipeResponse "Recipe with updated image path"
// @Failure     400 {object} ErrorResponse "Missing or invalid image"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recipe not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recipes/{id}/upload-image [post]
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recipeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		respondWithError(c, apperrors.ErrMissingImage)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer src.Close()

	recipe, err := h.recipeService.UploadImage(c.Request.Context(), userID, recipeID, file.Filename, src)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPLOAD_RECIPE_IMAGE", "recipe", recipeID, c.ClientIP(),
		map[string]interface{}{"image": recipe.ImagePath})

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}
