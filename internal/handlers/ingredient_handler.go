package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "savora/internal/errors"
	"savora/internal/pagination"
	"savora/internal/services"
)

// IngredientHandler handles ingredient-related requests.
type IngredientHandler struct {
	ingredientService services.IngredientServicer
	auditService      services.AuditServicer
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(ingredientService services.IngredientServicer, auditService services.AuditServicer) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService, auditService: auditService}
}

// CreateIngredientRequest represents the request payload for creating an ingredient
type CreateIngredientRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// UpdateIngredientRequest represents the request payload for renaming an ingredient
type UpdateIngredientRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// IngredientResponse represents an ingredient in the response
type IngredientResponse struct {
	ID     uint   `json:"id"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
}

// CreateIngredient handles the creation of a new ingredient
// @Summary     Create an ingredient
// @Description Create a new ingredient for the authenticated user
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIngredientRequest true "Ingredient details"
// @Success     201 {object} IngredientResponse "Ingredient created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ingredients [post]
func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ingredient, err := h.ingredientService.CreateIngredient(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INGREDIENT", "ingredient", ingredient.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"ingredient": ingredient})
}

// GetUserIngredients handles the retrieval of the user's ingredients
// @Summary     Get all ingredients
// @Description Get all ingredients for the authenticated user, optionally restricted to ingredients assigned to at least one recipe
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       assigned_only query bool false "Only ingredients assigned to a recipe"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {array} IngredientResponse "List of ingredients"
// @Failure     400 {object} ErrorResponse "Invalid query parameters"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ingredients [get]
func (h *IngredientHandler) GetUserIngredients(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assignedOnly, err := parseBoolFlag(c, "assigned_only")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.ingredientService.GetUserIngredients(userID, assignedOnly, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetIngredientByID handles the retrieval of a specific ingredient
// @Summary     Get ingredient by ID
// @Description Get a specific ingredient by ID
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Ingredient ID"
// @Success     200 {object} IngredientResponse "Ingredient details"
// @Failure     400 {object} ErrorResponse "Invalid ingredient ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Ingredient not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ingredients/{id} [get]
func (h *IngredientHandler) GetIngredientByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ingredientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ingredient, err := h.ingredientService.GetIngredientByID(userID, ingredientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ingredient": ingredient})
}

// UpdateIngredient handles renaming an ingredient
// @Summary     Update ingredient
// @Description Rename an existing ingredient
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Ingredient ID"
// @Param       request body UpdateIngredientRequest true "Updated ingredient details"
// @Success     200 {object} IngredientResponse "Updated ingredient"
// @Failure     400 {object} ErrorResponse "Invalid input or ingredient ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Ingredient not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ingredients/{id} [put]
func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ingredientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	ingredient, err := h.ingredientService.UpdateIngredient(userID, ingredientID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INGREDIENT", "ingredient", ingredientID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"ingredient": ingredient})
}

// DeleteIngredient handles deleting an ingredient
// @Summary     Delete ingredient
// @Description Delete an ingredient by ID
// @Tags        ingredients
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Ingredient ID"
// @Success     200 {object} MessageResponse "Ingredient deleted"
// @Failure     400 {object} ErrorResponse "Invalid ingredient ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Ingredient not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /ingredients/{id} [delete]
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	ingredientID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ingredientService.DeleteIngredient(userID, ingredientID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INGREDIENT", "ingredient", ingredientID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Ingredient deleted successfully"})
}
