package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forkful/recipebox/internal/middleware"
	"github.com/forkful/recipebox/internal/models"
	"github.com/forkful/recipebox/internal/service"
)

// RecipeHandler serves recipe browsing, authoring and search endpoints.
type RecipeHandler struct {
	recipes *service.RecipeService
	tags    *service.TagService
	log     *zap.Logger
}

func NewRecipeHandler(recipes *service.RecipeService, tags *service.TagService, log *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		tags:    tags,
		log:     log,
	}
}

// Landing handles GET /: the public landing payload with the most recent
// recipes.
func (h *RecipeHandler) Landing(c *gin.Context) {
	recipes, err := h.recipes.Recent(c.Request.Context())
	if err != nil {
		h.log.Error("loading recent recipes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to RecipeBox",
		"recipes": recipes,
	})
}

// Home handles GET /home: every recipe, newest first.
func (h *RecipeHandler) Home(c *gin.Context) {
	recipes, err := h.recipes.All(c.Request.Context())
	if err != nil {
		h.log.Error("listing recipes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// List handles GET /recipes. Without q: the 5 most recent recipes. With q:
// case-insensitive substring search over title, description and
// instructions.
func (h *RecipeHandler) List(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.log.Error("searching recipes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// Get handles GET /recipe/:id.
func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
		return
	}
	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// NewForm handles GET /recipe/new: the choices the authoring form offers.
func (h *RecipeHandler) NewForm(c *gin.Context) {
	mealTags, err := h.tags.Choices(c.Request.Context(), models.TagTypeMeal)
	if err != nil {
		h.log.Error("loading meal tags failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load form choices"})
		return
	}
	dietTags, err := h.tags.Choices(c.Request.Context(), models.TagTypeDiet)
	if err != nil {
		h.log.Error("loading diet tags failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load form choices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meal_tags": mealTags,
		"diet_tags": dietTags,
		"units":     models.IngredientUnits,
	})
}

// Create handles POST /recipe/new.
func (h *RecipeHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return
	}
	if name, dup := repeatedIngredient(req.Ingredients); dup {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{
			"ingredients": fmt.Sprintf("ingredient %q is listed more than once", name),
		}})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, toRecipeInput(req))
	if err != nil {
		h.log.Error("creating recipe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Your recipe has been created!",
		"recipe":  recipe,
	})
}

// EditForm handles GET /recipe/:id/edit: current values, owner only.
func (h *RecipeHandler) EditForm(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if recipe.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrNotOwner.Error()})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Update handles POST /recipe/:id/edit. Scalar fields only.
func (h *RecipeHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
		return
	}

	var req RecipeEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors(err)})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, service.RecipeInput{
		Title:           req.Title,
		Description:     req.Description,
		Instructions:    req.Instructions,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Your recipe has been updated!",
		"recipe":  recipe,
	})
}

// Delete handles POST /recipe/:id/delete.
func (h *RecipeHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrNotFound.Error()})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Your recipe has been deleted.",
		"redirect": "/home",
	})
}

// renderError maps service errors to HTTP responses.
func (h *RecipeHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.Error("recipe operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

// repeatedIngredient reports the first ingredient name appearing on more
// than one line. Repeated names would collide on the join table.
func repeatedIngredient(lines []IngredientLineRequest) (string, bool) {
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if seen[line.Name] {
			return line.Name, true
		}
		seen[line.Name] = true
	}
	return "", false
}

func toRecipeInput(req RecipeRequest) service.RecipeInput {
	input := service.RecipeInput{
		Title:           req.Title,
		Description:     req.Description,
		Instructions:    req.Instructions,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
	}
	for _, line := range req.Ingredients {
		input.Ingredients = append(input.Ingredients, service.IngredientLine{
			Name:     line.Name,
			Quantity: line.Quantity,
			Unit:     line.Unit,
		})
	}
	for _, raw := range req.TagIDs {
		// Already validated by the uuid binding tag.
		if id, err := uuid.Parse(raw); err == nil {
			input.TagIDs = append(input.TagIDs, id)
		}
	}
	return input
}
