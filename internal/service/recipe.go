package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/recipebox/internal/models"
)

// IngredientLine is one measured ingredient of a recipe submission.
type IngredientLine struct {
	Name     string
	Quantity float64
	Unit     string
}

// RecipeInput carries the fields of a recipe create or edit submission.
type RecipeInput struct {
	Title           string
	Description     string
	Instructions    string
	PrepTimeMinutes int
	CookTimeMinutes int
	Servings        int
	Ingredients     []IngredientLine
	TagIDs          []uuid.UUID
}

// RecipeService handles recipe CRUD, ingredient bookkeeping and search.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create inserts a recipe with its ingredient lines and tag associations in
// one transaction. Ingredient rows are looked up by exact name and created
// when absent; a failure on any line rolls back the whole submission.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:           input.Title,
		Description:     input.Description,
		Instructions:    input.Instructions,
		PrepTimeMinutes: input.PrepTimeMinutes,
		CookTimeMinutes: input.CookTimeMinutes,
		Servings:        input.Servings,
		UserID:          authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return fmt.Errorf("creating recipe: %w", err)
		}

		for _, line := range input.Ingredients {
			ingredient, err := getOrCreateIngredient(tx, line.Name)
			if err != nil {
				return err
			}
			row := models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: ingredient.ID,
				Quantity:     line.Quantity,
				Unit:         line.Unit,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("creating ingredient line %q: %w", line.Name, err)
			}
		}

		if len(input.TagIDs) > 0 {
			var tags []models.Tag
			if err := tx.Find(&tags, "id IN ?", input.TagIDs).Error; err != nil {
				return fmt.Errorf("loading tags: %w", err)
			}
			if err := tx.Model(&recipe).Association("Tags").Append(tags); err != nil {
				return fmt.Errorf("associating tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, recipe.ID)
}

// getOrCreateIngredient deduplicates ingredient rows by exact name.
func getOrCreateIngredient(tx *gorm.DB, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := tx.Where("name = ?", name).First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up ingredient %q: %w", name, err)
	}
	ingredient = models.Ingredient{Name: name}
	if err := tx.Create(&ingredient).Error; err != nil {
		return nil, fmt.Errorf("creating ingredient %q: %w", name, err)
	}
	return &ingredient, nil
}

// Get fetches a recipe with its ingredient lines, tags and author.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("Tags.TagType").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Update replaces a recipe's scalar fields. Only the author may update;
// ingredient lines and tags are not part of the edit path.
func (s *RecipeService) Update(ctx context.Context, id, callerID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.UserID != callerID {
		return nil, ErrNotOwner
	}

	updates := map[string]interface{}{
		"title":             input.Title,
		"description":       input.Description,
		"instructions":      input.Instructions,
		"prep_time_minutes": input.PrepTimeMinutes,
		"cook_time_minutes": input.CookTimeMinutes,
		"servings":          input.Servings,
	}
	if err := s.db.WithContext(ctx).Model(&recipe).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating recipe: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a recipe, its ingredient lines and its tag associations in
// one transaction. Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.UserID != callerID {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.RecipeIngredient{}, "recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting ingredient lines: %w", err)
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("clearing tags: %w", err)
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("deleting recipe: %w", err)
		}
		return nil
	})
}

// List searches recipes. An empty query returns the 5 most recent recipes;
// otherwise a case-insensitive substring match against title, description
// and instructions, newest first, unbounded.
func (s *RecipeService) List(ctx context.Context, query string) ([]models.Recipe, error) {
	if query == "" {
		return s.Recent(ctx)
	}

	like := "%" + strings.ToLower(query) + "%"
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Author").
		Order("created_at DESC").
		Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(instructions) LIKE ?",
			like, like, like,
		).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// Recent returns the 5 most recently created recipes, newest first. Backs
// the landing page and unqueried listings.
func (s *RecipeService) Recent(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Author").
		Order("created_at DESC").
		Limit(5).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// All returns every recipe, newest first. Backs the home page.
func (s *RecipeService) All(ctx context.Context) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Author").
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}
