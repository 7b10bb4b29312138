package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/recipebox/internal/database"
	"github.com/forkful/recipebox/internal/models"
)

func newTestRecipeService(t *testing.T) (*RecipeService, *gorm.DB) {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)
	return NewRecipeService(db), db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func pieInput() RecipeInput {
	return RecipeInput{
		Title:           "Apple Pie",
		Description:     "A classic dessert",
		Instructions:    "Mix, fill, bake.",
		PrepTimeMinutes: 30,
		CookTimeMinutes: 45,
		Servings:        8,
		Ingredients: []IngredientLine{
			{Name: "apples", Quantity: 6, Unit: "cup"},
			{Name: "sugar", Quantity: 1, Unit: "cup"},
			{Name: "cinnamon", Quantity: 2, Unit: "tbsp"},
		},
	}
}

func TestCreateRecipeIngredientRows(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	recipe, err := svc.Create(ctx, user.ID, pieInput())
	require.NoError(t, err)
	assert.Len(t, recipe.Ingredients, 3)

	var rows int64
	db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&rows)
	assert.Equal(t, int64(3), rows)
}

func TestCreateRecipeDeduplicatesIngredients(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	_, err := svc.Create(ctx, user.ID, pieInput())
	require.NoError(t, err)

	// Second recipe reuses two of the same ingredient names.
	second := pieInput()
	second.Title = "Cinnamon Rolls"
	second.Ingredients = []IngredientLine{
		{Name: "sugar", Quantity: 0.5, Unit: "cup"},
		{Name: "cinnamon", Quantity: 1, Unit: "tbsp"},
		{Name: "flour", Quantity: 3, Unit: "cup"},
	}
	_, err = svc.Create(ctx, user.ID, second)
	require.NoError(t, err)

	var names []string
	db.Model(&models.Ingredient{}).Order("name").Pluck("name", &names)
	assert.Equal(t, []string{"apples", "cinnamon", "flour", "sugar"}, names)
}

func TestCreateRecipeRollsBackOnFailure(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	// A repeated ingredient name collides on the join table's composite
	// primary key partway through the transaction.
	input := pieInput()
	input.Ingredients = []IngredientLine{
		{Name: "sugar", Quantity: 1, Unit: "cup"},
		{Name: "apples", Quantity: 6, Unit: "cup"},
		{Name: "sugar", Quantity: 2, Unit: "tbsp"},
	}
	_, err := svc.Create(ctx, user.ID, input)
	require.Error(t, err)

	// Nothing from the failed submission survives.
	var recipes, joinRows, ingredients int64
	db.Model(&models.Recipe{}).Count(&recipes)
	db.Model(&models.RecipeIngredient{}).Count(&joinRows)
	db.Model(&models.Ingredient{}).Count(&ingredients)
	assert.Equal(t, int64(0), recipes)
	assert.Equal(t, int64(0), joinRows)
	assert.Equal(t, int64(0), ingredients)
}

func TestCreateRecipeWithTags(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	require.NoError(t, NewTagService(db).Seed(ctx))
	var dinner models.Tag
	require.NoError(t, db.First(&dinner, "name = ?", "dinner").Error)

	input := pieInput()
	input.TagIDs = []uuid.UUID{dinner.ID}
	recipe, err := svc.Create(ctx, user.ID, input)
	require.NoError(t, err)

	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "dinner", recipe.Tags[0].Name)
}

func TestGetMissingRecipe(t *testing.T) {
	svc, _ := newTestRecipeService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateRecipeScalarFields(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	recipe, err := svc.Create(ctx, user.ID, pieInput())
	require.NoError(t, err)

	edit := RecipeInput{
		Title:           "Better Apple Pie",
		Description:     "Improved",
		Instructions:    "Mix better, bake longer.",
		PrepTimeMinutes: 20,
		CookTimeMinutes: 50,
		Servings:        10,
	}
	updated, err := svc.Update(ctx, recipe.ID, user.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, "Better Apple Pie", updated.Title)
	assert.Equal(t, 10, updated.Servings)

	// Ingredient lines are untouched by the edit path.
	assert.Len(t, updated.Ingredients, 3)
}

func TestUpdateRecipeNonOwner(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	intruder := createTestUser(t, db, "intruder")

	recipe, err := svc.Create(ctx, owner.ID, pieInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, recipe.ID, intruder.ID, RecipeInput{
		Title: "Stolen Pie", Instructions: "x", Servings: 1,
	})
	assert.ErrorIs(t, err, ErrNotOwner)

	unchanged, err := svc.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple Pie", unchanged.Title)
}

func TestDeleteRecipeCascades(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	require.NoError(t, NewTagService(db).Seed(ctx))
	var dinner models.Tag
	require.NoError(t, db.First(&dinner, "name = ?", "dinner").Error)

	input := pieInput()
	input.TagIDs = []uuid.UUID{dinner.ID}
	recipe, err := svc.Create(ctx, user.ID, input)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, recipe.ID, user.ID))

	_, err = svc.Get(ctx, recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var joinRows int64
	db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&joinRows)
	assert.Equal(t, int64(0), joinRows)

	var tagLinks int64
	db.Table("recipe_tags").Where("recipe_id = ?", recipe.ID).Count(&tagLinks)
	assert.Equal(t, int64(0), tagLinks)

	// Shared ingredient rows survive the delete.
	var ingredients int64
	db.Model(&models.Ingredient{}).Count(&ingredients)
	assert.Equal(t, int64(3), ingredients)
}

func TestDeleteRecipeNonOwner(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "owner")
	intruder := createTestUser(t, db, "intruder")

	recipe, err := svc.Create(ctx, owner.ID, pieInput())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, recipe.ID, intruder.ID), ErrNotOwner)

	_, err = svc.Get(ctx, recipe.ID)
	assert.NoError(t, err)
}

func TestSearchCaseInsensitive(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	pie := pieInput()
	_, err := svc.Create(ctx, user.ID, pie)
	require.NoError(t, err)

	stirFry := RecipeInput{
		Title:        "Veggie Stir Fry",
		Description:  "Quick dinner",
		Instructions: "Fry the veggies.",
		Servings:     2,
		Ingredients:  []IngredientLine{{Name: "veggies", Quantity: 4, Unit: "cup"}},
	}
	_, err = svc.Create(ctx, user.ID, stirFry)
	require.NoError(t, err)

	results, err := svc.List(ctx, "Pie")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Apple Pie", results[0].Title)

	// Matches in description and instructions count too.
	results, err = svc.List(ctx, "DINNER")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Veggie Stir Fry", results[0].Title)
}

func TestListRecentFive(t *testing.T) {
	svc, db := newTestRecipeService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "author")

	for i := 0; i < 7; i++ {
		input := pieInput()
		input.Title = fmt.Sprintf("Recipe %d", i)
		recipe, err := svc.Create(ctx, user.ID, input)
		require.NoError(t, err)
		// Spread creation times so ordering is deterministic.
		createdAt := time.Now().Add(time.Duration(i-7) * time.Minute)
		require.NoError(t, db.Model(recipe).Update("created_at", createdAt).Error)
	}

	results, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Equal(t, "Recipe 6", results[0].Title)
	assert.Equal(t, "Recipe 2", results[4].Title)

	recent, err := svc.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, "Recipe 6", recent[0].Title)
}
