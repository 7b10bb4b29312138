// Seeds the development database with tag types, default tags and a couple
// of test users with recipes.
package main

import (
	"context"
	"log"

	"github.com/forkful/recipebox/config"
	"github.com/forkful/recipebox/internal/database"
	"github.com/forkful/recipebox/internal/logger"
	"github.com/forkful/recipebox/internal/models"
	"github.com/forkful/recipebox/internal/service"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	db, err := database.Open(cfg, zlog)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	tagService := service.NewTagService(db)
	if err := tagService.Seed(ctx); err != nil {
		log.Fatalf("failed to seed tags: %v", err)
	}

	authService := service.NewAuthService(db, cfg.Session.Secret, cfg.Session.Lifetime, cfg.Session.RememberLifetime)
	recipeService := service.NewRecipeService(db)

	users := []struct {
		username string
		email    string
		password string
		recipes  []service.RecipeInput
	}{
		{
			username: "john_doe",
			email:    "john@example.com",
			password: "password123",
			recipes: []service.RecipeInput{
				{
					Title:           "Grandma's Apple Pie",
					Description:     "A classic family recipe passed down through generations",
					Instructions:    "1. Preheat oven to 375F\n2. Mix apples with sugar and cinnamon\n3. Fill pie crust\n4. Bake for 45 minutes",
					PrepTimeMinutes: 30,
					CookTimeMinutes: 45,
					Servings:        8,
					Ingredients: []service.IngredientLine{
						{Name: "pie crust", Quantity: 2, Unit: "piece"},
						{Name: "sliced apples", Quantity: 6, Unit: "cup"},
						{Name: "sugar", Quantity: 1, Unit: "cup"},
						{Name: "cinnamon", Quantity: 2, Unit: "tbsp"},
						{Name: "butter", Quantity: 0.25, Unit: "cup"},
					},
				},
			},
		},
		{
			username: "jane_smith",
			email:    "jane@example.com",
			password: "password123",
			recipes: []service.RecipeInput{
				{
					Title:           "Quick Veggie Stir Fry",
					Description:     "Healthy weeknight dinner, ready in 20 minutes",
					Instructions:    "1. Heat oil in a wok\n2. Add vegetables and stir fry for 5 minutes\n3. Add sauce and cook 2 more minutes\n4. Serve over rice",
					PrepTimeMinutes: 10,
					CookTimeMinutes: 10,
					Servings:        2,
					Ingredients: []service.IngredientLine{
						{Name: "mixed vegetables", Quantity: 4, Unit: "cup"},
						{Name: "soy sauce", Quantity: 3, Unit: "tbsp"},
						{Name: "sesame oil", Quantity: 1, Unit: "tbsp"},
						{Name: "garlic", Quantity: 2, Unit: "piece"},
					},
				},
			},
		},
	}

	for _, u := range users {
		user, err := authService.Register(ctx, u.username, u.email, u.password)
		if err == service.ErrUsernameTaken || err == service.ErrEmailTaken {
			log.Printf("user %s already exists, skipping", u.username)
			continue
		}
		if err != nil {
			log.Fatalf("failed to create user %s: %v", u.username, err)
		}

		dinnerTags, err := dinnerTagIDs(ctx, tagService)
		if err != nil {
			log.Fatalf("failed to load tags: %v", err)
		}
		for _, input := range u.recipes {
			input.TagIDs = dinnerTags
			if _, err := recipeService.Create(ctx, user.ID, input); err != nil {
				log.Fatalf("failed to create recipe %q: %v", input.Title, err)
			}
		}
		log.Printf("seeded user %s (%s)", u.username, u.email)
	}

	log.Println("seeding complete")
}

func dinnerTagIDs(ctx context.Context, tags *service.TagService) ([]uuid.UUID, error) {
	choices, err := tags.Choices(ctx, models.TagTypeMeal)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, t := range choices {
		if t.Name == "dinner" {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}
