package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Units accepted for an ingredient line. The list mirrors the choices offered
// by the recipe form.
var IngredientUnits = []string{
	"cup", "tbsp", "tsp", "oz", "lb", "g", "ml", "piece", "pinch", "whole",
}

// ValidUnit reports whether unit is one of IngredientUnits.
func ValidUnit(unit string) bool {
	for _, u := range IngredientUnits {
		if u == unit {
			return true
		}
	}
	return false
}

type Recipe struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `gorm:"size:100;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Instructions    string    `gorm:"type:text;not null" json:"instructions"`
	PrepTimeMinutes int       `gorm:"not null;check:prep_time_minutes >= 0" json:"prep_time_minutes"`
	CookTimeMinutes int       `gorm:"not null;default:0;check:cook_time_minutes >= 0" json:"cook_time_minutes"`
	Servings        int       `gorm:"not null;check:servings >= 1" json:"servings"`
	UserID          uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`

	Author      *User              `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Ingredient rows are shared across recipes and deduplicated by exact name.
// Once created they are never updated or deleted in-app.
type Ingredient struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one measured line of a recipe. Rows live and die with
// their owning recipe.
type RecipeIngredient struct {
	RecipeID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);primarykey" json:"ingredient_id"`
	Quantity     float64   `gorm:"not null;check:quantity >= 0" json:"quantity"`
	Unit         string    `gorm:"size:10;not null" json:"unit"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
