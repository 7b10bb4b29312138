package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/forkful/recipebox/internal/models"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=2,max=20"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Password2 string `json:"password2" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type IngredientLineRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
	Unit     string  `json:"unit" binding:"required,measureunit"`
}

type RecipeRequest struct {
	Title           string                  `json:"title" binding:"required,max=100"`
	Description     string                  `json:"description"`
	Instructions    string                  `json:"instructions" binding:"required"`
	PrepTimeMinutes int                     `json:"prep_time_minutes" binding:"gte=0"`
	CookTimeMinutes int                     `json:"cook_time_minutes" binding:"gte=0"`
	Servings        int                     `json:"servings" binding:"required,gte=1"`
	Ingredients     []IngredientLineRequest `json:"ingredients" binding:"required,min=1,dive"`
	TagIDs          []string                `json:"tag_ids" binding:"omitempty,dive,uuid"`
}

// RecipeEditRequest covers the edit path, which replaces scalar fields only.
type RecipeEditRequest struct {
	Title           string `json:"title" binding:"required,max=100"`
	Description     string `json:"description"`
	Instructions    string `json:"instructions" binding:"required"`
	PrepTimeMinutes int    `json:"prep_time_minutes" binding:"gte=0"`
	CookTimeMinutes int    `json:"cook_time_minutes" binding:"gte=0"`
	Servings        int    `json:"servings" binding:"required,gte=1"`
}

// RegisterValidators installs custom validations on gin's binding validator.
// Call once at startup.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("measureunit", func(fl validator.FieldLevel) bool {
			return models.ValidUnit(fl.Field().String())
		})
	}
}

// fieldErrors converts a binding error into a field -> message map for
// inline display.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_form"] = "invalid request body"
		return out
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "this field is required"
		case "email":
			out[field] = "invalid email address"
		case "min":
			out[field] = "value is too short or too small"
		case "max":
			out[field] = "value is too long or too large"
		case "gte":
			out[field] = "value must not be negative"
		case "eqfield":
			out[field] = "passwords must match"
		case "measureunit":
			out[field] = "unknown measurement unit"
		default:
			out[field] = "invalid value"
		}
	}
	return out
}
