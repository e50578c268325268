package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/services"
)

type RecipeController struct {
	Recipes *services.RecipeService
}

func NewRecipeController(recipes *services.RecipeService) *RecipeController {
	return &RecipeController{Recipes: recipes}
}

type RecipeIngredientPayload struct {
	FoodID             string           `json:"food_id" validate:"required"`
	ServingID          string           `json:"serving_id"`
	ServingDescription string           `json:"serving_description"`
	WholeServings      int              `json:"whole_servings" validate:"min=0"`
	FractionMultiplier float64          `json:"fraction_multiplier" validate:"min=0,max=1"`
	Brand              string           `json:"brand"`
	Nutrition          NutritionPayload `json:"nutrition"`
}

type CreateRecipeRequest struct {
	Name        string                    `json:"name" validate:"required"`
	Servings    float64                   `json:"servings" validate:"required,gt=0"`
	ServingSize string                    `json:"serving_size"`
	Ingredients []RecipeIngredientPayload `json:"ingredients" validate:"required,min=1,dive"`
}

// Create stores an immutable recipe with its per-serving nutrition snapshot.
func (rc *RecipeController) Create(c *gin.Context) {
	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	ingredients := make([]models.FoodEvent, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ingredients[i] = models.FoodEvent{
			UserID:             userID,
			FoodID:             ing.FoodID,
			ServingID:          ing.ServingID,
			ServingDescription: ing.ServingDescription,
			WholeServings:      ing.WholeServings,
			FractionMultiplier: ing.FractionMultiplier,
			Nutrition:          ing.Nutrition.toModel(),
			Brand:              ing.Brand,
		}
	}

	recipe, err := rc.Recipes.Create(c.Request.Context(), userID, req.Name, ingredients, req.Servings, req.ServingSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

type LogRecipeRequest struct {
	Date               string  `json:"date" validate:"required"`
	WholeServings      int     `json:"whole_servings" validate:"min=0"`
	FractionMultiplier float64 `json:"fraction_multiplier" validate:"min=0,max=1"`
	MealType           string  `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
}

// Log records eating a recipe as a single ledger event.
func (rc *RecipeController) Log(c *gin.Context) {
	var req LogRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ledger, err := rc.Recipes.Log(
		c.Request.Context(),
		currentUserID(c),
		c.Param("id"),
		req.Date,
		req.WholeServings,
		req.FractionMultiplier,
		models.MealType(req.MealType),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ledger)
}

func (rc *RecipeController) Get(c *gin.Context) {
	recipe, err := rc.Recipes.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (rc *RecipeController) List(c *gin.Context) {
	recipes, err := rc.Recipes.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}
