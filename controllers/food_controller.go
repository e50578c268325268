package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/services"
)

type FoodController struct {
	Foods  *services.FoodService
	Ledger *services.LedgerService
}

func NewFoodController(foods *services.FoodService, ledger *services.LedgerService) *FoodController {
	return &FoodController{Foods: foods, Ledger: ledger}
}

type NutritionPayload struct {
	Calories     float64 `json:"calories" validate:"min=0"`
	Carbohydrate float64 `json:"carbohydrate" validate:"min=0"`
	Protein      float64 `json:"protein" validate:"min=0"`
	Fat          float64 `json:"fat" validate:"min=0"`
	SaturatedFat float64 `json:"saturated_fat" validate:"min=0"`
	Sodium       float64 `json:"sodium" validate:"min=0"`
	Fiber        float64 `json:"fiber" validate:"min=0"`
}

func (p NutritionPayload) toModel() models.Nutrition {
	return models.Nutrition{
		Calories:     p.Calories,
		Carbohydrate: p.Carbohydrate,
		Protein:      p.Protein,
		Fat:          p.Fat,
		SaturatedFat: p.SaturatedFat,
		Sodium:       p.Sodium,
		Fiber:        p.Fiber,
	}
}

type LogFoodRequest struct {
	Date               string           `json:"date" validate:"required"`
	FoodID             string           `json:"food_id" validate:"required"`
	ServingID          string           `json:"serving_id"`
	ServingDescription string           `json:"serving_description"`
	WholeServings      int              `json:"whole_servings" validate:"min=0"`
	FractionMultiplier float64          `json:"fraction_multiplier" validate:"min=0,max=1"`
	MealType           string           `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
	Brand              string           `json:"brand"`
	Nutrition          NutritionPayload `json:"nutrition"`
}

// LogFood appends one eaten food to the day's ledger, creating the ledger on
// the first food of that day.
func (fc *FoodController) LogFood(c *gin.Context) {
	var req LogFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := models.FoodEvent{
		UserID:             currentUserID(c),
		FoodID:             req.FoodID,
		ServingID:          req.ServingID,
		ServingDescription: req.ServingDescription,
		WholeServings:      req.WholeServings,
		FractionMultiplier: req.FractionMultiplier,
		Nutrition:          req.Nutrition.toModel(),
		MealType:           models.MealType(req.MealType),
		Brand:              req.Brand,
	}
	ledger, err := fc.Ledger.LogFood(c.Request.Context(), event, req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ledger)
}

// DeleteFood removes one logged event from a day. Deleting an event that is
// already gone succeeds.
func (fc *FoodController) DeleteFood(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter required"})
		return
	}
	if err := fc.Ledger.DeleteFood(c.Request.Context(), currentUserID(c), c.Param("id"), date); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type ServingPayload struct {
	Description string           `json:"description" validate:"required"`
	Nutrition   NutritionPayload `json:"nutrition"`
}

type CreateFoodRequest struct {
	Name     string           `json:"name" validate:"required"`
	Brand    string           `json:"brand"`
	Barcode  string           `json:"barcode"`
	Servings []ServingPayload `json:"servings" validate:"required,min=1,dive"`
}

// CreateFood registers a custom food with freshly allocated F-/S- short ids.
func (fc *FoodController) CreateFood(c *gin.Context) {
	var req CreateFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	servings := make([]services.ServingInput, len(req.Servings))
	for i, sv := range req.Servings {
		servings[i] = services.ServingInput{Description: sv.Description, Nutrition: sv.Nutrition.toModel()}
	}

	food, err := fc.Foods.CreateFood(c.Request.Context(), currentUserID(c), req.Name, req.Brand, req.Barcode, servings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (fc *FoodController) GetFood(c *gin.Context) {
	food, err := fc.Foods.GetFood(c.Request.Context(), currentUserID(c), c.Param("food_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (fc *FoodController) SearchFoods(c *gin.Context) {
	results, err := fc.Foods.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// LookupBarcode expands UPC-E codes, pads to EAN-13, checks the checksum and
// resolves the code against the food database.
func (fc *FoodController) LookupBarcode(c *gin.Context) {
	record, err := fc.Foods.LookupBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
