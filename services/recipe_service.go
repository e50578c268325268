package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/store"
)

// AggregateNutrition sums the seven nutrition scalars across all ingredient
// records and divides by the declared serving count. The ingredient values
// are already pre-scaled, so this is a plain unweighted sum. Pure function.
//
// servings must be a positive real number; anything else is rejected rather
// than producing Inf/NaN artifacts.
func AggregateNutrition(ingredients []models.Nutrition, servings float64) (models.Nutrition, error) {
	if math.IsNaN(servings) || math.IsInf(servings, 0) || servings <= 0 {
		return models.Nutrition{}, fmt.Errorf("%w: servings must be positive, got %v", ErrInvalidArgument, servings)
	}

	var total models.Nutrition
	for _, n := range ingredients {
		total = total.Add(n)
	}
	return total.Scale(1 / servings), nil
}

// RecipeService creates reusable recipes with cached per-serving nutrition
// and logs them as single food events.
type RecipeService struct {
	recipes store.RecipeStore
	ledger  *LedgerService
	log     *zap.Logger
}

func NewRecipeService(recipes store.RecipeStore, ledger *LedgerService, log *zap.Logger) *RecipeService {
	return &RecipeService{recipes: recipes, ledger: ledger, log: log}
}

// Create snapshots the per-serving nutrition at creation time. The snapshot
// is a pure function of the ingredients and servings as passed here; it is
// not recomputed if an ingredient changes later. Recipes are immutable.
func (s *RecipeService) Create(ctx context.Context, userID, name string, ingredients []models.FoodEvent, servings float64, servingSize string) (*models.Recipe, error) {
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: user id and name are required", ErrInvalidArgument)
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: a recipe needs at least one ingredient", ErrInvalidArgument)
	}

	nutritions := make([]models.Nutrition, len(ingredients))
	for i, ing := range ingredients {
		nutritions[i] = ing.Nutrition
	}
	perServing, err := AggregateNutrition(nutritions, servings)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Name:                name,
		Ingredients:         ingredients,
		Servings:            servings,
		ServingSize:         servingSize,
		NutritionPerServing: perServing,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.recipes.Insert(ctx, recipe); err != nil {
		return nil, err
	}

	s.log.Info("recipe created",
		zap.String("user_id", userID),
		zap.String("recipe_id", recipe.ID),
		zap.Float64("servings", servings),
	)
	return recipe, nil
}

// Log records eating some number of servings of a recipe as one food event.
// The cached per-serving snapshot is multiplied by the event's own serving
// multiplier here — a second scaling step on top of the aggregation done at
// recipe creation.
func (s *RecipeService) Log(ctx context.Context, userID, recipeID, date string, whole int, fraction float64, meal models.MealType) (*models.DailyLedger, error) {
	recipe, err := s.recipes.FindByID(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	multiplier := float64(whole) + fraction
	if multiplier <= 0 {
		return nil, fmt.Errorf("%w: serving multiplier must be positive", ErrInvalidArgument)
	}

	event := models.FoodEvent{
		UserID:             userID,
		FoodID:             recipe.ID,
		ServingDescription: recipe.ServingSize,
		WholeServings:      whole,
		FractionMultiplier: fraction,
		Nutrition:          recipe.NutritionPerServing.Scale(multiplier),
		MealType:           meal,
		Source:             models.SourceRecipe,
	}
	return s.ledger.LogFood(ctx, event, date)
}

func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*models.Recipe, error) {
	return s.recipes.FindByID(ctx, userID, recipeID)
}

func (s *RecipeService) List(ctx context.Context, userID string) ([]models.Recipe, error) {
	return s.recipes.ListByUser(ctx, userID)
}
