package models

import (
	"time"
)

// Recipe is a reusable composite of ingredient food events with a cached
// per-serving nutrition snapshot. The snapshot is computed once at creation
// from the ingredients and serving count; it is not recomputed if a referenced
// ingredient later changes. Recipes are immutable after creation.
type Recipe struct {
	ID                  string      `bson:"_id" json:"id"`
	UserID              string      `bson:"user_id" json:"user_id"`
	Name                string      `bson:"name" json:"name"`
	Ingredients         []FoodEvent `bson:"ingredients" json:"ingredients"`
	Servings            float64     `bson:"servings" json:"servings"`
	ServingSize         string      `bson:"serving_size" json:"serving_size"`
	NutritionPerServing Nutrition   `bson:"nutrition_per_serving" json:"nutrition_per_serving"`
	CreatedAt           time.Time   `bson:"created_at" json:"created_at"`
}
