package models

import (
	"time"
)

// MealType buckets a logged food into one of the four fixed meal slots.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealOrder is the fixed display order for grouped day views.
var MealOrder = []MealType{Breakfast, Lunch, Dinner, Snack}

func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Source tags where a food event came from.
type Source string

const (
	SourceAPI    Source = "api"
	SourceRecipe Source = "recipe"
)

// Nutrition holds the seven tracked scalars. On a FoodEvent these are already
// pre-scaled by the serving multiplier at creation time.
type Nutrition struct {
	Calories     float64 `bson:"calories" json:"calories"`
	Carbohydrate float64 `bson:"carbohydrate" json:"carbohydrate"`
	Protein      float64 `bson:"protein" json:"protein"`
	Fat          float64 `bson:"fat" json:"fat"`
	SaturatedFat float64 `bson:"saturated_fat" json:"saturated_fat"`
	Sodium       float64 `bson:"sodium" json:"sodium"`
	Fiber        float64 `bson:"fiber" json:"fiber"`
}

func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories:     n.Calories + o.Calories,
		Carbohydrate: n.Carbohydrate + o.Carbohydrate,
		Protein:      n.Protein + o.Protein,
		Fat:          n.Fat + o.Fat,
		SaturatedFat: n.SaturatedFat + o.SaturatedFat,
		Sodium:       n.Sodium + o.Sodium,
		Fiber:        n.Fiber + o.Fiber,
	}
}

func (n Nutrition) Scale(f float64) Nutrition {
	return Nutrition{
		Calories:     n.Calories * f,
		Carbohydrate: n.Carbohydrate * f,
		Protein:      n.Protein * f,
		Fat:          n.Fat * f,
		SaturatedFat: n.SaturatedFat * f,
		Sodium:       n.Sodium * f,
		Fiber:        n.Fiber * f,
	}
}

// FoodEvent is one concrete logged serving of food. Immutable after creation
// except for deletion. Whole servings and the fractional multiplier are stored
// separately and combined additively (2 + 0.5 = 2.5 servings).
type FoodEvent struct {
	ID                 string    `bson:"_id" json:"id"`
	UserID             string    `bson:"user_id" json:"user_id"`
	FoodID             string    `bson:"food_id" json:"food_id"`
	ServingID          string    `bson:"serving_id" json:"serving_id"`
	ServingDescription string    `bson:"serving_description" json:"serving_description"`
	WholeServings      int       `bson:"whole_servings" json:"whole_servings"`
	FractionMultiplier float64   `bson:"fraction_multiplier" json:"fraction_multiplier"`
	Nutrition          Nutrition `bson:"nutrition" json:"nutrition"`
	MealType           MealType  `bson:"meal_type" json:"meal_type"`
	Brand              string    `bson:"brand,omitempty" json:"brand,omitempty"`
	Source             Source    `bson:"source" json:"source"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// ServingMultiplier is the combined serving count for this event.
func (e FoodEvent) ServingMultiplier() float64 {
	return float64(e.WholeServings) + e.FractionMultiplier
}
