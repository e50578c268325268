package models

import (
	"time"
)

// Serving is one declared serving option on a food record. ServingID is the
// short display identifier (S-######), unique among servings.
type Serving struct {
	ServingID   string    `bson:"serving_id" json:"serving_id"`
	Description string    `bson:"description" json:"description"`
	Nutrition   Nutrition `bson:"nutrition" json:"nutrition"` // per single serving
}

// Food is a user-created food record. FoodID is the short display identifier
// (F-######), unique among foods; it is never recycled after deletion.
type Food struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	FoodID    string    `bson:"food_id" json:"food_id"`
	Name      string    `bson:"name" json:"name"`
	Brand     string    `bson:"brand,omitempty" json:"brand,omitempty"`
	Barcode   string    `bson:"barcode,omitempty" json:"barcode,omitempty"`
	Servings  []Serving `bson:"servings" json:"servings"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
