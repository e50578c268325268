package models

import "time"

// DailyGoal holds a user's daily intake targets over the same seven scalars
// the ledger tracks. One document per user.
type DailyGoal struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Targets   Nutrition `bson:"targets" json:"targets"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GoalProgress compares one scalar's consumed total against its target.
// Percent is capped at 1 and is 0 when no target is set.
type GoalProgress struct {
	Consumed float64 `json:"consumed"`
	Goal     float64 `json:"goal"`
	Percent  float64 `json:"percent"`
}
