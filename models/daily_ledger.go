package models

import (
	"time"
)

// DailyLedger is the set of food events attributed to one user for one
// calendar day in the reference timezone. At most one exists per (user, day);
// it is created lazily on the first logged food and may remain empty after the
// last event is removed.
type DailyLedger struct {
	ID          string    `bson:"_id" json:"id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	DateCreated time.Time `bson:"date_created" json:"date_created"` // local midnight as an absolute instant
	Foods       []string  `bson:"foods" json:"foods"`               // FoodEvent ids in insertion order
}
