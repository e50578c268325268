package store

import (
	"context"
	"errors"
	"time"

	"github.com/bordanattila/NutriPal-sub000/models"
)

// Sentinels shared by every implementation. ErrNotFound is a normal negative
// result for day-ledger lookups, not a failure. ErrDuplicateKey surfaces the
// underlying uniqueness constraint so callers can re-allocate and retry.
var (
	ErrNotFound     = errors.New("store: not found")
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// Window is an inclusive instant range used to locate a day bucket.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// LedgerStore holds one DailyLedger document per (user, calendar day).
// Append must be atomic with respect to concurrent appends for the same key:
// either through a native array-append upsert or a per-key lock, with the
// unique (user, day) index as the final arbiter.
type LedgerStore interface {
	// Append pushes eventID onto the ledger matching the window, creating the
	// ledger with dayStart if none exists, and returns the updated document.
	Append(ctx context.Context, userID string, dayStart time.Time, w Window, eventID string) (*models.DailyLedger, error)
	// Remove pulls eventID from the ledger matching the window. Removing an
	// absent reference is a successful no-op.
	Remove(ctx context.Context, userID string, w Window, eventID string) error
	// FindByUserDay returns ErrNotFound when no ledger exists for the window.
	FindByUserDay(ctx context.Context, userID string, w Window) (*models.DailyLedger, error)
}

// EventStore holds FoodEvent documents.
type EventStore interface {
	Insert(ctx context.Context, event *models.FoodEvent) error
	FindByID(ctx context.Context, userID, id string) (*models.FoodEvent, error)
	FindByIDs(ctx context.Context, userID string, ids []string) ([]models.FoodEvent, error)
	Delete(ctx context.Context, userID, id string) error
}

// FoodStore holds user-created food records. Insert returns ErrDuplicateKey
// when the short food id (or one of its serving ids) is already taken.
type FoodStore interface {
	Insert(ctx context.Context, food *models.Food) error
	FindByShortID(ctx context.Context, userID, foodID string) (*models.Food, error)
	FoodIDExists(ctx context.Context, foodID string) (bool, error)
	ServingIDExists(ctx context.Context, servingID string) (bool, error)
}

// RecipeStore holds immutable recipe documents.
type RecipeStore interface {
	Insert(ctx context.Context, recipe *models.Recipe) error
	FindByID(ctx context.Context, userID, id string) (*models.Recipe, error)
	ListByUser(ctx context.Context, userID string) ([]models.Recipe, error)
}

// GoalStore holds at most one DailyGoal per user.
type GoalStore interface {
	Upsert(ctx context.Context, goal *models.DailyGoal) error
	FindByUser(ctx context.Context, userID string) (*models.DailyGoal, error)
}

// UserStore holds accounts; Insert returns ErrDuplicateKey on a taken email.
type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}
