package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/store"
)

// GoalService stores per-user daily intake targets and scores a day's ledger
// totals against them.
type GoalService struct {
	goals  store.GoalStore
	ledger *LedgerService
	log    *zap.Logger
}

func NewGoalService(goals store.GoalStore, ledger *LedgerService, log *zap.Logger) *GoalService {
	return &GoalService{goals: goals, ledger: ledger, log: log}
}

// SetGoals replaces the user's targets. Negative targets are rejected; a zero
// target means "not tracked" and scores as 0 percent.
func (s *GoalService) SetGoals(ctx context.Context, userID string, targets models.Nutrition) (*models.DailyGoal, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidArgument)
	}
	for _, v := range []float64{
		targets.Calories, targets.Carbohydrate, targets.Protein, targets.Fat,
		targets.SaturatedFat, targets.Sodium, targets.Fiber,
	} {
		if v < 0 {
			return nil, fmt.Errorf("%w: targets must not be negative", ErrInvalidArgument)
		}
	}

	goal := &models.DailyGoal{
		UserID:    userID,
		Targets:   targets,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.goals.Upsert(ctx, goal); err != nil {
		return nil, err
	}

	s.log.Info("daily goals updated", zap.String("user_id", userID))
	return goal, nil
}

// DayProgress is the day's consumed totals scored against the user's targets,
// one entry per tracked scalar.
type DayProgress struct {
	Date     string                         `json:"date"`
	Targets  models.Nutrition               `json:"targets"`
	Totals   models.Nutrition               `json:"totals"`
	Progress map[string]models.GoalProgress `json:"progress"`
}

func pct(consumed, target float64) float64 {
	if target <= 0 {
		return 0
	}
	p := consumed / target
	if p > 1 {
		return 1
	}
	return p
}

// Progress reads the day's ledger and compares its totals against the user's
// goals. A user without stored goals gets all-zero targets, and a day without
// a ledger scores zero consumption; neither is an error.
func (s *GoalService) Progress(ctx context.Context, userID, date string) (*DayProgress, error) {
	goal, err := s.goals.FindByUser(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		goal = &models.DailyGoal{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	day, err := s.ledger.Day(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	t, c := goal.Targets, day.Totals
	return &DayProgress{
		Date:    date,
		Targets: t,
		Totals:  c,
		Progress: map[string]models.GoalProgress{
			"calories":      {Consumed: c.Calories, Goal: t.Calories, Percent: pct(c.Calories, t.Calories)},
			"carbohydrate":  {Consumed: c.Carbohydrate, Goal: t.Carbohydrate, Percent: pct(c.Carbohydrate, t.Carbohydrate)},
			"protein":       {Consumed: c.Protein, Goal: t.Protein, Percent: pct(c.Protein, t.Protein)},
			"fat":           {Consumed: c.Fat, Goal: t.Fat, Percent: pct(c.Fat, t.Fat)},
			"saturated_fat": {Consumed: c.SaturatedFat, Goal: t.SaturatedFat, Percent: pct(c.SaturatedFat, t.SaturatedFat)},
			"sodium":        {Consumed: c.Sodium, Goal: t.Sodium, Percent: pct(c.Sodium, t.Sodium)},
			"fiber":         {Consumed: c.Fiber, Goal: t.Fiber, Percent: pct(c.Fiber, t.Fiber)},
		},
	}, nil
}
