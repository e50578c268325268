package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/store"
)

func newTestGoals(t *testing.T) (*GoalService, *LedgerService) {
	t.Helper()
	ledger := NewLedgerService(store.NewMemoryLedgerStore(), store.NewMemoryEventStore(), testLocation(t), nil, zap.NewNop())
	return NewGoalService(store.NewMemoryGoalStore(), ledger, zap.NewNop()), ledger
}

func TestProgressAgainstTargets(t *testing.T) {
	svc, ledger := newTestGoals(t)
	ctx := context.Background()

	if _, err := svc.SetGoals(ctx, "u1", models.Nutrition{Calories: 2000, Protein: 100}); err != nil {
		t.Fatalf("SetGoals: %v", err)
	}
	ev := testEvent("u1", models.Breakfast, 500)
	ev.Nutrition.Protein = 30
	if _, err := ledger.LogFood(ctx, ev, "2024-03-05"); err != nil {
		t.Fatalf("LogFood: %v", err)
	}

	progress, err := svc.Progress(ctx, "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	cal := progress.Progress["calories"]
	if cal.Consumed != 500 || cal.Goal != 2000 || cal.Percent != 0.25 {
		t.Errorf("calories progress = %+v", cal)
	}
	prot := progress.Progress["protein"]
	if prot.Percent != 0.3 {
		t.Errorf("protein percent = %v, want 0.3", prot.Percent)
	}
}

func TestProgressCapsAtFullTarget(t *testing.T) {
	svc, ledger := newTestGoals(t)
	ctx := context.Background()

	if _, err := svc.SetGoals(ctx, "u1", models.Nutrition{Calories: 100}); err != nil {
		t.Fatalf("SetGoals: %v", err)
	}
	if _, err := ledger.LogFood(ctx, testEvent("u1", models.Lunch, 350), "2024-03-05"); err != nil {
		t.Fatalf("LogFood: %v", err)
	}

	progress, err := svc.Progress(ctx, "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if got := progress.Progress["calories"].Percent; got != 1 {
		t.Errorf("percent = %v, want capped at 1", got)
	}
}

func TestProgressWithoutGoalsOrLedger(t *testing.T) {
	svc, _ := newTestGoals(t)

	progress, err := svc.Progress(context.Background(), "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	for name, p := range progress.Progress {
		if p.Consumed != 0 || p.Goal != 0 || p.Percent != 0 {
			t.Errorf("%s = %+v, want all zero", name, p)
		}
	}
}

func TestSetGoalsRejectsNegativeTargets(t *testing.T) {
	svc, _ := newTestGoals(t)

	_, err := svc.SetGoals(context.Background(), "u1", models.Nutrition{Sodium: -1})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestSetGoalsOverwrites(t *testing.T) {
	svc, _ := newTestGoals(t)
	ctx := context.Background()

	if _, err := svc.SetGoals(ctx, "u1", models.Nutrition{Calories: 1800}); err != nil {
		t.Fatalf("SetGoals: %v", err)
	}
	if _, err := svc.SetGoals(ctx, "u1", models.Nutrition{Calories: 2200}); err != nil {
		t.Fatalf("SetGoals again: %v", err)
	}

	progress, err := svc.Progress(ctx, "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Targets.Calories != 2200 {
		t.Errorf("target calories = %v, want 2200", progress.Targets.Calories)
	}
}
