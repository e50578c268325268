package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/store"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func newTestLedger(t *testing.T) (*LedgerService, *store.MemoryLedgerStore, *store.MemoryEventStore) {
	t.Helper()
	ledgers := store.NewMemoryLedgerStore()
	events := store.NewMemoryEventStore()
	svc := NewLedgerService(ledgers, events, testLocation(t), nil, zap.NewNop())
	return svc, ledgers, events
}

func testEvent(userID string, meal models.MealType, calories float64) models.FoodEvent {
	return models.FoodEvent{
		UserID:             userID,
		FoodID:             "F-000001",
		ServingID:          "S-000001",
		ServingDescription: "1 cup",
		WholeServings:      1,
		Nutrition:          models.Nutrition{Calories: calories, Protein: 2, Sodium: 100},
		MealType:           meal,
	}
}

func TestDayWindow(t *testing.T) {
	svc, _, _ := newTestLedger(t)

	// 2024-03-05 is EST (UTC-5): local midnight is 05:00 UTC.
	dayStart, w, err := svc.DayWindow("2024-03-05")
	if err != nil {
		t.Fatalf("DayWindow error: %v", err)
	}
	wantStart := time.Date(2024, 3, 5, 5, 0, 0, 0, time.UTC)
	if !dayStart.Equal(wantStart) {
		t.Errorf("dayStart = %v, want %v", dayStart, wantStart)
	}
	if !w.Start.Equal(wantStart.Add(-4 * time.Hour)) {
		t.Errorf("window start = %v, want start-4h", w.Start)
	}
	if !w.End.Equal(wantStart.Add(24*time.Hour - time.Nanosecond)) {
		t.Errorf("window end = %v, want inclusive end of day", w.End)
	}
}

func TestDayWindowBadDate(t *testing.T) {
	svc, _, _ := newTestLedger(t)

	for _, date := range []string{"", "garbage", "2024-13-01", "2024-02-30", "03/05/2024", "2024-3-5"} {
		_, _, err := svc.DayWindow(date)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("DayWindow(%q) err = %v, want ErrInvalidArgument", date, err)
		}
	}
}

func TestLogFoodSameLocalDayOneLedger(t *testing.T) {
	svc, ledgers, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := svc.LogFood(ctx, testEvent("u1", models.Breakfast, 100), "2024-03-05")
	if err != nil {
		t.Fatalf("first LogFood: %v", err)
	}
	second, err := svc.LogFood(ctx, testEvent("u1", models.Dinner, 200), "2024-03-05")
	if err != nil {
		t.Fatalf("second LogFood: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("events landed in two ledgers: %s vs %s", first.ID, second.ID)
	}
	if len(second.Foods) != 2 {
		t.Fatalf("ledger has %d refs, want 2", len(second.Foods))
	}

	// No second bucket for the same (user, day).
	_, w, _ := svc.DayWindow("2024-03-05")
	l, err := ledgers.FindByUserDay(ctx, "u1", w)
	if err != nil {
		t.Fatalf("FindByUserDay: %v", err)
	}
	if len(l.Foods) != 2 {
		t.Errorf("stored ledger has %d refs, want 2", len(l.Foods))
	}
}

func TestLogFoodJoinsBucketWrittenUnderNearbyOffset(t *testing.T) {
	// A ledger persisted 3 hours earlier than our local-midnight convention
	// (a different write-time offset) must still be found thanks to the
	// 4-hour start margin, instead of spawning a second bucket for the day.
	svc, ledgers, _ := newTestLedger(t)
	ctx := context.Background()

	dayStart, w, err := svc.DayWindow("2024-03-05")
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}
	skewed := dayStart.Add(-3 * time.Hour)
	if _, err := ledgers.Append(ctx, "u1", skewed, store.Window{Start: skewed, End: skewed}, "pre-existing"); err != nil {
		t.Fatalf("seeding ledger: %v", err)
	}

	ledger, err := svc.LogFood(ctx, testEvent("u1", models.Lunch, 300), "2024-03-05")
	if err != nil {
		t.Fatalf("LogFood: %v", err)
	}
	if len(ledger.Foods) != 2 {
		t.Fatalf("ledger has %d refs, want 2 (merged into skewed bucket)", len(ledger.Foods))
	}
	if !ledger.DateCreated.Equal(skewed) {
		t.Errorf("bucket instant changed: %v, want %v", ledger.DateCreated, skewed)
	}
	if _, err := ledgers.FindByUserDay(ctx, "u1", w); err != nil {
		t.Errorf("widened lookup missed the bucket: %v", err)
	}
}

func TestConcurrentAppendsAllLand(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.LogFood(ctx, testEvent("u1", models.Snack, 50), "2024-03-05")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent LogFood: %v", err)
		}
	}

	day, err := svc.Day(ctx, "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	total := 0
	for _, g := range day.Meals {
		total += len(g.Events)
	}
	if total != n {
		t.Errorf("day contains %d events, want %d (lost appends)", total, n)
	}
}

func TestDayGroupsByMealInFixedOrder(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	// Log out of display order; breakfast twice to check insertion order.
	logged := []struct {
		meal models.MealType
		cal  float64
	}{
		{models.Dinner, 500},
		{models.Breakfast, 100},
		{models.Snack, 50},
		{models.Breakfast, 150},
		{models.Lunch, 300},
	}
	for i, l := range logged {
		if _, err := svc.LogFood(ctx, testEvent("u1", l.meal, l.cal), "2024-03-05"); err != nil {
			t.Fatalf("LogFood %d: %v", i, err)
		}
	}

	day, err := svc.Day(ctx, "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if !day.Exists {
		t.Fatal("Exists = false, want true")
	}

	wantOrder := []models.MealType{models.Breakfast, models.Lunch, models.Dinner, models.Snack}
	if len(day.Meals) != len(wantOrder) {
		t.Fatalf("got %d meal groups, want %d", len(day.Meals), len(wantOrder))
	}
	for i, g := range day.Meals {
		if g.MealType != wantOrder[i] {
			t.Errorf("group %d = %s, want %s", i, g.MealType, wantOrder[i])
		}
	}

	breakfast := day.Meals[0].Events
	if len(breakfast) != 2 {
		t.Fatalf("breakfast has %d events, want 2", len(breakfast))
	}
	if breakfast[0].Nutrition.Calories != 100 || breakfast[1].Nutrition.Calories != 150 {
		t.Errorf("breakfast order = %v, %v calories, want 100 then 150",
			breakfast[0].Nutrition.Calories, breakfast[1].Nutrition.Calories)
	}

	if day.Totals.Calories != 1100 {
		t.Errorf("total calories = %v, want 1100", day.Totals.Calories)
	}
}

func TestDayWithoutLedger(t *testing.T) {
	svc, _, _ := newTestLedger(t)

	day, err := svc.Day(context.Background(), "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Day on empty store: %v", err)
	}
	if day.Exists {
		t.Error("Exists = true, want false")
	}
	if len(day.Meals) != 4 {
		t.Errorf("got %d meal groups, want 4 empty groups", len(day.Meals))
	}
	for _, g := range day.Meals {
		if len(g.Events) != 0 {
			t.Errorf("group %s not empty", g.MealType)
		}
	}
}

func TestDeleteFoodIdempotent(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	ledger, err := svc.LogFood(ctx, testEvent("u1", models.Lunch, 300), "2024-03-05")
	if err != nil {
		t.Fatalf("LogFood: %v", err)
	}
	eventID := ledger.Foods[0]

	if err := svc.DeleteFood(ctx, "u1", eventID, "2024-03-05"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeleteFood(ctx, "u1", eventID, "2024-03-05"); err != nil {
		t.Fatalf("second delete of same event: %v", err)
	}

	day, err := svc.Day(ctx, "u1", "2024-03-05")
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	// The ledger document may remain, just empty.
	for _, g := range day.Meals {
		if len(g.Events) != 0 {
			t.Errorf("group %s still has events after delete", g.MealType)
		}
	}
}

func TestLogFoodRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		event models.FoodEvent
		date  string
	}{
		{"missing user", models.FoodEvent{MealType: models.Lunch, WholeServings: 1}, "2024-03-05"},
		{"bad meal type", func() models.FoodEvent {
			e := testEvent("u1", "brunch", 100)
			return e
		}(), "2024-03-05"},
		{"zero multiplier", func() models.FoodEvent {
			e := testEvent("u1", models.Lunch, 100)
			e.WholeServings = 0
			e.FractionMultiplier = 0
			return e
		}(), "2024-03-05"},
		{"bad date", testEvent("u1", models.Lunch, 100), "not-a-date"},
	}

	for _, tt := range tests {
		if _, err := svc.LogFood(ctx, tt.event, tt.date); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: err = %v, want ErrInvalidArgument", tt.name, err)
		}
	}
}

func TestDayWindowEndsAtNextLocalMidnight(t *testing.T) {
	svc, _, _ := newTestLedger(t)

	// 2024-03-10 is the spring-forward day: 23 hours long. Midnight is EST
	// (05:00 UTC) but the next local midnight is EDT (04:00 UTC on 03-11), so
	// the end boundary must come from the calendar, not from adding 24h.
	_, short, err := svc.DayWindow("2024-03-10")
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}
	nextStart := time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC)
	if !short.End.Equal(nextStart.Add(-time.Nanosecond)) {
		t.Errorf("spring-forward end = %v, want next local midnight - 1ns", short.End)
	}
	if short.Contains(nextStart) {
		t.Error("spring-forward window contains the next day's bucket instant")
	}

	// 2024-11-03 falls back: 25 hours long, end at 05:00 UTC on 11-04.
	_, long, err := svc.DayWindow("2024-11-03")
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}
	wantEnd := time.Date(2024, 11, 4, 5, 0, 0, 0, time.UTC).Add(-time.Nanosecond)
	if !long.End.Equal(wantEnd) {
		t.Errorf("fall-back end = %v, want %v", long.End, wantEnd)
	}
}

func TestSpringForwardDayKeepsItsOwnBucket(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	// Log the day after the transition first: if 03-10's window leaked past
	// its (short) local day, 03-10's food would join 03-11's ledger.
	if _, err := svc.LogFood(ctx, testEvent("u1", models.Lunch, 100), "2024-03-11"); err != nil {
		t.Fatalf("LogFood 03-11: %v", err)
	}
	if _, err := svc.LogFood(ctx, testEvent("u1", models.Lunch, 200), "2024-03-10"); err != nil {
		t.Fatalf("LogFood 03-10: %v", err)
	}

	for date, cal := range map[string]float64{"2024-03-10": 200, "2024-03-11": 100} {
		day, err := svc.Day(ctx, "u1", date)
		if err != nil {
			t.Fatalf("Day %s: %v", date, err)
		}
		lunch := day.Meals[1].Events
		if len(lunch) != 1 {
			t.Fatalf("%s has %d lunch events, want 1", date, len(lunch))
		}
		if lunch[0].Nutrition.Calories != cal {
			t.Errorf("%s holds the wrong event: %v calories, want %v", date, lunch[0].Nutrition.Calories, cal)
		}
	}
}

func TestDaysAreIndependentBuckets(t *testing.T) {
	svc, _, _ := newTestLedger(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		date := fmt.Sprintf("2024-03-%02d", 10+i)
		if _, err := svc.LogFood(ctx, testEvent("u1", models.Lunch, 100), date); err != nil {
			t.Fatalf("LogFood %s: %v", date, err)
		}
	}

	for i := 0; i < 3; i++ {
		date := fmt.Sprintf("2024-03-%02d", 10+i)
		day, err := svc.Day(ctx, "u1", date)
		if err != nil {
			t.Fatalf("Day %s: %v", date, err)
		}
		if n := len(day.Meals[1].Events); n != 1 {
			t.Errorf("%s lunch has %d events, want 1", date, n)
		}
	}
}
