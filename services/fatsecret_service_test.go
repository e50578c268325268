package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenCacheReusesFreshToken(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	cache := NewTokenCache()
	cache.now = func() time.Time { return now }

	calls := 0
	refresh := func(ctx context.Context) (string, time.Duration, error) {
		calls++
		return "tok", 3600 * time.Second, nil
	}

	for i := 0; i < 3; i++ {
		tok, err := cache.Get(context.Background(), refresh)
		if err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
		if tok != "tok" {
			t.Errorf("Get %d = %q, want tok", i, tok)
		}
	}
	if calls != 1 {
		t.Errorf("refresh called %d times, want 1", calls)
	}
}

func TestTokenCacheRefreshesNearExpiry(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	cache := NewTokenCache()
	cache.now = func() time.Time { return now }

	calls := 0
	refresh := func(ctx context.Context) (string, time.Duration, error) {
		calls++
		return "tok", 60 * time.Second, nil
	}

	if _, err := cache.Get(context.Background(), refresh); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// 60s TTL with the 30s early-renewal buffer: stale after 30s.
	now = now.Add(31 * time.Second)
	if _, err := cache.Get(context.Background(), refresh); err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if calls != 2 {
		t.Errorf("refresh called %d times, want 2", calls)
	}
}

func TestFoodRecordParsesStringScalars(t *testing.T) {
	f := fsFood{FoodID: "33691", FoodName: "Tomato soup", BrandName: "Campbell's"}
	f.Servings.Serving = []fsServing{
		{ServingID: "50321", ServingDescription: "1 cup", Calories: "90", Protein: "2.5", Sodium: "480", Fiber: ""},
	}

	rec, err := f.toRecord()
	if err != nil {
		t.Fatalf("toRecord: %v", err)
	}
	n := rec.Servings[0].Nutrition
	if n.Calories != 90 || n.Protein != 2.5 || n.Sodium != 480 {
		t.Errorf("nutrition = %+v", n)
	}
	if n.Fiber != 0 {
		t.Errorf("empty fiber field = %v, want 0", n.Fiber)
	}
}

func TestFoodRecordRejectsMalformedScalar(t *testing.T) {
	f := fsFood{FoodID: "33691", FoodName: "Tomato soup"}
	f.Servings.Serving = []fsServing{
		{ServingID: "50321", Calories: "ninety"},
	}

	if _, err := f.toRecord(); err == nil {
		t.Error("toRecord accepted a malformed scalar, want error")
	}
}

func TestTokenCachePropagatesRefreshError(t *testing.T) {
	cache := NewTokenCache()
	boom := errors.New("oauth down")

	_, err := cache.Get(context.Background(), func(ctx context.Context) (string, time.Duration, error) {
		return "", 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want refresh error", err)
	}
}
