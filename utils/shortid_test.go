package utils

import (
	"errors"
	"testing"
)

func TestAllocateShortIDShape(t *testing.T) {
	never := func(string) (bool, error) { return false, nil }

	for _, prefix := range []string{FoodIDPrefix, ServingIDPrefix} {
		id, err := AllocateShortID(prefix, never)
		if err != nil {
			t.Fatalf("AllocateShortID(%q) error: %v", prefix, err)
		}
		if !ValidShortID(id) {
			t.Errorf("AllocateShortID(%q) = %q, want ^[FS]-\\d{6}$", prefix, id)
		}
		if id[0] != prefix[0] {
			t.Errorf("AllocateShortID(%q) = %q, wrong prefix", prefix, id)
		}
	}
}

func TestAllocateShortIDDistinctUnderLoad(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	exists := func(id string) (bool, error) {
		_, ok := seen[id]
		return ok, nil
	}

	for i := 0; i < 10000; i++ {
		id, err := AllocateShortID(FoodIDPrefix, exists)
		if err != nil {
			t.Fatalf("allocation %d failed: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("allocation %d returned duplicate id %q", i, id)
		}
		if !ValidShortID(id) {
			t.Fatalf("allocation %d returned malformed id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != 10000 {
		t.Errorf("got %d distinct ids, want 10000", len(seen))
	}
}

func TestAllocateShortIDRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls <= 3, nil // first three candidates collide
	}

	id, err := AllocateShortID(ServingIDPrefix, exists)
	if err != nil {
		t.Fatalf("AllocateShortID error: %v", err)
	}
	if calls != 4 {
		t.Errorf("exists called %d times, want 4", calls)
	}
	if !ValidShortID(id) {
		t.Errorf("got malformed id %q", id)
	}
}

func TestAllocateShortIDExhausted(t *testing.T) {
	always := func(string) (bool, error) { return true, nil }

	_, err := AllocateShortID(FoodIDPrefix, always)
	if !errors.Is(err, ErrIDSpaceExhausted) {
		t.Errorf("err = %v, want ErrIDSpaceExhausted", err)
	}
}

func TestAllocateShortIDPropagatesCheckError(t *testing.T) {
	boom := errors.New("store down")
	_, err := AllocateShortID(FoodIDPrefix, func(string) (bool, error) { return false, boom })
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}
