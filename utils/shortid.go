package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
)

// Short display identifiers for food and serving records: a type prefix, a
// hyphen, and six decimal digits (F-204871, S-009314). IDs are unique within
// their own collection and never recycled after a record is deleted.

const (
	FoodIDPrefix    = "F"
	ServingIDPrefix = "S"

	shortIDAttempts = 10
)

// ErrIDSpaceExhausted is returned when every allocation attempt collided.
// With a 10^6 candidate space this effectively only happens when the exists
// check is broken, but the loop must stay bounded.
var ErrIDSpaceExhausted = errors.New("short id space exhausted")

var shortIDPattern = regexp.MustCompile(`^[FS]-\d{6}$`)

// ValidShortID reports whether id has the F-###### / S-###### shape.
func ValidShortID(id string) bool {
	return shortIDPattern.MatchString(id)
}

// AllocateShortID generates a candidate id and probes it against exists,
// retrying on collision up to a fixed cap. The pre-check only keeps collision
// probability low; the store's uniqueness constraint at insert time is the
// real arbiter, and callers must re-allocate when that constraint fires.
func AllocateShortID(prefix string, exists func(string) (bool, error)) (string, error) {
	for i := 0; i < shortIDAttempts; i++ {
		candidate := fmt.Sprintf("%s-%06d", prefix, rand.Intn(1000000))
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrIDSpaceExhausted
}
