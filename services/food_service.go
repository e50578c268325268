package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bordanattila/NutriPal-sub000/models"
	"github.com/bordanattila/NutriPal-sub000/store"
	"github.com/bordanattila/NutriPal-sub000/utils"
)

// createAttempts bounds how often a food insert is retried when the store's
// uniqueness constraint fires despite a clean pre-check.
const createAttempts = 10

// ServingInput is one declared serving on a new custom food, before a short
// id has been allocated for it.
type ServingInput struct {
	Description string
	Nutrition   models.Nutrition
}

// FoodService creates custom food records with collision-free short ids and
// fronts the external food database for barcode and text lookups.
type FoodService struct {
	foods store.FoodStore
	db    FoodDatabase
	log   *zap.Logger
}

func NewFoodService(foods store.FoodStore, db FoodDatabase, log *zap.Logger) *FoodService {
	return &FoodService{foods: foods, db: db, log: log}
}

// CreateFood allocates F-/S- display ids for a new custom food and inserts
// it. The pre-check via the store keeps collisions unlikely; the unique index
// at insert time is the actual guarantee, and a duplicate-key result causes a
// full re-allocation, bounded like the allocator itself.
func (s *FoodService) CreateFood(ctx context.Context, userID, name, brand, barcode string, servings []ServingInput) (*models.Food, error) {
	if userID == "" || name == "" {
		return nil, fmt.Errorf("%w: user id and name are required", ErrInvalidArgument)
	}
	if len(servings) == 0 {
		return nil, fmt.Errorf("%w: a food needs at least one serving", ErrInvalidArgument)
	}
	if barcode != "" {
		barcode = utils.PadToEAN13(utils.NormalizeBarcode(barcode))
		if !utils.ValidateEAN13(barcode) {
			return nil, fmt.Errorf("%w: barcode failed checksum", ErrInvalidArgument)
		}
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		food, err := s.buildFood(ctx, userID, name, brand, barcode, servings)
		if err != nil {
			return nil, err
		}

		err = s.foods.Insert(ctx, food)
		if errors.Is(err, store.ErrDuplicateKey) {
			// Constraint fired despite the pre-check: another caller won the
			// race for one of our ids. Re-allocate everything and try again.
			s.log.Warn("short id collision on insert, re-allocating",
				zap.String("food_id", food.FoodID),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		s.log.Info("food created",
			zap.String("user_id", userID),
			zap.String("food_id", food.FoodID),
		)
		return food, nil
	}
	return nil, utils.ErrIDSpaceExhausted
}

func (s *FoodService) buildFood(ctx context.Context, userID, name, brand, barcode string, servings []ServingInput) (*models.Food, error) {
	foodID, err := utils.AllocateShortID(utils.FoodIDPrefix, func(id string) (bool, error) {
		return s.foods.FoodIDExists(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	// Serving ids allocated for this document count as taken too, or two
	// servings of the same food could draw the same id.
	local := make(map[string]struct{}, len(servings))
	servingExists := func(id string) (bool, error) {
		if _, ok := local[id]; ok {
			return true, nil
		}
		return s.foods.ServingIDExists(ctx, id)
	}

	food := &models.Food{
		ID:        uuid.NewString(),
		UserID:    userID,
		FoodID:    foodID,
		Name:      name,
		Brand:     brand,
		Barcode:   barcode,
		CreatedAt: time.Now().UTC(),
	}
	for _, in := range servings {
		servingID, err := utils.AllocateShortID(utils.ServingIDPrefix, servingExists)
		if err != nil {
			return nil, err
		}
		local[servingID] = struct{}{}
		food.Servings = append(food.Servings, models.Serving{
			ServingID:   servingID,
			Description: in.Description,
			Nutrition:   in.Nutrition,
		})
	}
	return food, nil
}

func (s *FoodService) GetFood(ctx context.Context, userID, foodID string) (*models.Food, error) {
	return s.foods.FindByShortID(ctx, userID, foodID)
}

// LookupBarcode normalizes a scanned code (UPC-E expansion, EAN-13 padding),
// validates its checksum, and passes it through to the food database.
func (s *FoodService) LookupBarcode(ctx context.Context, raw string) (*FoodRecord, error) {
	code := utils.PadToEAN13(utils.NormalizeBarcode(raw))
	if !utils.ValidateEAN13(code) {
		return nil, fmt.Errorf("%w: barcode %q failed checksum", ErrInvalidArgument, raw)
	}
	return s.db.LookupBarcode(ctx, code)
}

func (s *FoodService) Search(ctx context.Context, query string) ([]FoodRecord, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", ErrInvalidArgument)
	}
	return s.db.Search(ctx, query)
}
