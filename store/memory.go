package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bordanattila/NutriPal-sub000/models"
)

// In-memory implementations with the same semantics as the Mongo stores:
// read-your-writes, uniqueness enforced at insert, appends serialized under a
// lock. Used as the test double for the services and for local development
// without a database.

type MemoryLedgerStore struct {
	mu      sync.Mutex
	ledgers []*models.DailyLedger
}

func NewMemoryLedgerStore() *MemoryLedgerStore {
	return &MemoryLedgerStore{}
}

func copyLedger(l *models.DailyLedger) *models.DailyLedger {
	out := *l
	out.Foods = append([]string(nil), l.Foods...)
	return &out
}

func (s *MemoryLedgerStore) find(userID string, w Window) *models.DailyLedger {
	for _, l := range s.ledgers {
		if l.UserID == userID && w.Contains(l.DateCreated) {
			return l
		}
	}
	return nil
}

func (s *MemoryLedgerStore) Append(ctx context.Context, userID string, dayStart time.Time, w Window, eventID string) (*models.DailyLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.find(userID, w); l != nil {
		l.Foods = append(l.Foods, eventID)
		return copyLedger(l), nil
	}

	l := &models.DailyLedger{
		ID:          uuid.NewString(),
		UserID:      userID,
		DateCreated: dayStart,
		Foods:       []string{eventID},
	}
	s.ledgers = append(s.ledgers, l)
	return copyLedger(l), nil
}

func (s *MemoryLedgerStore) Remove(ctx context.Context, userID string, w Window, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.find(userID, w)
	if l == nil {
		return nil
	}
	for i, id := range l.Foods {
		if id == eventID {
			l.Foods = append(l.Foods[:i], l.Foods[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryLedgerStore) FindByUserDay(ctx context.Context, userID string, w Window) (*models.DailyLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.find(userID, w); l != nil {
		return copyLedger(l), nil
	}
	return nil, ErrNotFound
}

type MemoryEventStore struct {
	mu     sync.Mutex
	events map[string]models.FoodEvent
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{events: make(map[string]models.FoodEvent)}
}

func (s *MemoryEventStore) Insert(ctx context.Context, event *models.FoodEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.ID]; ok {
		return ErrDuplicateKey
	}
	s.events[event.ID] = *event
	return nil
}

func (s *MemoryEventStore) FindByID(ctx context.Context, userID, id string) (*models.FoodEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok || event.UserID != userID {
		return nil, ErrNotFound
	}
	return &event, nil
}

func (s *MemoryEventStore) FindByIDs(ctx context.Context, userID string, ids []string) ([]models.FoodEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.FoodEvent
	for _, id := range ids {
		if event, ok := s.events[id]; ok && event.UserID == userID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (s *MemoryEventStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok || event.UserID != userID {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

type MemoryFoodStore struct {
	mu    sync.Mutex
	foods map[string]models.Food // keyed by document id
}

func NewMemoryFoodStore() *MemoryFoodStore {
	return &MemoryFoodStore{foods: make(map[string]models.Food)}
}

func (s *MemoryFoodStore) Insert(ctx context.Context, food *models.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.foods {
		if existing.FoodID == food.FoodID {
			return ErrDuplicateKey
		}
		for _, sv := range existing.Servings {
			for _, nsv := range food.Servings {
				if sv.ServingID == nsv.ServingID {
					return ErrDuplicateKey
				}
			}
		}
	}
	s.foods[food.ID] = *food
	return nil
}

func (s *MemoryFoodStore) FindByShortID(ctx context.Context, userID, foodID string) (*models.Food, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, food := range s.foods {
		if food.UserID == userID && food.FoodID == foodID {
			out := food
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryFoodStore) FoodIDExists(ctx context.Context, foodID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, food := range s.foods {
		if food.FoodID == foodID {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryFoodStore) ServingIDExists(ctx context.Context, servingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, food := range s.foods {
		for _, sv := range food.Servings {
			if sv.ServingID == servingID {
				return true, nil
			}
		}
	}
	return false, nil
}

type MemoryRecipeStore struct {
	mu      sync.Mutex
	recipes map[string]models.Recipe
}

func NewMemoryRecipeStore() *MemoryRecipeStore {
	return &MemoryRecipeStore{recipes: make(map[string]models.Recipe)}
}

func (s *MemoryRecipeStore) Insert(ctx context.Context, recipe *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; ok {
		return ErrDuplicateKey
	}
	s.recipes[recipe.ID] = *recipe
	return nil
}

func (s *MemoryRecipeStore) FindByID(ctx context.Context, userID, id string) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.recipes[id]
	if !ok || recipe.UserID != userID {
		return nil, ErrNotFound
	}
	return &recipe, nil
}

func (s *MemoryRecipeStore) ListByUser(ctx context.Context, userID string) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Recipe
	for _, recipe := range s.recipes {
		if recipe.UserID == userID {
			out = append(out, recipe)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type MemoryGoalStore struct {
	mu    sync.Mutex
	goals map[string]models.DailyGoal // keyed by user id
}

func NewMemoryGoalStore() *MemoryGoalStore {
	return &MemoryGoalStore{goals: make(map[string]models.DailyGoal)}
}

func (s *MemoryGoalStore) Upsert(ctx context.Context, goal *models.DailyGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *goal
	if existing, ok := s.goals[goal.UserID]; ok {
		stored.ID = existing.ID
	} else if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	s.goals[goal.UserID] = stored
	return nil
}

func (s *MemoryGoalStore) FindByUser(ctx context.Context, userID string) (*models.DailyGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, ok := s.goals[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &goal, nil
}

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Insert(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrDuplicateKey
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			out := user
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}
