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
)

const dateLayout = "2006-01-02"

// startMargin widens the start boundary of the bucket-lookup range backward
// to tolerate ledgers that were persisted under a nearby offset convention.
// It applies to the start only, never the end, and never shifts the instant
// stored on newly created buckets.
const startMargin = 4 * time.Hour

// LedgerService buckets logged food events into per-day ledgers in a fixed
// reference timezone and reads them back grouped by meal.
type LedgerService struct {
	ledgers store.LedgerStore
	events  store.EventStore
	loc     *time.Location
	hub     *RealtimeHub
	log     *zap.Logger
}

// NewLedgerService wires the bucketer. hub may be nil when no realtime
// delivery is wanted (tests, CLI tools).
func NewLedgerService(ledgers store.LedgerStore, events store.EventStore, loc *time.Location, hub *RealtimeHub, log *zap.Logger) *LedgerService {
	return &LedgerService{ledgers: ledgers, events: events, loc: loc, hub: hub, log: log}
}

// DayWindow interprets a YYYY-MM-DD string as local midnight in the reference
// timezone and returns that instant plus the inclusive lookup window for the
// day, already widened by startMargin at the front.
//
// The end boundary comes from the local calendar (next local midnight minus a
// nanosecond), not from adding 24 hours: DST transition days are 23 or 25
// hours long, and a fixed-length window would leak into the neighboring day's
// bucket instant.
func (s *LedgerService) DayWindow(date string) (time.Time, store.Window, error) {
	t, err := time.ParseInLocation(dateLayout, date, s.loc)
	if err != nil {
		return time.Time{}, store.Window{}, fmt.Errorf("%w: bad date %q, want YYYY-MM-DD", ErrInvalidArgument, date)
	}
	dayStart := t.UTC()
	w := store.Window{
		Start: dayStart.Add(-startMargin),
		End:   t.AddDate(0, 0, 1).UTC().Add(-time.Nanosecond),
	}
	return dayStart, w, nil
}

// LogFood persists the event and appends its reference to the (user, day)
// ledger, creating the ledger on the first food of the day. The store's
// append is atomic, so concurrent logs for the same day all land.
func (s *LedgerService) LogFood(ctx context.Context, event models.FoodEvent, date string) (*models.DailyLedger, error) {
	if event.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidArgument)
	}
	if !event.MealType.Valid() {
		return nil, fmt.Errorf("%w: bad meal type %q", ErrInvalidArgument, event.MealType)
	}
	if event.ServingMultiplier() <= 0 {
		return nil, fmt.Errorf("%w: serving multiplier must be positive", ErrInvalidArgument)
	}

	dayStart, w, err := s.DayWindow(date)
	if err != nil {
		return nil, err
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Source == "" {
		event.Source = models.SourceAPI
	}
	event.CreatedAt = time.Now().UTC()

	if err := s.events.Insert(ctx, &event); err != nil {
		return nil, err
	}

	ledger, err := s.ledgers.Append(ctx, event.UserID, dayStart, w, event.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("food logged",
		zap.String("user_id", event.UserID),
		zap.String("event_id", event.ID),
		zap.String("date", date),
	)
	s.notifyDayUpdated(event.UserID, date)
	return ledger, nil
}

// DeleteFood removes the event reference from the day's ledger and deletes
// the event document. Both halves are idempotent: deleting an already-removed
// event succeeds.
func (s *LedgerService) DeleteFood(ctx context.Context, userID, eventID, date string) error {
	_, w, err := s.DayWindow(date)
	if err != nil {
		return err
	}

	if err := s.ledgers.Remove(ctx, userID, w, eventID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, userID, eventID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	s.notifyDayUpdated(userID, date)
	return nil
}

// MealGroup is one meal slot of a day view, in fixed display order.
type MealGroup struct {
	MealType models.MealType    `json:"meal_type"`
	Events   []models.FoodEvent `json:"events"`
}

// DayLog is the grouped view of one calendar day. Exists is false when the
// user has no ledger for that day — a normal outcome, not an error.
type DayLog struct {
	Date   string           `json:"date"`
	Exists bool             `json:"exists"`
	Meals  []MealGroup      `json:"meals"`
	Totals models.Nutrition `json:"totals"`
}

// Day returns the ledger's events grouped by meal type in the fixed order
// breakfast, lunch, dinner, snack, with insertion order kept inside each
// group.
func (s *LedgerService) Day(ctx context.Context, userID, date string) (*DayLog, error) {
	_, w, err := s.DayWindow(date)
	if err != nil {
		return nil, err
	}

	out := &DayLog{Date: date}
	for _, m := range models.MealOrder {
		out.Meals = append(out.Meals, MealGroup{MealType: m})
	}

	ledger, err := s.ledgers.FindByUserDay(ctx, userID, w)
	if errors.Is(err, store.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.Exists = true

	events, err := s.events.FindByIDs(ctx, userID, ledger.Foods)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.FoodEvent, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	slot := make(map[models.MealType]int, len(models.MealOrder))
	for i, m := range models.MealOrder {
		slot[m] = i
	}

	// Walk the ledger's reference list so insertion order survives grouping.
	for _, id := range ledger.Foods {
		e, ok := byID[id]
		if !ok {
			s.log.Warn("ledger references missing event", zap.String("event_id", id))
			continue
		}
		i := slot[e.MealType]
		out.Meals[i].Events = append(out.Meals[i].Events, e)
		out.Totals = out.Totals.Add(e.Nutrition)
	}
	return out, nil
}

func (s *LedgerService) notifyDayUpdated(userID, date string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastDayUpdated(userID, date)
}
