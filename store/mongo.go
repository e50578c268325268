package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bordanattila/NutriPal-sub000/models"
)

// MongoDB-backed implementations. The ledger append relies on a single
// FindOneAndUpdate upsert with $push so concurrent appends for the same
// (user, day) are serialized by the server, with the unique
// (user_id, date_created) index as the final arbiter.

const (
	ledgersCollection = "daily_ledgers"
	eventsCollection  = "food_events"
	foodsCollection   = "foods"
	recipesCollection = "recipes"
	usersCollection   = "users"
	goalsCollection   = "daily_goals"
)

// EnsureIndexes creates the uniqueness constraints the stores depend on.
// Called once at startup.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(ledgersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date_created", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(foodsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "food_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "servings.serving_id", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(eventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(goalsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type MongoLedgerStore struct {
	col *mongo.Collection
}

func NewMongoLedgerStore(db *mongo.Database) *MongoLedgerStore {
	return &MongoLedgerStore{col: db.Collection(ledgersCollection)}
}

func windowFilter(userID string, w Window) bson.M {
	return bson.M{
		"user_id":      userID,
		"date_created": bson.M{"$gte": w.Start, "$lte": w.End},
	}
}

func (s *MongoLedgerStore) Append(ctx context.Context, userID string, dayStart time.Time, w Window, eventID string) (*models.DailyLedger, error) {
	update := bson.M{
		"$push":        bson.M{"foods": eventID},
		"$setOnInsert": bson.M{"_id": uuid.NewString(), "date_created": dayStart},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	// Two racing upserts can both miss the window and try to insert; the
	// unique (user_id, date_created) index rejects the loser, whose retry
	// then lands on the winner's document.
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var ledger models.DailyLedger
		err := s.col.FindOneAndUpdate(ctx, windowFilter(userID, w), update, opts).Decode(&ledger)
		if err == nil {
			return &ledger, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, errors.Join(ErrDuplicateKey, lastErr)
}

func (s *MongoLedgerStore) Remove(ctx context.Context, userID string, w Window, eventID string) error {
	// Pulling an absent reference matches zero array elements; that is a
	// successful no-op, not an error.
	_, err := s.col.UpdateOne(ctx, windowFilter(userID, w), bson.M{"$pull": bson.M{"foods": eventID}})
	return err
}

func (s *MongoLedgerStore) FindByUserDay(ctx context.Context, userID string, w Window) (*models.DailyLedger, error) {
	var ledger models.DailyLedger
	err := s.col.FindOne(ctx, windowFilter(userID, w)).Decode(&ledger)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

type MongoEventStore struct {
	col *mongo.Collection
}

func NewMongoEventStore(db *mongo.Database) *MongoEventStore {
	return &MongoEventStore{col: db.Collection(eventsCollection)}
}

func (s *MongoEventStore) Insert(ctx context.Context, event *models.FoodEvent) error {
	_, err := s.col.InsertOne(ctx, event)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (s *MongoEventStore) FindByID(ctx context.Context, userID, id string) (*models.FoodEvent, error) {
	var event models.FoodEvent
	err := s.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *MongoEventStore) FindByIDs(ctx context.Context, userID string, ids []string) ([]models.FoodEvent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID, "_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []models.FoodEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *MongoEventStore) Delete(ctx context.Context, userID, id string) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type MongoFoodStore struct {
	col *mongo.Collection
}

func NewMongoFoodStore(db *mongo.Database) *MongoFoodStore {
	return &MongoFoodStore{col: db.Collection(foodsCollection)}
}

func (s *MongoFoodStore) Insert(ctx context.Context, food *models.Food) error {
	_, err := s.col.InsertOne(ctx, food)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (s *MongoFoodStore) FindByShortID(ctx context.Context, userID, foodID string) (*models.Food, error) {
	var food models.Food
	err := s.col.FindOne(ctx, bson.M{"food_id": foodID, "user_id": userID}).Decode(&food)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &food, nil
}

func (s *MongoFoodStore) FoodIDExists(ctx context.Context, foodID string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"food_id": foodID}, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *MongoFoodStore) ServingIDExists(ctx context.Context, servingID string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"servings.serving_id": servingID}, options.Count().SetLimit(1))
	return n > 0, err
}

type MongoRecipeStore struct {
	col *mongo.Collection
}

func NewMongoRecipeStore(db *mongo.Database) *MongoRecipeStore {
	return &MongoRecipeStore{col: db.Collection(recipesCollection)}
}

func (s *MongoRecipeStore) Insert(ctx context.Context, recipe *models.Recipe) error {
	_, err := s.col.InsertOne(ctx, recipe)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (s *MongoRecipeStore) FindByID(ctx context.Context, userID, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *MongoRecipeStore) ListByUser(ctx context.Context, userID string) ([]models.Recipe, error) {
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

type MongoGoalStore struct {
	col *mongo.Collection
}

func NewMongoGoalStore(db *mongo.Database) *MongoGoalStore {
	return &MongoGoalStore{col: db.Collection(goalsCollection)}
}

func (s *MongoGoalStore) Upsert(ctx context.Context, goal *models.DailyGoal) error {
	update := bson.M{
		"$set":         bson.M{"targets": goal.Targets, "updated_at": goal.UpdatedAt},
		"$setOnInsert": bson.M{"_id": uuid.NewString()},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"user_id": goal.UserID}, update, options.Update().SetUpsert(true))
	return err
}

func (s *MongoGoalStore) FindByUser(ctx context.Context, userID string) (*models.DailyGoal, error) {
	var goal models.DailyGoal
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&goal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(usersCollection)}
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) error {
	_, err := s.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
