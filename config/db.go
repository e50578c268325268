package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bordanattila/NutriPal-sub000/store"
)

// ConnectMongo opens the database and creates the uniqueness indexes the
// stores rely on. Fatal on failure; the server is useless without them.
func ConnectMongo(cfg *Config, log *zap.Logger) *mongo.Database {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("MongoDB unreachable", zap.Error(err))
	}

	db := client.Database(cfg.MongoDBName)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("failed to ensure indexes", zap.Error(err))
	}

	log.Info("connected to MongoDB", zap.String("database", cfg.MongoDBName))
	return db
}
