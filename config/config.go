package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// defaultReferenceTZ is the fixed timezone convention used to decide which
// calendar day a food event belongs to.
const defaultReferenceTZ = "America/New_York"

type Config struct {
	Port        string
	MongoURI    string
	MongoDBName string
	ReferenceTZ *time.Location
}

func Load(log *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system env")
	}

	tzName := os.Getenv("REFERENCE_TZ")
	if tzName == "" {
		tzName = defaultReferenceTZ
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Fatal("invalid REFERENCE_TZ", zap.String("tz", tzName), zap.Error(err))
	}

	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:        port,
		MongoURI:    mustEnv("MONGO_URI", log),
		MongoDBName: mustEnv("MONGO_DB", log),
		ReferenceTZ: loc,
	}
}

func mustEnv(key string, log *zap.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		log.Fatal("missing required environment variable", zap.String("key", key))
	}
	return val
}
