package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"taskpilot/store"
)

var AppConfig Config

type Config struct {
	Environment        string `json:"environment"`
	ServerPort         string `json:"server_port"`
	MongoURL           string `json:"-"`
	MongoDBName        string `json:"mongo_db_name"`
	JWTSecretKey       string `json:"-"`
	JWTExpirationHours int    `json:"jwt_expiration_hours"`
	CORSAllowOrigins   string `json:"cors_allow_origins"`

	// Notification cleanup worker settings.
	CleanupIntervalHours      int `json:"cleanup_interval_hours"`
	NotificationRetentionDays int `json:"notification_retention_days"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

func LoadConfig() error {
	AppConfig = Config{
		Environment:        getEnv("ENVIRONMENT", "development"),
		ServerPort:         getEnv("SERVER_PORT", "8001"),
		MongoURL:           getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "project_manager"),
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", ""),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		CORSAllowOrigins:   getEnv("CORS_ALLOW_ORIGINS", "*"),

		CleanupIntervalHours:      getEnvAsInt("CLEANUP_INTERVAL_HOURS", 24),
		NotificationRetentionDays: getEnvAsInt("NOTIFICATION_RETENTION_DAYS", 30),
	}

	if AppConfig.JWTSecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	logConfig()
	return nil
}

// ConnectDB opens the Mongo client, verifies the connection and returns
// the store bound to the configured database.
func ConnectDB() (store.Store, error) {
	log.Println("Attempting to connect to database...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(AppConfig.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	db, err := store.NewMongo(client.Database(AppConfig.MongoDBName))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	log.Println("Successfully connected to the database")
	return db, nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return fallback
	}
	return value
}

func logConfig() {
	log.Println("Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Database: %s", AppConfig.MongoDBName)
	log.Printf("Token expiry: %dh", AppConfig.JWTExpirationHours)
}
