package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/farellandr/mealpass/internal/store"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

const lockTTL = 30 * time.Second

type Config struct {
	Port          string
	StoreDriver   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDB       string
	JWTSecret     string
	QRSecret      string
	RefundPolicy  string
	LogLevel      string
	LogFormat     string
	CORSOrigins   []string
	RateLimitRPS  float64
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", DriverPostgres)),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "mealpass"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		QRSecret:      os.Getenv("QR_SECRET"),
		RefundPolicy:  getenv("REFUND_POLICY", "none"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "json"),
		CORSOrigins:   strings.Split(getenv("CORS_ORIGINS", "*"), ","),
		RateLimitRPS:  5,
	}

	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("RATE_LIMIT_RPS must be a positive number, got %q", raw)
		}
		cfg.RateLimitRPS = rps
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not configured")
	}
	if cfg.QRSecret == "" {
		cfg.QRSecret = cfg.JWTSecret
	}
	switch cfg.StoreDriver {
	case DriverPostgres, DriverRedis, DriverMongo, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func InitRedis(ctx context.Context, cfg *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func InitMongo(ctx context.Context, cfg *Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// InitStore opens the configured key-value backend. Redis deployments also
// share their per-user locks through Redis; every other backend locks in
// process, which assumes a single API instance.
func InitStore(ctx context.Context, cfg *Config) (store.Store, store.Locker, error) {
	switch cfg.StoreDriver {
	case DriverPostgres:
		db, err := InitDatabase(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		s, err := store.NewGormStore(db)
		if err != nil {
			return nil, nil, err
		}
		return s, store.NewLocalLocker(), nil
	case DriverRedis:
		client, err := InitRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(client, "mealpass:"), store.NewRedisLocker(client, lockTTL), nil
	case DriverMongo:
		client, err := InitMongo(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store.NewMongoStore(client, cfg.MongoDB), store.NewLocalLocker(), nil
	default:
		return store.NewMemoryStore(), store.NewLocalLocker(), nil
	}
}
