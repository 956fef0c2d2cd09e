package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	AuthModeMock    = "mock"
	AuthModeAccount = "account"
)

type Config struct {
	Port      string
	JWTSecret string

	// StoreBackend selects where profiles and meetups live: "memory" runs
	// fully in-process with seed data, "redis" uses Redis for the profile
	// slot and geo index plus MongoDB for the meetup/people collections.
	StoreBackend string
	RedisAddr    string
	RedisDB      int
	MongoURI     string

	// AuthMode "mock" resolves any credentials to the demo profile;
	// "account" requires a bcrypt-checked seeded account.
	AuthMode string

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Load reads the configuration from the environment. A missing .env file is
// not an error; missing variables are only fatal for the selected backend.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment configuration")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		StoreBackend:   getEnv("STORE_BACKEND", BackendMemory),
		AuthMode:       getEnv("AUTH_MODE", AuthModeMock),
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendRedis:
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR environment variable is not set")
		}
		if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
			db, err := strconv.Atoi(dbStr)
			if err != nil {
				return nil, fmt.Errorf("invalid REDIS_DB value: %v", err)
			}
			cfg.RedisDB = db
		}
		cfg.MongoURI = os.Getenv("MONGODB_URI")
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	switch cfg.AuthMode {
	case AuthModeMock, AuthModeAccount:
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if rpsStr := os.Getenv("RATE_LIMIT_RPS"); rpsStr != "" {
		rps, err := strconv.ParseFloat(rpsStr, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS value %q", rpsStr)
		}
		cfg.RateLimitRPS = rps
		cfg.RateLimitBurst = int(rps * 2)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
