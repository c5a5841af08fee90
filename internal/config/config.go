package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	"transport-report-service/internal/domain"

	"github.com/joho/godotenv"
)

// Cache backends selectable with CACHE_BACKEND.
const (
	CacheNone     = "none"
	CacheMemory   = "memory"
	CacheSqlite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

type Config struct {
	Port             string
	CacheBackend     string
	DBPath           string
	DatabaseURL      string
	RedisURL         string
	CacheTTL         time.Duration
	Capacity         int
	DurationFlag     int
	FetchConcurrency int
	SitesPath        string
	SheetsBaseURL    string
	NATSURL          string
	CORSOrigins      []string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := &Config{
		Port:          Get("PORT", "8080"),
		CacheBackend:  strings.ToLower(Get("CACHE_BACKEND", CacheSqlite)),
		DBPath:        Get("DB_PATH", "data/cache.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      Get("REDIS_URL", "redis://127.0.0.1:6379/0"),
		SitesPath:     os.Getenv("SITES_PATH"),
		SheetsBaseURL: Get("SHEETS_BASE_URL", "https://docs.google.com"),
		NATSURL:       os.Getenv("NATS_URL"),
	}

	var err error
	if cfg.Capacity, err = positiveInt("VEHICLE_CAPACITY", domain.DefaultCapacity); err != nil {
		return nil, err
	}
	if cfg.DurationFlag, err = positiveInt("DURATION_FLAG_MINUTES", domain.DefaultDurationThresholdMinutes); err != nil {
		return nil, err
	}
	if cfg.FetchConcurrency, err = positiveInt("FETCH_CONCURRENCY", 4); err != nil {
		return nil, err
	}

	// Cache TTL (seconds); 0 keeps entries until purged.
	if v := os.Getenv("CACHE_TTL_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec < 0 {
			return nil, fmt.Errorf("invalid CACHE_TTL_SEC: %q", v)
		}
		cfg.CacheTTL = time.Duration(sec) * time.Second
	} else {
		cfg.CacheTTL = 10 * time.Minute
	}

	switch cfg.CacheBackend {
	case CacheNone, CacheMemory, CacheSqlite, CacheRedis:
	case CachePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("DATABASE_URL is required when CACHE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND: %q", cfg.CacheBackend)
	}

	for _, o := range strings.Split(Get("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	return cfg, nil
}

// Get returns the environment value of key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func positiveInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q: %w", key, v, domain.ErrInvalidConfiguration)
	}
	return n, nil
}
