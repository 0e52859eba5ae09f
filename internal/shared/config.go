package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

type Config struct {
	AppEnv      string `validate:"required"`
	LogLevel    string `validate:"oneof=trace debug info warn error"`
	HTTPAddr    string `validate:"required"`
	MetricsAddr string
	HTTPTimeout time.Duration `validate:"gt=0"`

	Storage  string `validate:"oneof=mysql memory"`
	MySQLDSN string `validate:"required_if=Storage mysql"`

	RedisAddr string
	RedisDB   int `validate:"gte=0"`
	RedisPass string
	CacheTTL  time.Duration `validate:"gt=0"`

	FeedBase string `validate:"omitempty,url"`
	FeedKey  string
	FeedRPS  int `validate:"gt=0"`
	Workers  int `validate:"gt=0,lte=64"`
}

// Load reads configuration from the environment, after merging an optional .env
// file (or the one named by ENV_FILE). Variables already set win over the file.
func Load() (Config, error) {
	file := env("ENV_FILE", ".env")
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", file, err)
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    strings.ToLower(env("LOG_LEVEL", "info")),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		HTTPTimeout: time.Duration(atoi("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		Storage:     strings.ToLower(env("STORAGE", StorageMySQL)),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/nomad?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		FeedBase:    env("FEED_BASE_URL", ""),
		FeedKey:     env("FEED_API_KEY", ""),
		FeedRPS:     atoi("FEED_RPS", 5),
		Workers:     atoi("IMPORT_WORKERS", 8),
	}
	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if c.RedisAddr == "" {
		log.Warn().Msg("REDIS_ADDR is empty, read cache disabled")
	}
	return c, nil
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not a number, using default")
	}
	return def
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
