package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

var ErrMissingPostgresURL = errors.New("POSTGRES_URL is required when STORE=postgres")

type Config struct {
	Port           string
	AllowedOrigins []string

	Store       string
	PostgresURL string
	SQLitePath  string
	WordsFile   string
	RepoTimeout time.Duration

	LogLevel  string
	LogPretty bool

	MessagesPerSecond float64
	MessageBurst      int
	PingInterval      time.Duration
}

// Load reads the environment, after filling it from a .env file when one
// exists. Variables already set win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (Config, error) {
	var errs []error

	cfg := Config{
		Port:           getEnv("PORT", "5000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		Store:          strings.ToLower(getEnv("STORE", StoreMemory)),
		PostgresURL:    getEnv("POSTGRES_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/rooms.db"),
		WordsFile:      getEnv("WORDS_FILE", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	cfg.LogPretty = getBool("LOG_PRETTY", false, &errs)
	cfg.RepoTimeout = getDuration("REPO_TIMEOUT", 5*time.Second, &errs)
	cfg.MessagesPerSecond = getFloat("WS_MESSAGES_PER_SECOND", 0, &errs)
	cfg.MessageBurst = getInt("WS_MESSAGE_BURST", 64, &errs)
	cfg.PingInterval = getDuration("WS_PING_INTERVAL", 30*time.Second, &errs)

	switch cfg.Store {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.PostgresURL == "" {
			errs = append(errs, ErrMissingPostgresURL)
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE %q", cfg.Store))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getBool(key string, fallback bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return v
}

func getInt(key string, fallback int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("invalid %s: %q", key, raw))
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64, errs *[]error) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("invalid %s: %q", key, raw))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		*errs = append(*errs, fmt.Errorf("invalid %s: %q", key, raw))
		return fallback
	}
	return v
}
