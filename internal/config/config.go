package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir string
	DBPath  string

	BaseURL        string
	ServePort      int
	CacheTTLSec    int
	FetchTimeoutMs int
	FetchRetries   int
	FetchBackoffMs int

	ProgressRows  int
	ProgressFiles int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DataDir: getEnv("WDX_DATA_DIR", filepath.Join(cwd, "data")),
		DBPath:  getEnv("WDX_DB_PATH", filepath.Join(cwd, "data", "app.db")),

		BaseURL:        getEnv("WDX_BASE_URL", "http://localhost:8080/data"),
		ServePort:      getEnvInt("WDX_SERVE_PORT", 8080),
		CacheTTLSec:    getEnvInt("WDX_CACHE_TTL_SEC", 300),
		FetchTimeoutMs: getEnvInt("WDX_FETCH_TIMEOUT_MS", 10000),
		FetchRetries:   getEnvInt("WDX_FETCH_RETRIES", 3),
		FetchBackoffMs: getEnvInt("WDX_FETCH_BACKOFF_MS", 250),

		ProgressRows:  getEnvInt("WDX_PROGRESS_ROWS", 1000),
		ProgressFiles: getEnvInt("WDX_PROGRESS_FILES", 500),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
