package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	StorePath   string
	HTTPTimeout time.Duration
	LogLevel    string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		APIBaseURL:  EnvDefault("FARMHUB_API_URL", "https://farmhub-backend-26rg.onrender.com/api"),
		StorePath:   EnvDefault("FARMHUB_STORE_PATH", defaultStorePath()),
		HTTPTimeout: time.Duration(EnvIntDefault("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "farmhub.db"
	}
	return filepath.Join(home, ".farmhub", "farmhub.db")
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
