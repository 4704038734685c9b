package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	AppEnv      string
	BaseURL     string
	LogLevel    string
	DatabaseURL string // empty selects the in-memory catalog
	SeedPath    string // empty selects the embedded seed

	SessionSecret  string
	SessionIdleTTL time.Duration

	ChatProvider     string
	ChatModel        string
	ChatSystemPrompt string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	GeminiAPIKey     string

	PinataJWT         string
	PinataAPIURL      string
	IPFSGatewayURL    string
	UploadMaxAttempts int
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "local"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SeedPath:    getEnv("SEED_PATH", ""),

		SessionSecret:  getEnv("SESSION_SECRET", "secret"),
		SessionIdleTTL: getDuration("SESSION_IDLE_TTL", 30*time.Minute),

		ChatProvider:     getEnv("CHAT_PROVIDER", "openai"),
		ChatModel:        getEnv("CHAT_MODEL", ""),
		ChatSystemPrompt: getEnv("CHAT_SYSTEM_PROMPT", "You are a helpful assistant for a knowledge hub of publications, courses and creator products."),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),

		PinataJWT:         getEnv("PINATA_JWT", ""),
		PinataAPIURL:      getEnv("PINATA_API_URL", "https://api.pinata.cloud"),
		IPFSGatewayURL:    getEnv("IPFS_GATEWAY_URL", "https://gateway.pinata.cloud"),
		UploadMaxAttempts: getInt("UPLOAD_MAX_ATTEMPTS", 3),
	}
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
