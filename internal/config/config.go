package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Backend   BackendConfig
	Retrieval RetrievalConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
	PollLogPath string
	BaseURL     string // public URL the console composes deep links against
}

type BackendConfig struct {
	BaseURL      string
	Timeout      time.Duration
	PollBaseWait time.Duration
}

type RetrievalConfig struct {
	DefaultTopK int
	UseRerank   bool
	AllowWeb    bool
	WebMode     string
	DocOnly     bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/console.log"),
			PollLogPath: getEnv("POLL_LOG_PATH", "logs/poll.log"),
			BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8000"),
		},
		Backend: BackendConfig{
			BaseURL:      getEnv("RAG_BACKEND_URL", "http://localhost:8000"),
			Timeout:      time.Duration(getEnvAsInt("RAG_BACKEND_TIMEOUT_SECONDS", 120)) * time.Second,
			PollBaseWait: time.Duration(getEnvAsInt("POLL_BASE_WAIT_MS", 1500)) * time.Millisecond,
		},
		Retrieval: RetrievalConfig{
			DefaultTopK: getEnvAsInt("RETRIEVAL_DEFAULT_TOP_K", 5),
			UseRerank:   getEnvAsBool("RETRIEVAL_USE_RERANK", true),
			AllowWeb:    getEnvAsBool("RETRIEVAL_ALLOW_WEB", false),
			WebMode:     getEnv("RETRIEVAL_WEB_MODE", "auto"),
			DocOnly:     getEnvAsBool("RETRIEVAL_DOC_ONLY", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
