package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sentinel/database"
	"sentinel/infrastructure/knowledge"
	"sentinel/infrastructure/llm"
	"sentinel/logging"
)

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	Database    *database.Config
	Logging     *logging.Config
	LLM         *llm.Config
	Knowledge   *knowledge.Config
	Toast       *ToastConfig
	Report      *ReportConfig
}

// ToastConfig holds notification display settings.
type ToastConfig struct {
	DefaultDuration time.Duration
}

// ReportConfig holds analysis report rendering settings.
type ReportConfig struct {
	// Sanitize passes rendered report HTML through an allow-list policy.
	// Off by default: reports are generated by our own model backend.
	Sanitize bool
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":5000"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		Database:    LoadDatabaseConfigFromEnv(),
		Logging:     LoadLoggingConfigFromEnv(),
		LLM:         LoadLLMConfigFromEnv(),
		Knowledge:   LoadKnowledgeConfigFromEnv(),
		Toast: &ToastConfig{
			DefaultDuration: getEnvDurationWithDefault("TOAST_DEFAULT_DURATION", 4*time.Second),
		},
		Report: &ReportConfig{
			Sanitize: getEnvBoolWithDefault("REPORT_SANITIZE", false),
		},
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", "./sentinel.db"),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", true),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

// LoadLLMConfigFromEnv loads the model backend configuration from environment variables.
func LoadLLMConfigFromEnv() *llm.Config {
	return &llm.Config{
		BaseURL:     getEnvWithDefault("LLM_BASE_URL", "http://localhost:1234/v1"),
		Model:       getEnvWithDefault("LLM_MODEL", "google/gemma-3-12b"),
		APIKey:      getEnvWithDefault("LLM_API_KEY", "lm-studio"),
		Temperature: getEnvFloatWithDefault("LLM_TEMPERATURE", 0),
		MaxTokens:   getEnvIntWithDefault("LLM_MAX_TOKENS", 500),
		Timeout:     getEnvDurationWithDefault("LLM_TIMEOUT", 2*time.Minute),
	}
}

// LoadKnowledgeConfigFromEnv loads knowledge base settings from environment variables.
func LoadKnowledgeConfigFromEnv() *knowledge.Config {
	return &knowledge.Config{
		Dir:  getEnvWithDefault("RAG_KB_DIR", "./knowledge_base"),
		TopK: getEnvIntWithDefault("RAG_TOP_K", 5),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
