package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
// Quota defaults, cooldown windows and page limits are injected into the
// orchestrator from here instead of living as package state.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	GeoIPDBPath string

	LLMProvider     string
	DeepSeekAPIKey  string
	DeepSeekModel   string
	DeepSeekBaseURL string
	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	GenerateTimeout time.Duration

	DefaultPlanQuota int
	DefaultChatQuota int
	PlanCooldown     time.Duration
	ChatCooldown     time.Duration

	PageMaxBytes  int
	PageMinRunes  int
	RestDayWords  []string
	DefaultLocale string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		GeoIPDBPath: os.Getenv("GEOIP_DB_PATH"),

		LLMProvider:     getEnv("LLM_PROVIDER", "deepseek"),
		DeepSeekAPIKey:  os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekModel:   getEnv("DEEPSEEK_MODEL", "deepseek-chat"),
		DeepSeekBaseURL: getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GenerateTimeout: time.Second * time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 45)),

		DefaultPlanQuota: getEnvInt("DEFAULT_PLAN_QUOTA", 10),
		DefaultChatQuota: getEnvInt("DEFAULT_CHAT_QUOTA", 30),
		PlanCooldown:     time.Second * time.Duration(getEnvInt("PLAN_COOLDOWN_SECONDS", 300)),
		ChatCooldown:     time.Second * time.Duration(getEnvInt("CHAT_COOLDOWN_SECONDS", 10)),

		PageMaxBytes:  getEnvInt("PAGE_MAX_BYTES", 4096),
		PageMinRunes:  getEnvInt("PAGE_MIN_RUNES", 20),
		RestDayWords:  []string{"отдых", "rest", "восстановление"},
		DefaultLocale: getEnv("DEFAULT_LOCALE", "ru"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
