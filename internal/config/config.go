package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	LookbackDays int
	MaxPerSource int
	MaxTotal     int
	FetchTimeout time.Duration

	DataDir string
	SiteDir string

	ENQueries []string
	ZHQueries []string

	TelegramToken  string
	TelegramChatID int64
}

func Load() *Config {
	return &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		LookbackDays:  getEnvAsInt("LOOKBACK_DAYS", 7),
		MaxPerSource:  getEnvAsInt("MAX_NEWS_PER_SOURCE", 5),
		MaxTotal:      getEnvAsInt("MAX_TOTAL_NEWS", 20),
		FetchTimeout:  getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
		DataDir:       getEnv("DATA_DIR", "data"),
		SiteDir:       getEnv("SITE_DIR", "docs"),
		ENQueries: getEnvAsList("EN_QUERIES", []string{
			"AI fintech",
			"artificial intelligence finance",
			"AI banking technology",
			"LLM financial services",
		}),
		ZHQueries: getEnvAsList("ZH_QUERIES", []string{
			"AI 金融科技",
			"人工智能 银行",
			"大模型 金融应用",
		}),
		TelegramToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID: getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated env value, dropping empty
// segments.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
