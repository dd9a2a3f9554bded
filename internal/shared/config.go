package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	HotelsFile string
	FetchRPS   int

	SentimentBase  string // HTTP inference endpoint; empty => OpenAI adapter
	OpenAIKey      string
	ClassifierMax  int // max runes fed to the classifier per call
	ScorerWorkers  int
	ScorerRevLimit int

	CacheTTL time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ":9100"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels_info?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		HotelsFile:     env("HOTELS_FILE", "hotels.txt"),
		FetchRPS:       atoi("FETCH_RPS", 2),
		SentimentBase:  env("SENTIMENT_BASE_URL", ""),
		OpenAIKey:      env("OPENAI_API_KEY", ""),
		ClassifierMax:  atoi("CLASSIFIER_MAX_INPUT", 512),
		ScorerWorkers:  atoi("SCORER_WORKERS", 4),
		ScorerRevLimit: atoi("SCORER_REVIEW_LIMIT", 200),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.SentimentBase == "" && c.OpenAIKey == "" {
		log.Warn().Msg("neither SENTIMENT_BASE_URL nor OPENAI_API_KEY is set")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
