package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendMongo  = "mongo"
	CacheBackendNone   = "none"
)

type Config struct {
	ServerPort string

	NewsAPIKey       string
	NewsAPIBaseURL   string
	Country          string
	ReuseWindow      time.Duration
	UpstreamTimeout  time.Duration
	BreakerThreshold int
	UseMockOnError   bool

	CacheBackend    string
	CacheMaxEntries int
	MongoURI        string
	MongoDBName     string
	MongoColl       string

	KafkaBrokers []string
	KafkaTopic   string

	OTLPEndpoint string

	RateLimitRPS   float64
	RateLimitBurst int
	TrustProxy     bool

	LogSampleInterval int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		// The key is passed through as-is; an empty key surfaces as an upstream 401.
		NewsAPIKey:       getEnv("NEWS_API_KEY", ""),
		NewsAPIBaseURL:   getEnv("NEWS_API_BASE_URL", "https://newsapi.org"),
		Country:          getEnv("NEWS_API_COUNTRY", "us"),
		ReuseWindow:      getDurationEnv("NEWS_API_REUSE_WINDOW", 900*time.Second),
		UpstreamTimeout:  getDurationEnv("NEWS_API_TIMEOUT", 0),
		BreakerThreshold: getIntEnv("NEWS_API_BREAKER_THRESHOLD", 0),
		UseMockOnError:   getBoolEnv("USE_MOCK_DATA_ON_ERROR", true),

		CacheBackend:    strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendMemory)),
		CacheMaxEntries: getIntEnv("CACHE_MAX_ENTRIES", 1000),
		MongoURI:        getEnv("MONGO_URI", "mongodb://mongodb:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "news_feed"),
		MongoColl:       getEnv("MONGO_COLLECTION", "upstream_cache"),

		KafkaBrokers: getListEnv("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "feed_events"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 20),
		TrustProxy:     getBoolEnv("TRUST_PROXY", false),

		LogSampleInterval: getIntEnv("LOG_SAMPLE_INTERVAL", 10),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		// Try parsing as duration string (e.g. "1m", "60s")
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Try parsing as integer seconds
		if i, err := strconv.Atoi(value); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}

// getListEnv splits a comma-separated value, dropping empty items.
func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
