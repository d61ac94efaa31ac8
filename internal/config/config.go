package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	DatabaseURL string
	// Provider
	Provider        string
	CoinGeckoBase   string
	CoinGeckoAPIKey string
	VsCurrency      string
	RatePerMinute   int
	RequestTimeout  time.Duration
	// Collection window
	Coins       []string
	WindowStart time.Time
	WindowEnd   time.Time
	// Processing
	MovingAvgWindow int
	// Redis (summary cache)
	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func timeDef(s string, def time.Time) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return def
	}
	return t.UTC()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads environment variables and applies defaults. The default
// collection window is Q1 2025 with a 5-sample moving average, both
// overridable per deployment.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		Provider:        getEnv("PROVIDER", "coingecko"),
		CoinGeckoBase:   getEnv("COINGECKO_API_BASE", "https://api.coingecko.com/api/v3"),
		CoinGeckoAPIKey: getEnv("COINGECKO_API_KEY", ""),
		VsCurrency:      getEnv("VS_CURRENCY", "usd"),
		RatePerMinute:   atoiDef(getEnv("RATE_LIMIT_PER_MIN", "10"), 10),
		RequestTimeout:  time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "10000"), 10000)) * time.Millisecond,
		Coins:           splitList(getEnv("COINS", "bitcoin,ethereum,solana")),
		WindowStart:     timeDef(getEnv("WINDOW_START", ""), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		WindowEnd:       timeDef(getEnv("WINDOW_END", ""), time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)),
		MovingAvgWindow: atoiDef(getEnv("MOVING_AVG_WINDOW", "5"), 5),
		CacheBackend:    getEnv("CACHE_BACKEND", "redis"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		CacheTTL:        time.Duration(atoiDef(getEnv("SUMMARY_CACHE_TTL_MS", "300000"), 300000)) * time.Millisecond,
	}
}
