package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DataDir string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	RedisAddr      string
	ResultCacheTTL time.Duration

	SubjectsFile string

	MockGenerator   bool
	AnthropicAPIKey string
	AnthropicModel  string
	LLMTimeout      time.Duration

	CORSOrigins []string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables
// take precedence over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:    getEnv("PORT", "8080"),
		DataDir: getEnv("DATA_DIR", "./data"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "learnpath"),
		DBPassword: getEnv("DB_PASSWORD", "learnpath"),
		DBName:     getEnv("DB_NAME", "learnpath"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "./data/learnpath.db"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		ResultCacheTTL: getDuration("RESULT_CACHE_TTL", time.Hour),

		SubjectsFile: getEnv("SUBJECTS_FILE", ""),

		MockGenerator:   getEnv("MOCK_GENERATOR", "") == "true",
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		LLMTimeout:      getDuration("LLM_TIMEOUT", 20*time.Second),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

// PostgresDSN builds a lib/pq key=value connection string.
func (c Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" port=" + c.DBPort +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" sslmode=" + c.DBSSLMode
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDuration accepts Go durations ("90s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("WARN: [config] invalid %s=%q, using %s", key, raw, fallback)
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
