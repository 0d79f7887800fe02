package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Session backends supported by the console gateway.
const (
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	API       APIConfig
	Redis     RedisConfig
	Session   SessionConfig
	CORS      CORSConfig
	Log       LogConfig
	Lists     ListConfig
	RateLimit RateLimitConfig
}

// APIConfig points the console at the Zen Ops REST backend.
type APIConfig struct {
	BaseURL    string
	Timeout    time.Duration
	SlashPaths []string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig controls where logged-in users are persisted.
type SessionConfig struct {
	Backend    string
	TTL        time.Duration
	CookieName string
	Dir        string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ListConfig tunes the assignment list views.
type ListConfig struct {
	PageSize int
	IdleTTL  time.Duration
}

// RateLimitConfig throttles the console login endpoint.
type RateLimitConfig struct {
	Login string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.API = APIConfig{
		BaseURL:    strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout:    parseDuration(v.GetString("API_TIMEOUT"), 30*time.Second),
		SlashPaths: splitAndTrim(v.GetString("API_SLASH_PATHS")),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Backend:    strings.ToLower(v.GetString("SESSION_BACKEND")),
		TTL:        parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		CookieName: v.GetString("SESSION_COOKIE"),
		Dir:        v.GetString("SESSION_DIR"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	pageSize := v.GetInt("LIST_PAGE_SIZE")
	if pageSize <= 0 {
		pageSize = 50
	}
	cfg.Lists = ListConfig{
		PageSize: pageSize,
		IdleTTL:  parseDuration(v.GetString("VIEW_IDLE_TTL"), 30*time.Minute),
	}

	cfg.RateLimit = RateLimitConfig{Login: v.GetString("LOGIN_RATE_LIMIT")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/console")

	v.SetDefault("API_BASE_URL", "http://127.0.0.1:8000")
	v.SetDefault("API_TIMEOUT", "30s")
	v.SetDefault("API_SLASH_PATHS", "/api/assignments")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_BACKEND", SessionBackendRedis)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_COOKIE", "zenops_sid")
	v.SetDefault("SESSION_DIR", defaultSessionDir())

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("LIST_PAGE_SIZE", 50)
	v.SetDefault("VIEW_IDLE_TTL", "30m")
	v.SetDefault("LOGIN_RATE_LIMIT", "10-M")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func defaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".zenops"
	}
	return filepath.Join(dir, "zenops")
}
