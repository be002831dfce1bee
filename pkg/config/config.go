package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Codes     CodesConfig
	Cache     CacheConfig
	Invite    InviteConfig
	Redirects RedirectConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret         string
	Expiration     time.Duration
	RememberMaxAge time.Duration
	Issuer         string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CodesConfig bounds unique identifier generation.
type CodesConfig struct {
	MaxAttempts int
}

// CacheConfig governs the member count cache.
type CacheConfig struct {
	Enabled  bool
	CountTTL time.Duration
}

// InviteConfig configures invitation links and the mail dispatch queue.
type InviteConfig struct {
	BaseURL      string
	From         string
	Workers      int
	MaxRetries   int
	RetryDelay   time.Duration
	QueueBacklog int
}

// RedirectConfig lists the frontend pages the invite-link flow redirects to.
type RedirectConfig struct {
	LoginURL           string
	RegisterURL        string
	ClassManagementURL string
	AlertCookieTTL     time.Duration
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

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:         v.GetString("JWT_SECRET"),
		Expiration:     parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RememberMaxAge: parseDuration(v.GetString("JWT_REMEMBER_MAX_AGE"), 72*time.Hour),
		Issuer:         v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Codes = CodesConfig{MaxAttempts: v.GetInt("CODE_MAX_ATTEMPTS")}

	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("ENABLE_COUNT_CACHE"),
		CountTTL: parseDuration(v.GetString("COUNT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Invite = InviteConfig{
		BaseURL:      strings.TrimRight(v.GetString("INVITE_BASE_URL"), "/"),
		From:         v.GetString("INVITE_FROM"),
		Workers:      v.GetInt("INVITE_WORKERS"),
		MaxRetries:   v.GetInt("INVITE_MAX_RETRIES"),
		RetryDelay:   parseDuration(v.GetString("INVITE_RETRY_DELAY"), 5*time.Second),
		QueueBacklog: v.GetInt("INVITE_QUEUE_BACKLOG"),
	}

	cfg.Redirects = RedirectConfig{
		LoginURL:           v.GetString("REDIRECT_LOGIN_URL"),
		RegisterURL:        v.GetString("REDIRECT_REGISTER_URL"),
		ClassManagementURL: v.GetString("REDIRECT_CLASS_MANAGEMENT_URL"),
		AlertCookieTTL:     parseDuration(v.GetString("ALERT_COOKIE_TTL"), time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "eduplatform")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_REMEMBER_MAX_AGE", "72h")
	v.SetDefault("JWT_ISSUER", "eduplatform")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CODE_MAX_ATTEMPTS", 10)

	v.SetDefault("ENABLE_COUNT_CACHE", false)
	v.SetDefault("COUNT_CACHE_TTL", "5m")

	v.SetDefault("INVITE_BASE_URL", "http://localhost:8080")
	v.SetDefault("INVITE_FROM", "eduplatform@gmail.com")
	v.SetDefault("INVITE_WORKERS", 2)
	v.SetDefault("INVITE_MAX_RETRIES", 3)
	v.SetDefault("INVITE_RETRY_DELAY", "5s")
	v.SetDefault("INVITE_QUEUE_BACKLOG", 64)

	v.SetDefault("REDIRECT_LOGIN_URL", "/login")
	v.SetDefault("REDIRECT_REGISTER_URL", "/register")
	v.SetDefault("REDIRECT_CLASS_MANAGEMENT_URL", "/dashboard/manajemen-kelas")
	v.SetDefault("ALERT_COOKIE_TTL", "1m")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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
