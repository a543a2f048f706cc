package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Remote REST backend.
	APIBaseURL string        `mapstructure:"API_BASE_URL"`
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`

	// Browser sessions.
	SessionTTL             time.Duration `mapstructure:"SESSION_TTL"`
	SessionRecheckInterval time.Duration `mapstructure:"SESSION_RECHECK_INTERVAL"`
	SessionCookieName      string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionSecret          string        `mapstructure:"SESSION_SECRET"`

	CategoryCacheTTL time.Duration `mapstructure:"CATEGORY_CACHE_TTL"`

	MaxRequestsPerMin     int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	MaxAuthAttemptsPerMin int    `mapstructure:"MAX_AUTH_ATTEMPTS_PER_MIN"`
	CORSAllowOrigins      string `mapstructure:"CORS_ALLOW_ORIGINS"`

	// Comma separated proxy IPs/CIDRs whose forwarding headers are honored.
	// Empty means client IPs always come from the connection.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_CACHE_DB", 1)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SESSION_RECHECK_INTERVAL", "5m")
	v.SetDefault("SESSION_COOKIE_NAME", "cokothon_sid")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("CATEGORY_CACHE_TTL", "5m")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("MAX_AUTH_ATTEMPTS_PER_MIN", 10)
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("TRUSTED_PROXIES", "")
}

// Load reads configuration from config.yaml (in "." or "./config") and the
// environment into a Config. Environment variables win over the file.
func Load(v *viper.Viper) (Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg, nil
}

// LoadConfig populates AppConfig or exits.
func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.SessionSecret == "" {
		if cfg.Env == "production" {
			log.Fatal("SESSION_SECRET is required in production")
		}
		log.Println("SESSION_SECRET not set, using development secret")
		cfg.SessionSecret = "cokothon-dev-secret"
	}
	AppConfig = cfg
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	return splitList(c.CORSAllowOrigins)
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. A nil result makes gin
// ignore X-Forwarded-For and X-Real-IP.
func (c Config) TrustedProxyList() []string {
	return splitList(c.TrustedProxies)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
