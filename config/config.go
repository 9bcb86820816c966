package config

import (
	"log"

	"github.com/spf13/viper"
)

type WebServerConfig struct {
	Port            string `mapstructure:"port"`
	IP              string `mapstructure:"ip"`
	Environment     string `mapstructure:"environment"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type RedisConfig struct {
	Address          string `mapstructure:"address"`
	Password         string `mapstructure:"password"`
	DB               int    `mapstructure:"db"`
	PoolSize         int    `mapstructure:"pool_size"`
	MinIdleConns     int    `mapstructure:"min_idle_conns"`
	OperationTimeout int    `mapstructure:"operation_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	RequestsPerSecond  float64 `mapstructure:"requests_per_second"`
	Burst              int     `mapstructure:"burst"`
	ContactMax         int     `mapstructure:"contact_max"`
	ContactWindowMin   int     `mapstructure:"contact_window_minutes"`
	AnalyticsMax       int     `mapstructure:"analytics_max"`
	AnalyticsWindowMin int     `mapstructure:"analytics_window_minutes"`
}

type AnalyticsConfig struct {
	RetentionDays  int  `mapstructure:"retention_days"`
	SessionTTLMin  int  `mapstructure:"session_ttl_minutes"`
	ServerTracking bool `mapstructure:"server_tracking"`
}

type GeoIPConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	CacheSizeMB  int    `mapstructure:"cache_size_mb"`
	CacheTTLSec  int    `mapstructure:"cache_ttl_seconds"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     string `mapstructure:"smtp_port"`
	SMTPUsername string `mapstructure:"smtp_username"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromEmail    string `mapstructure:"from_email"`
	FromName     string `mapstructure:"from_name"`
	AdminEmail   string `mapstructure:"admin_email"`
}

type Config struct {
	WebServer WebServerConfig `mapstructure:"webserver"`
	Redis     RedisConfig     `mapstructure:"redis"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	GeoIP     GeoIPConfig     `mapstructure:"geoip"`
	Email     EmailConfig     `mapstructure:"email"`
}

// IsProduction reports whether the server runs in production mode.
// Session cookies are only marked Secure in production.
func (c Config) IsProduction() bool {
	return c.WebServer.Environment == "production"
}

func LoadConfig() (Config, error) {
	var config Config

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Enable environment variable overrides
	viper.SetEnvPrefix("PORTFOLIO")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Error reading config file: %v", err)
			return config, err
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		log.Printf("Unable to decode into struct: %v", err)
		return config, err
	}

	return config, nil
}

func MustLoadConfig() Config {
	config, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return config
}

func setDefaults() {
	// WebServer defaults
	viper.SetDefault("webserver.port", "8080")
	viper.SetDefault("webserver.ip", "0.0.0.0")
	viper.SetDefault("webserver.environment", "development")
	viper.SetDefault("webserver.read_timeout", 15)
	viper.SetDefault("webserver.write_timeout", 15)
	viper.SetDefault("webserver.shutdown_timeout", 30)

	// Redis defaults
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.operation_timeout", 5)

	// CORS defaults
	viper.SetDefault("cors.allowed_origins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5500",
		"http://127.0.0.1:5500",
	})

	// RateLimit defaults
	viper.SetDefault("ratelimit.requests_per_second", 10.0)
	viper.SetDefault("ratelimit.burst", 20)
	viper.SetDefault("ratelimit.contact_max", 5)
	viper.SetDefault("ratelimit.contact_window_minutes", 15)
	viper.SetDefault("ratelimit.analytics_max", 100)
	viper.SetDefault("ratelimit.analytics_window_minutes", 15)

	// Analytics defaults
	viper.SetDefault("analytics.retention_days", 90)
	viper.SetDefault("analytics.session_ttl_minutes", 30)
	viper.SetDefault("analytics.server_tracking", false)

	// GeoIP defaults (lookups return empty results when no database is configured)
	viper.SetDefault("geoip.database_path", "")
	viper.SetDefault("geoip.cache_size_mb", 16)
	viper.SetDefault("geoip.cache_ttl_seconds", 3600)

	// Email defaults. The notification path is disabled by default; contact
	// messages are persisted either way.
	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.smtp_host", "")
	viper.SetDefault("email.smtp_port", "587")
	viper.SetDefault("email.smtp_username", "")
	viper.SetDefault("email.smtp_password", "")
	viper.SetDefault("email.from_email", "noreply@example.com")
	viper.SetDefault("email.from_name", "Portfolio Contact")
	viper.SetDefault("email.admin_email", "")
}
