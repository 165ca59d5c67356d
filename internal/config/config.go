package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/privateboard/privateboard/internal/storage"
)

// Config holds application configuration, resolved once at process start
// and passed by injection. There is no lazily constructed global state.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Storage   storage.Config
	Cleanup   CleanupConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type CleanupConfig struct {
	// Schedule is a cron expression for the expiry reaper,
	// e.g. "@every 1h" or "*/10 * * * *". Empty disables reaping.
	Schedule string
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Load reads configuration from environment variables and an optional .env
// file. Missing parameters for the selected storage provider are collected
// into one error naming every missing key; callers treat that as fatal.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "4000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MONGODB_DATABASE", "privateboard")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("STORAGE_PROVIDER", storage.ProviderLocal)
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("CLEANUP_SCHEDULE", "@every 1h")
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Storage: storage.Config{
			Provider: viper.GetString("STORAGE_PROVIDER"),
			Local: storage.LocalConfig{
				Dir:     viper.GetString("UPLOAD_DIR"),
				BaseURL: viper.GetString("UPLOAD_BASE_URL"),
			},
			S3: storage.S3Config{
				Endpoint:      viper.GetString("S3_ENDPOINT"),
				AccessKey:     viper.GetString("S3_ACCESS_KEY"),
				SecretKey:     os.Getenv("S3_SECRET_KEY"),
				UseSSL:        viper.GetBool("S3_USE_SSL"),
				Bucket:        viper.GetString("S3_BUCKET"),
				PublicBaseURL: viper.GetString("S3_PUBLIC_BASE_URL"),
			},
		},
		Cleanup: CleanupConfig{
			Schedule: viper.GetString("CLEANUP_SCHEDULE"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}

	// Default the local upload base URL from the server address. Only the
	// scheme/host part is deployment-specific.
	if cfg.Storage.Local.BaseURL == "" {
		host := cfg.Server.Host
		if host == "0.0.0.0" || host == "" {
			host = "localhost"
		}
		cfg.Storage.Local.BaseURL = fmt.Sprintf("http://%s:%s/uploads", host, cfg.Server.Port)
	}

	if err := validateStorage(cfg.Storage); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateStorage checks the selected provider's parameters and reports
// every missing one at once.
func validateStorage(cfg storage.Config) error {
	var missing []string
	switch cfg.Provider {
	case storage.ProviderLocal:
		if cfg.Local.Dir == "" {
			missing = append(missing, "UPLOAD_DIR")
		}
		if cfg.Local.BaseURL == "" {
			missing = append(missing, "UPLOAD_BASE_URL")
		}
	case storage.ProviderS3:
		if cfg.S3.Endpoint == "" {
			missing = append(missing, "S3_ENDPOINT")
		}
		if cfg.S3.AccessKey == "" {
			missing = append(missing, "S3_ACCESS_KEY")
		}
		if cfg.S3.SecretKey == "" {
			missing = append(missing, "S3_SECRET_KEY")
		}
		if cfg.S3.Bucket == "" {
			missing = append(missing, "S3_BUCKET")
		}
		if cfg.S3.PublicBaseURL == "" {
			missing = append(missing, "S3_PUBLIC_BASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORAGE_PROVIDER: %q", cfg.Provider)
	}
	if len(missing) > 0 {
		return fmt.Errorf("storage provider %q missing required config: %s",
			cfg.Provider, strings.Join(missing, ", "))
	}
	return nil
}
