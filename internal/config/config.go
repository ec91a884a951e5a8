package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Media
		Auth
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Media struct {
		Dir           string
		SweepEnabled  bool
		SweepSchedule string        // Cron format: "30 3 * * *" = daily at 03:30
		SweepMinAge   time.Duration // Never delete files younger than this
	}
	Auth struct {
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Off by default: the app is served over plain HTTP on-device
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Media defaults
	v.SetDefault("media_dir", DefaultMediaDir)
	v.SetDefault("media_sweep_enabled", true)
	v.SetDefault("media_sweep_schedule", "30 3 * * *") // Daily at 03:30
	v.SetDefault("media_sweep_min_age", "1h")

	// Auth defaults
	v.SetDefault("auth_session_lifetime", "720h") // 30 days
	v.SetDefault("auth_bcrypt_cost", 12)          // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Media: Media{
			Dir:           v.GetString("MEDIA_DIR"),
			SweepEnabled:  v.GetBool("MEDIA_SWEEP_ENABLED"),
			SweepSchedule: v.GetString("MEDIA_SWEEP_SCHEDULE"),
			SweepMinAge:   v.GetDuration("MEDIA_SWEEP_MIN_AGE"),
		},
		Auth: Auth{
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
