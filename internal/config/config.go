package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration read from the environment.
type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Web push reminders; disabled when the VAPID key pair is empty.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	ReminderCheck   time.Duration

	// Encrypted S3 backups; disabled when the bucket is empty.
	BackupBucket     string
	BackupEndpoint   string
	BackupRegion     string
	BackupAccessKey  string
	BackupSecretKey  string
	BackupPassphrase string
	BackupInterval   time.Duration
	BackupKeep       int
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is honored when present
// (development convenience); a missing file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("TIDYNEST_PORT", "8080"),
		DBPath:    getEnv("TIDYNEST_DB_PATH", "tidynest.db"),
		LogLevel:  getEnv("TIDYNEST_LOG_LEVEL", "info"),
		LogFormat: getEnv("TIDYNEST_LOG_FORMAT", "text"),

		VAPIDPublicKey:  os.Getenv("TIDYNEST_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("TIDYNEST_VAPID_PRIVATE_KEY"),
		ReminderCheck:   getDuration("TIDYNEST_REMINDER_CHECK", time.Hour),

		BackupBucket:     os.Getenv("TIDYNEST_BACKUP_BUCKET"),
		BackupEndpoint:   os.Getenv("TIDYNEST_BACKUP_ENDPOINT"),
		BackupRegion:     getEnv("TIDYNEST_BACKUP_REGION", "auto"),
		BackupAccessKey:  os.Getenv("TIDYNEST_BACKUP_ACCESS_KEY"),
		BackupSecretKey:  os.Getenv("TIDYNEST_BACKUP_SECRET_KEY"),
		BackupPassphrase: os.Getenv("TIDYNEST_BACKUP_PASSPHRASE"),
		BackupInterval:   getDuration("TIDYNEST_BACKUP_INTERVAL", 24*time.Hour),
		BackupKeep:       7,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
