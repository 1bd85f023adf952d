package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	AppEnv         string `envconfig:"APP_ENV" default:"development"`
	Port           string `envconfig:"PORT" default:"8080"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASS"`
	DBName     string `envconfig:"DB_NAME" default:"inkwell"`

	RedisURL string `envconfig:"REDIS_URL"`

	MeiliHost      string `envconfig:"MEILISEARCH_HOST"`
	MeiliMasterKey string `envconfig:"MEILI_MASTER_KEY"`

	JWTSecret        string        `envconfig:"JWT_SECRET" default:"change-me"`
	JWTTTL           time.Duration `envconfig:"JWT_TTL" default:"24h"`
	RateLimitComment time.Duration `envconfig:"RATE_LIMIT_COMMENT" default:"30s"`
	RateLimitMessage time.Duration `envconfig:"RATE_LIMIT_MESSAGE" default:"5s"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASS"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@inkwell.local"`
	ContactEmail string `envconfig:"CONTACT_EMAIL"`

	ViewSyncSchedule string `envconfig:"VIEW_SYNC_SCHEDULE" default:"@every 1m"`
}

// DSN returns the Data Source Name for the postgres connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
