package config

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var AppConfig Config

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"-"`
	DB       int    `json:"db"`
}

type SMTPConfig struct {
	Host      string `json:"host" validate:"required"`
	Port      int    `json:"port" validate:"required,min=1,max=65535"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	FromEmail string `json:"from_email" validate:"required,email"`
	FromName  string `json:"from_name"`
}

type IMAPConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"-"`
	Mailbox  string `json:"mailbox"`
}

type GeminiConfig struct {
	APIKey string `json:"-"`
	Model  string `json:"model"`
}

type Config struct {
	Environment string `json:"environment"`
	ServerPort  string `json:"server_port"`
	BaseURL     string `json:"base_url" validate:"required,url"`

	DBHost         string `json:"db_host" validate:"required"`
	DBPort         string `json:"db_port"`
	DBUser         string `json:"db_user"`
	DBPassword     string `json:"-" validate:"required"`
	DBName         string `json:"db_name"`
	DBSSLMode      string `json:"db_ssl_mode"`
	DBMaxIdleConns int    `json:"db_max_idle_conns"`
	DBMaxOpenConns int    `json:"db_max_open_conns"`

	SMTP   SMTPConfig   `json:"smtp"`
	IMAP   IMAPConfig   `json:"imap"`
	Redis  RedisConfig  `json:"redis"`
	Gemini GeminiConfig `json:"gemini"`

	// Secret used to sign unsubscribe tokens
	UnsubscribeSecret string `json:"-" validate:"required"`

	// Admin API key protecting the campaign trigger endpoints
	AdminAPIKey string `json:"-" validate:"required"`

	SentryDSN string `json:"-"`

	// Campaign schedule, local wall-clock times ("HH:MM")
	Timezone         string `json:"timezone"`
	DailyRunAt       string `json:"daily_run_at"`
	EveningRunAt     string `json:"evening_run_at"`
	RunConcurrency   int    `json:"run_concurrency" validate:"min=1,max=64"`
	RateLimitTrigger int    `json:"rate_limit_trigger"`
}

func init() {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()
}

func LoadConfig() error {
	AppConfig = Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("SERVER_PORT", "5000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:3000"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "neshama"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromEmail: getEnv("SMTP_FROM_EMAIL", ""),
			FromName:  getEnv("SMTP_FROM_NAME", "NeshamaTech"),
		},
		IMAP: IMAPConfig{
			Enabled:  getEnv("IMAP_BOUNCE_ENABLED", "false") == "true",
			Host:     getEnv("IMAP_HOST", ""),
			Port:     getEnvAsInt("IMAP_PORT", 993),
			Username: getEnv("IMAP_USERNAME", ""),
			Password: getEnv("IMAP_PASSWORD", ""),
			Mailbox:  getEnv("IMAP_BOUNCE_MAILBOX", "INBOX"),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},

		UnsubscribeSecret: getEnv("UNSUBSCRIBE_SECRET", ""),
		AdminAPIKey:       getEnv("ADMIN_API_KEY", ""),
		SentryDSN:         getEnv("SENTRY_DSN", ""),

		Timezone:         getEnv("CAMPAIGN_TIMEZONE", "Asia/Jerusalem"),
		DailyRunAt:       getEnv("DAILY_RUN_AT", "09:00"),
		EveningRunAt:     getEnv("EVENING_RUN_AT", "20:30"),
		RunConcurrency:   getEnvAsInt("RUN_CONCURRENCY", 1),
		RateLimitTrigger: getEnvAsInt("RATE_LIMIT_TRIGGER", 5),
	}

	if err := validator.New().Struct(&AppConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logConfig()
	return nil
}

// Helper functions
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	var value int
	if _, err := fmt.Sscanf(valueStr, "%d", &value); err != nil {
		return fallback
	}
	return value
}

func logConfig() {
	log.Println("🔧 Loaded configuration:")
	log.Printf("Environment: %s", AppConfig.Environment)
	log.Printf("Server Port: %s", AppConfig.ServerPort)
	log.Printf("Database: %s@%s:%s/%s",
		AppConfig.DBUser,
		AppConfig.DBHost,
		AppConfig.DBPort,
		AppConfig.DBName)
	log.Printf("Campaign schedule: daily %s, evening %s (%s)",
		AppConfig.DailyRunAt,
		AppConfig.EveningRunAt,
		AppConfig.Timezone)
	log.Printf("Bounce monitor: %t, Redis: %t, Gemini: %t",
		AppConfig.IMAP.Enabled,
		AppConfig.Redis.Enabled,
		AppConfig.Gemini.APIKey != "")
}
