package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Services ServiceConfig
	Honeypot HoneypotConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type ServiceConfig struct {
	// Base URL of the SafeTalk API serving analyze-text, honeypot/reply
	// and honeypot/extract.
	APIBaseURL string
	// Base URL of the whisper transcription sidecar.
	TranscriberBaseURL string
}

type HoneypotConfig struct {
	// Chat id of the bot owner; operator alerts are sent there.
	OperatorChatID string
	// Whether auto-engage starts enabled.
	EnabledByDefault bool
	// Optional e-mail address to copy operator alerts to.
	AlertEmail string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "SafeTalk HIVE"),
		},
		Services: ServiceConfig{
			APIBaseURL:         getEnv("HIVE_API_BASE_URL", "http://localhost:8000"),
			TranscriberBaseURL: getEnv("TRANSCRIBER_BASE_URL", "http://localhost:9000"),
		},
		Honeypot: HoneypotConfig{
			OperatorChatID:   getEnv("OPERATOR_CHAT_ID", ""),
			EnabledByDefault: getEnvAsBool("HONEYPOT_ENABLED", true),
			AlertEmail:       getEnv("ALERT_EMAIL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
