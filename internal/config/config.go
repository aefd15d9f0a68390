// internal/config/config.go
package config

import "os"

// DBConfig holds postgres connection settings.
type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
}

// SendGridConfig holds the process-wide email provider defaults. A tenant's
// company_settings row overrides the key and sender.
type SendGridConfig struct {
	APIKey             string
	BaseURL            string
	DefaultSenderEmail string
	DefaultSenderName  string
}

type Config struct {
	Addr          string
	SessionSecret string
	DB            DBConfig
	SendGrid      SendGridConfig
}

// Load builds configuration from environment variables. Call godotenv.Load
// first if a .env file should be honored.
func Load() *Config {
	return &Config{
		Addr:          getenv("ADDR", ":8080"),
		SessionSecret: getenv("SESSION_SECRET", ""),
		DB: DBConfig{
			User:     getenv("DB_USER", "postgres"),
			Password: getenv("DB_PASSWORD", ""),
			Host:     getenv("DB_HOST", "localhost"),
			Port:     getenv("DB_PORT", "5432"),
			Name:     getenv("DB_NAME", "paigham"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		SendGrid: SendGridConfig{
			APIKey:             getenv("SENDGRID_API_KEY", ""),
			BaseURL:            getenv("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
			DefaultSenderEmail: getenv("DEFAULT_SENDER_EMAIL", "noreply@example.com"),
			DefaultSenderName:  getenv("DEFAULT_SENDER_NAME", "Paigham"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
