package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	Env        string `envconfig:"ENV" default:"development"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort string `envconfig:"SERVER_PORT" default:"3000"`

	// Настройки Gemini API.
	// Ключ НЕ имеет значения по умолчанию: при его отсутствии генерация
	// отвечает ошибкой конфигурации, а не использует зашитый ключ.
	GeminiAPIKey         string `envconfig:"GEMINI_API_KEY"`
	GeminiModel          string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	GeminiBaseURL        string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	GeminiTimeoutSeconds int    `envconfig:"GEMINI_TIMEOUT_SECONDS" default:"120"`

	// Учетные данные Firebase. FIREBASE_SERVICE_ACCOUNT может содержать
	// JSON сервис-аккаунта как есть или в base64. Если переменная пуста,
	// используется локальный файл FirebaseCredentialsFile.
	FirebaseServiceAccount  string `envconfig:"FIREBASE_SERVICE_ACCOUNT"`
	FirebaseCredentialsFile string `envconfig:"FIREBASE_CREDENTIALS_FILE" default:"serviceAccountKey.json"`

	// CORS Settings
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// Rate limit для /generate (запросов в минуту с одного IP).
	GenerateRateLimit uint `envconfig:"GENERATE_RATE_LIMIT" default:"10"`
}

// GetAllowedOrigins splits the CORSAllowedOrigins string into a slice.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// LoadConfig loads configuration from an optional .env file and environment variables.
func LoadConfig(envFilePath string) (*Config, error) {
	if _, err := os.Stat(envFilePath); err == nil {
		if err := godotenv.Load(envFilePath); err != nil {
			log.Printf("Warning: Could not load %s file: %v", envFilePath, err)
		} else {
			log.Printf("Loaded configuration from %s", envFilePath)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Error checking %s file: %v", envFilePath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}

	// Эхо конфигурации без секретов
	log.Println("Configuration loaded:")
	log.Printf("  Env: %s", cfg.Env)
	log.Printf("  LogLevel: %s", cfg.LogLevel)
	log.Printf("  Port: %s", cfg.ServerPort)
	log.Printf("  Gemini Model: %s", cfg.GeminiModel)
	log.Printf("  Gemini API Key: %s", presence(cfg.GeminiAPIKey))
	log.Printf("  Firebase Service Account: %s", presence(cfg.FirebaseServiceAccount))

	return &cfg, nil
}

func presence(secret string) string {
	if secret == "" {
		return "[MISSING]"
	}
	return "[PRESENT]"
}
