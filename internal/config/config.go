package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string

	JWTSecret       string
	AccessTokenTTL  string
	RefreshTokenTTL string

	Log      string
	LogLevel string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
}

// LoadConfig загружает .env, читает переменные окружения и выставляет дефолты.
// Ничего не логирует — чтобы не создавать зависимость от logger.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  def(os.Getenv("ACCESS_TOKEN_EXPIRY"), "15m"),
		RefreshTokenTTL: def(os.Getenv("REFRESH_TOKEN_EXPIRY"), "720h"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   def(os.Getenv("OPENAI_MODEL"), "gpt-3.5-turbo"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
	}

	return cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty")
	}

	// OpenAI — предупреждение: без ключа AI-маршруты сразу отвечают
	// ошибкой конфигурации, без сетевых вызовов
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		warnings = append(warnings, "OPENAI_API_KEY is not set, AI features are disabled")
	}

	if c.Port == "" {
		warnings = append(warnings, "PORT is empty, using default 8080")
	}

	return warnings, nil
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
