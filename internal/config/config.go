package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	// Common
	Env      string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
	// API
	Port string `validate:"required,numeric"`
	// Application
	AppPath        string `validate:"required,contains=:"`
	ResetRoutes    bool
	MockRequestURL string `validate:"required,url"`
	// Storage
	DatabaseURL   string
	RedisAddr     string `validate:"required,hostname_port"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
	// Worker
	GRPCAddr        string `validate:"required"`
	MetricsAddr     string
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", "8080"),
		AppPath:         getEnv("APP_PATH", "demoapp:New"),
		ResetRoutes:     boolDef(getEnv("RESET_ROUTES", "true"), true),
		MockRequestURL:  getEnv("MOCK_REQUEST_URL", "https://test.com/"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		GRPCAddr:        getEnv("GRPC_ADDR", ":9090"),
		MetricsAddr:     getEnv("METRICS_ADDR", ":9100"),
		ShutdownTimeout: time.Duration(atoiDef(getEnv("SHUTDOWN_TIMEOUT_MS", "10000"), 10000)) * time.Millisecond,
	}
}

var validate = validator.New()

// Validate checks the loaded values. Errors name the offending field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
