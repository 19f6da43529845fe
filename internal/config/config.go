package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`

	JWTSecret string        `yaml:"jwt_secret"`
	JWTTTL    time.Duration `yaml:"jwt_ttl"`

	GinMode     string   `yaml:"gin_mode"`
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
	// TrustedProxies may set X-Forwarded-For; empty trusts none
	TrustedProxies []string `yaml:"trusted_proxies"`

	AuthRateLimitPerMin int `yaml:"auth_rate_limit_per_min"`
	AuthRateLimitBurst  int `yaml:"auth_rate_limit_burst"`

	OpenAIAPIKey string `yaml:"openai_api_key"`
}

// DefaultJWTSecret is only for local development; Load refuses it in release mode
const DefaultJWTSecret = "default-secret-key-change-me"

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		DBDriver:            "postgres",
		DBHost:              "localhost",
		DBPort:              "5432",
		DBUser:              "taskuser",
		DBPassword:          "taskpassword",
		DBName:              "task_tracker",
		DBSSLMode:           "disable",
		JWTSecret:           DefaultJWTSecret,
		JWTTTL:              24 * time.Hour,
		GinMode:             "debug",
		Port:                "3000",
		CORSOrigins:         []string{"http://localhost:5173"},
		AuthRateLimitPerMin: 30,
		AuthRateLimitBurst:  10,
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in that order of precedence.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTTTL = getEnvDuration("JWT_TTL", cfg.JWTTTL)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.CORSOrigins = getEnvList("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.TrustedProxies = getEnvList("TRUSTED_PROXIES", cfg.TrustedProxies)
	cfg.AuthRateLimitPerMin = getEnvInt("AUTH_RATE_LIMIT_PER_MIN", cfg.AuthRateLimitPerMin)
	cfg.AuthRateLimitBurst = getEnvInt("AUTH_RATE_LIMIT_BURST", cfg.AuthRateLimitBurst)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "mysql" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want postgres or mysql)", cfg.DBDriver)
	}
	if cfg.IsProduction() && (strings.TrimSpace(cfg.JWTSecret) == "" || cfg.JWTSecret == DefaultJWTSecret) {
		return nil, errors.New("JWT_SECRET must be set to a non-default value when GIN_MODE=release")
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
