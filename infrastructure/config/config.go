package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Storage configuration
	UseMemoryStore bool   `yaml:"use_memory_store"`
	AWSRegion      string `yaml:"aws_region"`
	DynamoDBTable  string `yaml:"dynamodb_table"`
	BoardIndexName string `yaml:"board_index_name"` // GSI for board lookups by id

	// Generation configuration
	Generation GenerationConfig `yaml:"generation"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// Feature flags
	EnableMetrics bool `yaml:"enable_metrics"`
	EnableCORS    bool `yaml:"enable_cors"`
}

// GenerationConfig holds model provider settings
type GenerationConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// LoadConfig loads configuration from environment variables, overlaid with an
// optional YAML file named by CONFIG_FILE
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		UseMemoryStore: getEnvBool("USE_MEMORY_STORE", false),
		AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:  getEnv("DYNAMODB_TABLE", "ideaflow"),
		BoardIndexName: getEnv("BOARD_INDEX_NAME", "BoardIndex"),

		Generation: GenerationConfig{
			APIKey:      getEnv("GENERATION_API_KEY", getEnv("OPENAI_API_KEY", "")),
			BaseURL:     getEnv("GENERATION_BASE_URL", ""),
			Model:       getEnv("GENERATION_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvInt("GENERATION_MAX_TOKENS", 1024),
			Temperature: getEnvFloat("GENERATION_TEMPERATURE", 0.7),
			Timeout:     getEnvDuration("GENERATION_TIMEOUT", 45*time.Second),
			MaxAttempts: getEnvInt("GENERATION_MAX_ATTEMPTS", 3),
		},

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "ideaflow-backend"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", true),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFile overlays values from a YAML file onto the config
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if !c.UseMemoryStore && c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required when not using the memory store")
		}
		if c.Generation.APIKey == "" {
			return fmt.Errorf("GENERATION_API_KEY is required in production")
		}
	}
	if c.Generation.Timeout <= 0 {
		return fmt.Errorf("generation timeout must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
