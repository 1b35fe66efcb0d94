package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address"`
	Environment   string `yaml:"environment"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// CORS
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Request limits
	MaxRequestBodyBytes int64 `yaml:"max_request_body_bytes"`
	MaxPipelineNodes    int   `yaml:"max_pipeline_nodes"`
	MaxPipelineEdges    int   `yaml:"max_pipeline_edges"`

	// Observability
	EnableMetrics   bool    `yaml:"enable_metrics"`
	EnableTracing   bool    `yaml:"enable_tracing"`
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	TraceSampleRate float64 `yaml:"trace_sample_rate"`
}

// LoadConfig loads configuration from defaults, an optional YAML overlay
// file (CONFIG_FILE), and environment variables. Environment variables win.
func LoadConfig() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ServerAddress:       ":8080",
		Environment:         "development",
		LogLevel:            "info",
		AllowedOrigins:      []string{"*"},
		MaxRequestBodyBytes: 1 << 20, // 1 MiB
		MaxPipelineNodes:    10000,
		MaxPipelineEdges:    50000,
		EnableMetrics:       true,
		EnableTracing:       false,
		OTLPEndpoint:        "",
		TraceSampleRate:     0.05,
	}
}

// applyFile overlays configuration from a YAML file
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// applyEnv overlays configuration from environment variables
func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		parts := strings.Split(origins, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			c.AllowedOrigins = cleaned
		}
	}

	c.MaxRequestBodyBytes = int64(getEnvInt("MAX_REQUEST_BODY_BYTES", int(c.MaxRequestBodyBytes)))
	c.MaxPipelineNodes = getEnvInt("MAX_PIPELINE_NODES", c.MaxPipelineNodes)
	c.MaxPipelineEdges = getEnvInt("MAX_PIPELINE_EDGES", c.MaxPipelineEdges)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.OTLPEndpoint = getEnv("OTLP_ENDPOINT", c.OTLPEndpoint)

	if rate := os.Getenv("TRACE_SAMPLE_RATE"); rate != "" {
		if parsed, err := strconv.ParseFloat(rate, 64); err == nil {
			c.TraceSampleRate = parsed
		}
	}
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("server address must not be empty")
	}
	if c.MaxRequestBodyBytes <= 0 {
		return fmt.Errorf("max request body bytes must be positive")
	}
	if c.MaxPipelineNodes < 0 || c.MaxPipelineEdges < 0 {
		return fmt.Errorf("pipeline size limits must not be negative")
	}
	if c.EnableTracing && c.Environment == "production" && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP_ENDPOINT is required when tracing is enabled in production")
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
