package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	LLM      LLMConfig      `yaml:"llm"`
	Routine  RoutineConfig  `yaml:"routine"`
	Postgres PostgresConfig `yaml:"postgres"`
	Queue    QueueConfig    `yaml:"queue"`
	Storage  StorageConfig  `yaml:"storage"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RoutineConfig controls the routine synthesis engine.
type RoutineConfig struct {
	MinCatalogSize         int `yaml:"minCatalogSize"`
	MinSteps               int `yaml:"minSteps"`
	MaxSteps               int `yaml:"maxSteps"`
	DefaultDurationMinutes int `yaml:"defaultDurationMinutes"`
	MaxTips                int `yaml:"maxTips"`
	PromptTokenBudget      int `yaml:"promptTokenBudget"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// QueueConfig selects the background job transport. With Valkey disabled
// jobs run on an in-process goroutine.
type QueueConfig struct {
	ValkeyEnabled bool   `yaml:"valkeyEnabled"`
	ValkeyAddr    string `yaml:"valkeyAddr"`
}

// StorageConfig contains S3-compatible object storage settings for product
// photos. With no endpoint configured photos are held in memory.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSsl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = boolEnv(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("ROUTINE_MIN_CATALOG_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Routine.MinCatalogSize = parsed
		}
	}
	if v := os.Getenv("ROUTINE_MIN_STEPS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Routine.MinSteps = parsed
		}
	}
	if v := os.Getenv("ROUTINE_MAX_STEPS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Routine.MaxSteps = parsed
		}
	}
	if v := os.Getenv("ROUTINE_DEFAULT_DURATION"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Routine.DefaultDurationMinutes = parsed
		}
	}
	if v := os.Getenv("ROUTINE_MAX_TIPS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Routine.MaxTips = parsed
		}
	}
	if v := os.Getenv("ROUTINE_PROMPT_TOKEN_BUDGET"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Routine.PromptTokenBudget = parsed
		}
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("QUEUE_VALKEY_ENABLED"); v != "" {
		cfg.Queue.ValkeyEnabled = boolEnv(v)
	}
	if v := os.Getenv("QUEUE_VALKEY_ADDR"); v != "" {
		cfg.Queue.ValkeyAddr = v
	}
	if v := os.Getenv("STORAGE_ENDPOINT"); v != "" {
		cfg.Storage.Endpoint = v
	}
	if v := os.Getenv("STORAGE_ACCESS_KEY"); v != "" {
		cfg.Storage.AccessKey = v
	}
	if v := os.Getenv("STORAGE_SECRET_KEY"); v != "" {
		cfg.Storage.SecretKey = v
	}
	if v := os.Getenv("STORAGE_BUCKET"); v != "" {
		cfg.Storage.Bucket = v
	}
	if v := os.Getenv("STORAGE_USE_SSL"); v != "" {
		cfg.Storage.UseSSL = boolEnv(v)
	}
}

func boolEnv(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   1024,
			Timeout:     60 * time.Second,
		},
		Routine: RoutineConfig{
			MinCatalogSize:         3,
			MinSteps:               3,
			MaxSteps:               6,
			DefaultDurationMinutes: 19,
			MaxTips:                3,
			PromptTokenBudget:      4096,
		},
		Postgres: PostgresConfig{
			DSN:      "",
			MaxConns: 4,
			MinConns: 0,
		},
		Queue: QueueConfig{
			ValkeyEnabled: false,
			ValkeyAddr:    "",
		},
		Storage: StorageConfig{
			Bucket: "product-photos",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.Routine.MinCatalogSize <= 0 {
		return errors.New("routine.minCatalogSize must be positive")
	}
	if c.Routine.MinSteps <= 0 {
		return errors.New("routine.minSteps must be positive")
	}
	if c.Routine.MaxSteps < c.Routine.MinSteps {
		return errors.New("routine.maxSteps cannot be below routine.minSteps")
	}
	if c.Routine.DefaultDurationMinutes <= 0 {
		return errors.New("routine.defaultDurationMinutes must be positive")
	}
	if c.Routine.MaxTips < 0 {
		return errors.New("routine.maxTips cannot be negative")
	}
	if c.Queue.ValkeyEnabled && strings.TrimSpace(c.Queue.ValkeyAddr) == "" {
		return errors.New("queue.valkeyAddr cannot be empty when valkey is enabled")
	}
	if c.Storage.Endpoint != "" && strings.TrimSpace(c.Storage.Bucket) == "" {
		return errors.New("storage.bucket cannot be empty when an endpoint is configured")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
