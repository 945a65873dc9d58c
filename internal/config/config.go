// Package config loads application settings from the process environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/memchat/memchat/chatmem"
	"github.com/memchat/memchat/llmcall"
)

// Config holds all recognized settings.
type Config struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	APIKey   string `env:"LLM_API_KEY"`

	WindowCapacity    int           `env:"WINDOW_CAPACITY" envDefault:"4"`
	MaxAttempts       int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	BaseDelay         time.Duration `env:"BASE_DELAY" envDefault:"1s"`
	MaxDelay          time.Duration `env:"MAX_DELAY" envDefault:"10s"`
	BackoffMultiplier float64       `env:"BACKOFF_MULTIPLIER" envDefault:"2"`
	RequestsPerMinute int           `env:"REQUESTS_PER_MINUTE" envDefault:"10"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE" envDefault:"logs/memchat.log"`
}

// Load reads the optional .env file, then parses the environment. A missing
// .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// RetryPolicy builds the retry policy from the configured values.
func (c *Config) RetryPolicy() llmcall.RetryPolicy {
	return llmcall.RetryPolicy{
		MaxAttempts:       c.MaxAttempts,
		BaseDelay:         c.BaseDelay,
		MaxDelay:          c.MaxDelay,
		BackoffMultiplier: c.BackoffMultiplier,
	}
}

// SessionConfig builds the chat session configuration.
func (c *Config) SessionConfig() chatmem.SessionConfig {
	return chatmem.SessionConfig{
		WindowCapacity:    c.WindowCapacity,
		RetryPolicy:       c.RetryPolicy(),
		RequestsPerMinute: c.RequestsPerMinute,
	}
}
