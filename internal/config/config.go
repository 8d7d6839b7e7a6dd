// Package config reads client settings from the environment and an optional
// .env file in the working directory.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	APIURL   string        `env:"TODO_API_URL" env-default:"https://todo-backend-mern-q3fc.onrender.com" env-description:"base URL of the todo backend"`
	Timeout  time.Duration `env:"TODO_TIMEOUT" env-default:"10s" env-description:"per-request timeout, 0 disables it"`
	LogLevel string        `env:"TODO_LOG_LEVEL" env-default:"info" env-description:"trace, debug, info, warn or error"`
	LogFile  string        `env:"TODO_LOG_FILE" env-description:"log destination; logs are dropped when empty"`
	Theme    string        `env:"TODO_THEME" env-default:"classic" env-description:"classic, neon or mono"`
}

// Load merges .env (if any) into the process environment without
// overriding variables that are already set, then reads Config from it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("TODO_TIMEOUT must not be negative, got %s", cfg.Timeout)
	}
	return cfg, nil
}

// Usage describes the recognised variables, for help output.
func Usage() string {
	s, err := cleanenv.GetDescription(new(Config), nil)
	if err != nil {
		return ""
	}
	return s
}
