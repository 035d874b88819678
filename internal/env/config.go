// Package env loads connection and login settings from the process
// environment, optionally seeded from a .env.local file — the same
// config-loading idiom the rest of the stack uses for its own clients.
package env

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds what cmd/lyskom-cli needs to connect and, optionally, log
// in without prompting. cmd/lyskom-bench takes its settings from
// command-line flags instead.
type Config struct {
	Host     string `env:"LYSKOM_HOST, default=localhost"`
	Port     int    `env:"LYSKOM_PORT, default=4894"`
	User     string `env:"LYSKOM_USER, default=lyskom-client"`
	Person   int32  `env:"LYSKOM_PERSON"`
	Password string `env:"LYSKOM_PASSWORD"`
}

// Load reads Config from the environment, first merging in .env.local
// if present in the working directory — a missing file is not an error.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env.local")

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
