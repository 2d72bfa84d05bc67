package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds environment overrides for framectl. Flags take precedence.
type Env struct {
	DB        string `env:"FRAMECTL_DB"`
	LogDiag   bool   `env:"FRAMECTL_LOG_DIAG" envDefault:"false"`
	OutputDir string `env:"FRAMECTL_OUTPUT_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv parses an Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	err := ParseEnv(&e)
	return e, err
}
