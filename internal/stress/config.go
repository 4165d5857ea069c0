// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stress

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the environment variable prefix read by LoadConfig callers.
const EnvPrefix = "MSQ"

// Config describes one stress workload.
type Config struct {
	Producers        int           `envconfig:"PRODUCERS" default:"4"`
	Consumers        int           `envconfig:"CONSUMERS" default:"4"`
	ItemsPerProducer int           `envconfig:"ITEMS_PER_PRODUCER" default:"10000"`
	Rounds           int           `envconfig:"ROUNDS" default:"1"`
	Timeout          time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// LoadConfig reads Config from environment variables with the given prefix,
// for example MSQ_PRODUCERS, and validates it.
func LoadConfig(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("stress: load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Total returns the number of values produced per round.
func (c Config) Total() int {
	return c.Producers * c.ItemsPerProducer
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.Producers < 1 {
		errs = append(errs, fmt.Errorf("producers must be >= 1, got %d", c.Producers))
	}
	if c.Consumers < 1 {
		errs = append(errs, fmt.Errorf("consumers must be >= 1, got %d", c.Consumers))
	}
	if c.ItemsPerProducer < 1 {
		errs = append(errs, fmt.Errorf("items per producer must be >= 1, got %d", c.ItemsPerProducer))
	}
	if c.Rounds < 1 {
		errs = append(errs, fmt.Errorf("rounds must be >= 1, got %d", c.Rounds))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be > 0, got %s", c.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("stress: invalid config: %w", errors.Join(errs...))
	}
	return nil
}
