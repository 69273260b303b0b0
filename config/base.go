package config

import (
	"fmt"

	"github.com/kbukum/datakit/logger"
)

// BaseConfig carries the fields every datakit application config needs.
// Application configs embed it so the name, debug flag, and logging
// section load, default, and validate uniformly.
//
// Example:
//
//	type Config struct {
//	    config.BaseConfig `yaml:",inline" mapstructure:",squash"`
//	    DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
//	}
type BaseConfig struct {
	Name    string        `yaml:"name" mapstructure:"name"`
	Debug   bool          `yaml:"debug" mapstructure:"debug"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills in defaults for the base fields. Embedding structs
// override this and call c.BaseConfig.ApplyDefaults() first.
func (c *BaseConfig) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate validates the base fields. Embedding structs override this and
// call c.BaseConfig.Validate() first.
func (c *BaseConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
