package training

import (
	"path/filepath"

	"github.com/kbukum/datakit/config"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/validation"
)

// Config describes where training data lives and how it is assembled
// into a stream. It is loaded from config files and environment
// variables like any other application config.
type Config struct {
	config.BaseConfig `yaml:",inline" mapstructure:",squash"`

	// DataDir is the directory holding one record file (or shard
	// directory) per dataset.
	DataDir string `yaml:"data_dir" mapstructure:"data_dir" validate:"required"`
	// Datasets names the record files to mix, without the .rec suffix.
	Datasets []string `yaml:"datasets" mapstructure:"datasets" validate:"min=1,dive,required"`
	// FeatureKey and LabelKey pick the two fields each training pair is
	// built from.
	FeatureKey string `yaml:"feature_key" mapstructure:"feature_key" validate:"required"`
	LabelKey   string `yaml:"label_key" mapstructure:"label_key" validate:"required"`
	// BatchSize is the training batch size.
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size" validate:"min=1"`
	// ShuffleBuffer bounds the shuffle reservoir; zero disables
	// shuffling.
	ShuffleBuffer int `yaml:"shuffle_buffer" mapstructure:"shuffle_buffer" validate:"min=0"`
	// Seed fixes the shuffle order when non-zero.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
	// EvalTake caps how many records a held-out evaluation set loads;
	// zero loads everything.
	EvalTake int `yaml:"eval_take" mapstructure:"eval_take" validate:"min=0"`
}

// ApplyDefaults fills in defaults for optional fields.
func (c *Config) ApplyDefaults() {
	c.BaseConfig.ApplyDefaults()
	if c.BatchSize == 0 {
		c.BatchSize = 32
	}
	if c.FeatureKey == "" {
		c.FeatureKey = "feature"
	}
	if c.LabelKey == "" {
		c.LabelKey = "label"
	}
}

// Validate checks the base fields, then the struct tags.
func (c *Config) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return errors.Configuration("%s", err.Error())
	}
	return validation.Validate(c)
}

// Load reads the training config for the named application from config
// files and the environment. The application name doubles as the config
// name when the file sets none.
func Load(appName string, opts ...config.LoaderOption) (*Config, error) {
	var cfg Config
	if err := config.LoadConfig(appName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = appName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// datasetPath locates one named dataset under DataDir.
func (c *Config) datasetPath(name string) string {
	return filepath.Join(c.DataDir, name+".rec")
}
