package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBaseConfigApplyDefaults(t *testing.T) {
	t.Run("logging defaults applied", func(t *testing.T) {
		cfg := BaseConfig{Name: "trainer"}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "info" {
			t.Errorf("expected level 'info', got %q", cfg.Logging.Level)
		}
		if cfg.Logging.Format != "console" {
			t.Errorf("expected format 'console', got %q", cfg.Logging.Format)
		}
	})

	t.Run("debug raises log level", func(t *testing.T) {
		cfg := BaseConfig{Name: "trainer", Debug: true}
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected level 'debug', got %q", cfg.Logging.Level)
		}
	})

	t.Run("explicit level kept", func(t *testing.T) {
		cfg := BaseConfig{Name: "trainer", Debug: true}
		cfg.Logging.Level = "warn"
		cfg.ApplyDefaults()
		if cfg.Logging.Level != "warn" {
			t.Errorf("expected level 'warn', got %q", cfg.Logging.Level)
		}
	})
}

func TestBaseConfigValidate(t *testing.T) {
	valid := BaseConfig{Name: "trainer"}
	valid.ApplyDefaults()
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	missing := BaseConfig{}
	missing.ApplyDefaults()
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing name")
	} else if !strings.Contains(err.Error(), "config.name") {
		t.Errorf("expected error naming config.name, got %q", err.Error())
	}

	badLevel := BaseConfig{Name: "trainer"}
	badLevel.Logging.Level = "verbose"
	badLevel.Logging.Format = "console"
	if err := badLevel.Validate(); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
name: mnist-trainer
data_dir: /data/mnist
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	type trainerConfig struct {
		BaseConfig `yaml:",inline" mapstructure:",squash"`
		DataDir    string `yaml:"data_dir" mapstructure:"data_dir"`
	}

	var cfg trainerConfig
	err := LoadConfig("mnist-trainer", &cfg, WithConfigFile(configPath))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "mnist-trainer" {
		t.Errorf("expected name 'mnist-trainer', got %q", cfg.Name)
	}
	if cfg.DataDir != "/data/mnist" {
		t.Errorf("expected data_dir '/data/mnist', got %q", cfg.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging level 'debug', got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	type trainerConfig struct {
		BaseConfig `yaml:",inline" mapstructure:",squash"`
	}

	var cfg trainerConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-trainer", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestConfigResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/trainer/config.yml": true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("trainer", LoaderConfig{})
	if files.ConfigFile != "./cmd/trainer/config.yml" {
		t.Errorf("expected config file at ./cmd/trainer/config.yml, got %q", files.ConfigFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestWithFileSystemOption(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
}

func TestWithConfigFileOption(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
}

func TestWithEnvFileOption(t *testing.T) {
	var lc LoaderConfig
	WithEnvFile("/path/to/.env")(&lc)
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}
