package config

import (
	"os"
	"path/filepath"

	"github.com/minicodemonkey/chime/internal/paths"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSampleRate is used when neither the score nor the config set one.
	DefaultSampleRate = 48000
)

// Config holds user-level settings for chime.
type Config struct {
	Render RenderConfig `yaml:"render"`
	Watch  WatchConfig  `yaml:"watch"`
}

// RenderConfig holds the defaults applied to scores that don't set them.
type RenderConfig struct {
	SampleRate int     `yaml:"sampleRate"`
	Silence    float64 `yaml:"silence"`
	OutputDir  string  `yaml:"outputDir"`
}

// WatchConfig holds settings for chime watch.
type WatchConfig struct {
	Sound bool `yaml:"sound"` // play a chime after each successful render
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			SampleRate: DefaultSampleRate,
		},
		Watch: WatchConfig{
			Sound: true,
		},
	}
}

// Exists checks if the config file exists.
func Exists() bool {
	_, err := os.Stat(paths.ConfigPath())
	return err == nil
}

// Load reads the config from ~/.chime/config.yaml.
// Returns Default() when the file doesn't exist (no error). Fields missing
// from the file keep their default values.
func Load() (*Config, error) {
	data, err := os.ReadFile(paths.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Render.SampleRate <= 0 {
		cfg.Render.SampleRate = DefaultSampleRate
	}

	return cfg, nil
}

// Save writes the config to ~/.chime/config.yaml.
func Save(cfg *Config) error {
	path := paths.ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
