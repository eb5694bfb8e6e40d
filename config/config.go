// Package config loads the runtime configuration from YAML.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Audio  AudioConfig  `yaml:"audio"`
	Music  MusicConfig  `yaml:"music"`
	Tracks TracksConfig `yaml:"tracks"`
	Level  LevelConfig  `yaml:"level"`
	Game   GameConfig   `yaml:"game"`
	Log    LogConfig    `yaml:"log"`
}

// AudioConfig configures the output device.
type AudioConfig struct {
	SampleRate int `yaml:"sample_rate" default:"44100" validate:"oneof=22050 44100 48000"`
	// NoClock schedules parts on frame time only, without the sample clock.
	NoClock bool `yaml:"no_clock"`
}

// MusicConfig tunes the scheduler.
type MusicConfig struct {
	LookAhead time.Duration `yaml:"look_ahead" default:"500ms" validate:"gte=50ms,lte=5s"`
	Seed      uint64        `yaml:"seed"` // 0 seeds from the clock
}

// TracksConfig locates the track catalog.
type TracksConfig struct {
	Dir     string   `yaml:"dir" default:"tracks"`
	Watch   bool     `yaml:"watch"`
	Preload []string `yaml:"preload"`
}

// LevelConfig selects the level to load.
type LevelConfig struct {
	Name string `yaml:"name" default:"arena" validate:"required"`
}

// GameConfig tunes the demo.
type GameConfig struct {
	TPS         int     `yaml:"tps" default:"60" validate:"gte=10,lte=240"`
	PlayerSpeed float64 `yaml:"player_speed" default:"3" validate:"gt=0"`
	AttackRange float64 `yaml:"attack_range" default:"48" validate:"gt=0"`
}

// LogConfig represents logger configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stdout" validate:"oneof=stdout stderr file"`
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn warning error disabled off"`
	File   string `yaml:"file" validate:"required_if=Output file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	cfg.overrideFromEnv()
	if err := defaults.Set(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse decodes, defaults and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

// LoadOrDefault loads path when it is set and falls back to Default.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("DYNMUSIC_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("DYNMUSIC_TRACKS_DIR"); v != "" {
		c.Tracks.Dir = v
	}
	if v := os.Getenv("DYNMUSIC_LEVEL"); v != "" {
		c.Level.Name = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
