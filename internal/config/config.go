package config

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Config struct {
	Registry RegistryConfig `toml:"registry"`
	Frame    FrameConfig    `toml:"frame"`
	Logging  LoggingConfig  `toml:"logging"`
	Reload   ReloadConfig   `toml:"reload"`
	Script   ScriptConfig   `toml:"script"`
}

type RegistryConfig struct {
	Capacity int `toml:"capacity"`
}

type FrameConfig struct {
	TickRate    time.Duration `toml:"tick_rate"`
	Frames      int           `toml:"frames"`       // 0 = run until interrupted
	ReloadEvery int           `toml:"reload_every"` // frames between reloads, 0 = never
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ReloadConfig struct {
	Store     string `toml:"store"` // "memory" or "redis"
	RedisAddr string `toml:"redis_addr"`
	KeyPrefix string `toml:"key_prefix"`
}

type ScriptConfig struct {
	Dir string `toml:"dir"`
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Registry: RegistryConfig{
			Capacity: 32,
		},
		Frame: FrameConfig{
			TickRate:    16 * time.Millisecond,
			Frames:      600,
			ReloadEvery: 120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Reload: ReloadConfig{
			Store:     "memory",
			RedisAddr: "localhost:6379",
			KeyPrefix: "hotreg",
		},
		Script: ScriptConfig{
			Dir: "scripts",
		},
	}
}

func (c *Config) Validate() error {
	if c.Registry.Capacity <= 0 {
		return eris.Errorf("registry capacity must be positive, got %d", c.Registry.Capacity)
	}
	if c.Frame.TickRate <= 0 {
		return eris.Errorf("frame tick_rate must be positive, got %s", c.Frame.TickRate)
	}
	switch c.Reload.Store {
	case "memory", "redis":
	default:
		return eris.Errorf("unknown reload store %q", c.Reload.Store)
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return eris.Wrap(err, "logging level")
	}
	return nil
}

// NewLogger builds the process logger described by the logging section.
func (l LoggingConfig) NewLogger(out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.Nop(), eris.Wrap(err, "logging level")
	}
	if l.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
