package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Clock sources.
const (
	ClockMonotonic = "monotonic"
	ClockRedis     = "redis"
	ClockFixed     = "fixed"
)

// Config holds application configuration.
type Config struct {
	FPS   float64     `mapstructure:"fps"`
	Log   LogConfig   `mapstructure:"log"`
	Clock ClockConfig `mapstructure:"clock"`
	Redis RedisConfig `mapstructure:"redis"`
	HTTP  HTTPConfig  `mapstructure:"http"`
}

// LogConfig selects the logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClockConfig selects where time comes from.
type ClockConfig struct {
	Source string `mapstructure:"source"`
	// Step is the seconds added per frame by the fixed clock.
	Step float64 `mapstructure:"step"`
}

// RedisConfig holds the shared clock server.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPConfig holds the status API listener.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// New returns a viper instance with defaults, the config file location and
// env overrides set up. Env var overrides use prefix COROUTINES_.
// Callers may bind flags on it before calling Decode.
func New() *viper.Viper {
	v := viper.New()

	// default values
	v.SetDefault("fps", 60.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("clock.source", ClockMonotonic)
	v.SetDefault("clock.step", 1.0/60)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("http.addr", ":8080")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("COROUTINES_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "coroutines"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("COROUTINES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Decode reads the config file if there is one and unmarshals v.
// A missing default config file is not an error; a missing explicit one is.
func Decode(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads configuration from file and env.
func Load() (Config, error) {
	return Decode(New())
}

// Validate rejects values the runtime cannot use.
func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	switch c.Clock.Source {
	case ClockMonotonic, ClockRedis:
	case ClockFixed:
		if c.Clock.Step <= 0 {
			return fmt.Errorf("clock.step must be positive, got %v", c.Clock.Step)
		}
	default:
		return fmt.Errorf("unknown clock.source %q", c.Clock.Source)
	}
	return nil
}
