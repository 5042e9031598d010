// SPDX-License-Identifier: MIT

// Package config loads meshlytics runtime configuration with viper.
// Values come from the config file (.meshlytics.yaml by default), from
// MESHLYTICS_* environment variables and from CLI flags bound by the
// caller; defaults fill everything else.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/topology"
)

// EnvPrefix is the environment variable prefix, e.g. MESHLYTICS_SERVE_ADDR.
const EnvPrefix = "MESHLYTICS"

// ErrInvalid indicates a configuration value that fails Validate.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all runtime configuration.
type Config struct {
	Diffusion DiffusionConfig    `mapstructure:"diffusion"`
	Params    map[string]float64 `mapstructure:"params"`
	Snapshot  SnapshotConfig     `mapstructure:"snapshot"`
	Spectrum  SpectrumConfig     `mapstructure:"spectrum"`
	Serve     ServeConfig        `mapstructure:"serve"`
	Metrics   MetricsConfig      `mapstructure:"metrics"`
	Log       LogConfig          `mapstructure:"log"`
}

// DiffusionConfig holds engine settings.
type DiffusionConfig struct {
	Depth int `mapstructure:"depth"`
}

// SnapshotConfig locates the topology document.
type SnapshotConfig struct {
	Path  string `mapstructure:"path"`
	Watch bool   `mapstructure:"watch"`
}

// SpectrumConfig tunes eigenvalue computation.
type SpectrumConfig struct {
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// MetricsConfig toggles Prometheus collectors.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("diffusion.depth", centrality.DefaultDepth)
	v.SetDefault("params", map[string]float64{})
	v.SetDefault("snapshot.path", "")
	v.SetDefault("snapshot.watch", false)
	v.SetDefault("spectrum.tolerance", topology.DefaultSpectrumTolerance)
	v.SetDefault("spectrum.max_iterations", topology.DefaultSpectrumMaxIterations)
	v.SetDefault("serve.addr", ":8088")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Init points v at the config file and the environment.
// An empty file searches .meshlytics.yaml in the working and home
// directories. A missing default file is not an error; an explicitly
// named file that cannot be read is.
func Init(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(".meshlytics")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: read: %w", err)
	}

	return nil
}

// Load applies defaults and unmarshals v into a validated Config.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	if err := c.Parameters().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Spectrum.Tolerance <= 0 {
		return fmt.Errorf("%w: spectrum.tolerance must be > 0, got %v", ErrInvalid, c.Spectrum.Tolerance)
	}
	if c.Spectrum.MaxIterations < 1 {
		return fmt.Errorf("%w: spectrum.max_iterations must be >= 1, got %d", ErrInvalid, c.Spectrum.MaxIterations)
	}
	if strings.TrimSpace(c.Serve.Addr) == "" {
		return fmt.Errorf("%w: serve.addr is empty", ErrInvalid)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text|json)", ErrInvalid, c.Log.Format)
	}

	return nil
}

// Parameters merges diffusion.depth and the params table; an explicit
// params.T wins over diffusion.depth.
func (c Config) Parameters() centrality.Parameters {
	p := centrality.Parameters{centrality.ParamDepth: float64(c.Diffusion.Depth)}
	for k, v := range c.Params {
		p[k] = v
	}

	return p
}

// SpectrumOptions converts the spectrum section.
func (c Config) SpectrumOptions() topology.SpectrumOptions {
	return topology.SpectrumOptions{
		Tolerance:     c.Spectrum.Tolerance,
		MaxIterations: c.Spectrum.MaxIterations,
	}
}

// SlogLevel maps debug|info|warn|error to a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log.level %q (want debug|info|warn|error)", ErrInvalid, l.Level)
	}
}
