// Package config loads ptree settings from flags, environment and an
// optional YAML file
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nainya/proptree/internal/logger"
)

// EnvPrefix is prepended to every environment override, e.g. PTREE_LOG_LEVEL
const EnvPrefix = "PTREE"

// Keys understood by Load
const (
	KeyLogLevel      = "log-level"
	KeyLogPretty     = "log-pretty"
	KeyOutput        = "output"
	KeyServeAddr     = "serve.addr"
	KeyServeUptime   = "serve.uptime-interval"
	KeyServeShutdown = "serve.shutdown-timeout"
)

// Output formats accepted by --output
var Outputs = []string{"text", "json", "yaml"}

// ErrInvalidOutput is returned for an unknown output format
var ErrInvalidOutput = errors.New("config: invalid output format")

// Config is the resolved CLI configuration
type Config struct {
	LogLevel  string      `mapstructure:"log-level"`
	LogPretty bool        `mapstructure:"log-pretty"`
	Output    string      `mapstructure:"output"`
	Serve     ServeConfig `mapstructure:"serve"`
}

// ServeConfig holds settings for `ptree serve`
type ServeConfig struct {
	Addr            string        `mapstructure:"addr"`
	UptimeInterval  time.Duration `mapstructure:"uptime-interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// New returns a viper instance with defaults and environment binding in place
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "disabled")
	v.SetDefault(KeyLogPretty, true)
	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyServeAddr, ":9090")
	v.SetDefault(KeyServeUptime, 15*time.Second)
	v.SetDefault(KeyServeShutdown, 5*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds the global persistent flags to v
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range []string{KeyLogLevel, KeyLogPretty, KeyOutput} {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", key, err)
		}
	}
	return nil
}

// ReadFile loads a .env file if present, then the config file. With an empty
// path it searches for .ptree.yaml in the working and home directories and a
// missing file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	_ = godotenv.Load()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".ptree")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load resolves v into a Config
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	for _, o := range Outputs {
		if c.Output == o {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidOutput, c.Output, strings.Join(Outputs, ", "))
}

// LoggerConfig maps the settings onto the logger package
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.LogLevel,
		Pretty: c.LogPretty,
		Output: os.Stderr,
	}
}
