// Package config loads the settings of the dsg command.
//
// Settings come from, in increasing precedence: the defaults, the config
// file (dsg.yaml by default) and DSG_ environment variables. Command flags
// are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// DefaultFile is the config file read when none is given.
const DefaultFile = "dsg.yaml"

// Environment variable prefix for dsg configuration.
const envPrefix = "DSG"

// Config holds the settings of the dsg command.
type Config struct {
	// Output is the directory the modules are written to.
	Output string `mapstructure:"output"`
	// Workers bounds the parallelism of the module writer; 0 uses GOMAXPROCS.
	Workers int `mapstructure:"workers"`
	// Format runs goimports on generated Go modules before writing them.
	Format bool `mapstructure:"format"`
	// Module is the Go module path of the generated server.
	Module string `mapstructure:"module"`
	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`

	Preview PreviewConfig `mapstructure:"preview"`
	Verify  VerifyConfig  `mapstructure:"verify"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	Addr string `mapstructure:"addr"`
}

// VerifyConfig configures the schema verification.
type VerifyConfig struct {
	// DSN overrides the connection string of the database. The in-memory
	// SQLite database is used when empty.
	DSN string `mapstructure:"dsn"`
}

var defaults = map[string]any{
	"output":       "generated",
	"workers":      0,
	"format":       true,
	"module":       "",
	"verbose":      false,
	"preview.addr": "localhost:4000",
	"verify.dsn":   "",
}

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return &Loader{v: v}
}

// Viper returns the underlying viper instance, for binding command flags.
func (l *Loader) Viper() *viper.Viper { return l.v }

// Load loads configuration from the given file path. If configFile is
// empty, DefaultFile is used. A missing file is not an error.
// Environment variables take precedence over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = DefaultFile
	}
	l.v.SetConfigFile(configFile)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded settings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("config: output directory cannot be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	return nil
}
