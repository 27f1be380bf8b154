package gen

import (
	"errors"
	"runtime"
)

// Config holds the collaborators of a Generator.
type Config struct {
	// Logger receives progress messages. Defaults to NopLogger.
	Logger Logger
	// Plugins creates the plugins declared by the resource.
	// Defaults to an empty registry.
	Plugins *PluginRegistry
	// Server renders the server modules. Required.
	Server ModuleGenerator
	// Admin renders the admin client modules. Required when the resource
	// enables the admin UI.
	Admin ModuleGenerator
	// DTOs derives the DTOs. Defaults to DefaultDTOSynthesizer.
	DTOs DTOSynthesizer
	// Workers bounds the parallelism of the module writer.
	// Defaults to GOMAXPROCS.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// WithLogger sets the logger of the run.
func WithLogger(l Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithPluginRegistry sets the registry used to load the declared plugins.
func WithPluginRegistry(r *PluginRegistry) Option {
	return func(c *Config) error {
		if r == nil {
			return NewConfigError("Plugins", nil, "plugin registry cannot be nil")
		}
		c.Plugins = r
		return nil
	}
}

// WithServerGenerator sets the server renderer.
func WithServerGenerator(g ModuleGenerator) Option {
	return func(c *Config) error {
		if g == nil {
			return NewConfigError("Server", nil, "server generator cannot be nil")
		}
		c.Server = g
		return nil
	}
}

// WithAdminGenerator sets the admin client renderer.
func WithAdminGenerator(g ModuleGenerator) Option {
	return func(c *Config) error {
		if g == nil {
			return NewConfigError("Admin", nil, "admin generator cannot be nil")
		}
		c.Admin = g
		return nil
	}
}

// WithDTOSynthesizer sets the DTO synthesizer.
func WithDTOSynthesizer(s DTOSynthesizer) Option {
	return func(c *Config) error {
		if s == nil {
			return NewConfigError("DTOs", nil, "DTO synthesizer cannot be nil")
		}
		c.DTOs = s
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options and fills in the
// defaults of unset collaborators. Every failing option is reported.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	if c.Logger == nil {
		c.Logger = NopLogger{}
	}
	if c.Plugins == nil {
		c.Plugins = NewPluginRegistry()
	}
	if c.DTOs == nil {
		c.DTOs = DefaultDTOSynthesizer
	}
	if c.Workers == 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	return c, nil
}
