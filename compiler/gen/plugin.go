package gen

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/syssam/dsg/schema"
)

// Plugin is an extension loaded for a generation run. Plugins declare what
// they can do by implementing the capability interfaces below; the engine
// detects them by type assertion.
type Plugin interface {
	// Name returns the package name the plugin was registered under.
	Name() string
}

// PluginFactory creates a plugin from its installation settings.
type PluginFactory func(ctx context.Context, settings json.RawMessage) (Plugin, error)

// FieldTypeRejecter is implemented by plugins that cannot support some data
// types. RejectFieldType returns the reason and true for a rejected type.
type FieldTypeRejecter interface {
	RejectFieldType(t schema.DataType) (reason string, rejected bool)
}

// DatabaseProvider is implemented by plugins that pick the database of the
// generated service.
type DatabaseProvider interface {
	DatabaseProvider() Provider
}

// ServerModuleContributor is implemented by plugins that add modules to the
// generated server. It runs inside the server branch of the fan-out.
type ServerModuleContributor interface {
	ServerModules(ctx context.Context, gc *Context) ([]Module, error)
}

// Provider is a database provider of the generated service.
type Provider string

// Database providers.
const (
	ProviderPostgres Provider = "postgres"
	ProviderMySQL    Provider = "mysql"
	ProviderSQLite   Provider = "sqlite"
)

// String returns the provider name.
func (p Provider) String() string { return string(p) }

// Capability names reported by Capabilities.
const (
	CapabilityFieldTypeRejecter       = "FieldTypeRejecter"
	CapabilityDatabaseProvider        = "DatabaseProvider"
	CapabilityServerModuleContributor = "ServerModuleContributor"
)

// Capabilities returns the names of the capability interfaces p implements.
func Capabilities(p Plugin) []string {
	var caps []string
	if _, ok := p.(FieldTypeRejecter); ok {
		caps = append(caps, CapabilityFieldTypeRejecter)
	}
	if _, ok := p.(DatabaseProvider); ok {
		caps = append(caps, CapabilityDatabaseProvider)
	}
	if _, ok := p.(ServerModuleContributor); ok {
		caps = append(caps, CapabilityServerModuleContributor)
	}
	return caps
}

// FindDatabaseProvider returns the provider of the first plugin in the list
// that implements DatabaseProvider.
func FindDatabaseProvider(plugins []Plugin) (Provider, bool) {
	for _, p := range plugins {
		if dp, ok := p.(DatabaseProvider); ok {
			return dp.DatabaseProvider(), true
		}
	}
	return "", false
}

// PluginRegistry maps plugin package names to their factories.
type PluginRegistry struct {
	mu        sync.RWMutex
	factories map[string]PluginFactory
}

// NewPluginRegistry returns an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{factories: make(map[string]PluginFactory)}
}

// Register adds a factory for the given package name.
func (r *PluginRegistry) Register(name string, f PluginFactory) error {
	if name == "" {
		return NewConfigError("PluginName", nil, "plugin name cannot be empty")
	}
	if f == nil {
		return NewConfigError("PluginFactory", name, "factory cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return NewConfigError("PluginName", name, "plugin already registered")
	}
	r.factories[name] = f
	return nil
}

// MustRegister is like Register but panics on error.
func (r *PluginRegistry) MustRegister(name string, f PluginFactory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Names returns the registered package names in sorted order.
func (r *PluginRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load creates the plugins of the enabled installations, in declared order.
// Disabled installations are skipped. Any failure aborts the load and no
// plugin is returned.
func (r *PluginRegistry) Load(ctx context.Context, installations []*schema.PluginInstallation) ([]Plugin, error) {
	var plugins []Plugin
	for _, inst := range installations {
		if inst == nil || !inst.Enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, NewPluginError(inst.NPM, "load canceled", err)
		}
		r.mu.RLock()
		f, ok := r.factories[inst.NPM]
		r.mu.RUnlock()
		if !ok {
			return nil, NewPluginError(inst.NPM, "no plugin registered for package", nil)
		}
		p, err := f(ctx, inst.Settings)
		if err != nil {
			return nil, NewPluginError(inst.NPM, "create plugin", err)
		}
		if p == nil {
			return nil, NewPluginError(inst.NPM, "factory returned no plugin", nil)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}
