package gen

import (
	"context"
	"fmt"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/dsg/schema"
)

// Module is a single generated file.
type Module struct {
	// Path is relative to the output root. Modules returned by the
	// Generator always use forward slashes.
	Path string `json:"path" msgpack:"path"`
	Code string `json:"code" msgpack:"code"`
}

// ModuleGenerator renders a set of modules from a frozen context.
type ModuleGenerator interface {
	Generate(ctx context.Context, gc *Context) ([]Module, error)
}

// The ModuleGeneratorFunc type is an adapter to allow the use of ordinary
// functions as ModuleGenerator.
type ModuleGeneratorFunc func(context.Context, *Context) ([]Module, error)

// Generate calls f(ctx, gc).
func (f ModuleGeneratorFunc) Generate(ctx context.Context, gc *Context) ([]Module, error) {
	return f(ctx, gc)
}

// Generator runs the generation pipeline.
type Generator struct {
	logger  Logger
	plugins *PluginRegistry
	server  ModuleGenerator
	admin   ModuleGenerator
	dtos    DTOSynthesizer
	workers int
}

// NewGenerator creates a Generator with the given options. A server
// generator is required.
//
// Example:
//
//	g, err := gen.NewGenerator(
//		gen.WithServerGenerator(server.New()),
//		gen.WithAdminGenerator(admin.New()),
//	)
//	modules, err := g.Generate(ctx, resource)
func NewGenerator(opts ...Option) (*Generator, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	if c.Server == nil {
		return nil, NewConfigError("Server", nil, "no server generator set: use WithServerGenerator")
	}
	return &Generator{
		logger:  c.Logger,
		plugins: c.Plugins,
		server:  c.Server,
		admin:   c.Admin,
		dtos:    c.DTOs,
		workers: c.Workers,
	}, nil
}

// Generate runs the whole pipeline for the resource with a new Generator.
func Generate(ctx context.Context, resource *schema.Resource, opts ...Option) ([]Module, error) {
	g, err := NewGenerator(opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, resource)
}

// Generate checks the resource, loads its plugins, normalizes and resolves
// its entities, populates a new Context and emits the modules.
func (g *Generator) Generate(ctx context.Context, resource *schema.Resource) ([]Module, error) {
	gc, err := g.Prepare(ctx, resource)
	if err != nil {
		return nil, err
	}
	return g.Emit(ctx, gc)
}

// CheckInput reports an InputError if the resource lacks the entities, the
// roles or the application info, or if one of the listed entities, fields
// or roles is null. Empty lists are valid input.
func CheckInput(resource *schema.Resource) error {
	switch {
	case resource == nil:
		return NewInputError("resource")
	case resource.Entities == nil:
		return NewInputError("entities")
	case resource.Roles == nil:
		return NewInputError("roles")
	case resource.ResourceInfo == nil:
		return NewInputError("resourceInfo")
	}
	for i, e := range resource.Entities {
		if e == nil {
			return NewInputError(fmt.Sprintf("entities[%d]", i))
		}
		for j, f := range e.Fields {
			if f == nil {
				return NewInputError(fmt.Sprintf("fields[%d] of entity %s", j, e.Name))
			}
		}
	}
	for i, r := range resource.Roles {
		if r == nil {
			return NewInputError(fmt.Sprintf("roles[%d]", i))
		}
	}
	return nil
}

// Prepare loads the plugins of the resource and returns a context populated
// up to the plugins stage.
func (g *Generator) Prepare(ctx context.Context, resource *schema.Resource) (*Context, error) {
	if err := CheckInput(resource); err != nil {
		return nil, err
	}
	g.logger.Info("Creating application...", "name", resource.ResourceInfo.Name)
	plugins, err := g.plugins.Load(ctx, resource.Plugins)
	if err != nil {
		return nil, err
	}
	if len(plugins) > 0 {
		g.logger.Info("Loaded plugins", "count", len(plugins))
	}
	normalized, _ := Normalize(resource.Entities)
	entities, err := ResolveLookupFields(normalized, plugins)
	if err != nil {
		return nil, err
	}
	user := findEntity(entities, UserEntityName)
	gc := NewContext()
	for _, step := range []func() error{
		func() error { return gc.SetAppInfo(resource.ResourceInfo) },
		func() error { return gc.SetRoles(resource.Roles) },
		func() error { return gc.SetEntities(entities, user) },
		func() error { return gc.AttachPlugins(plugins) },
	} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return gc, nil
}

// Emit synthesizes the DTOs, freezes the context and runs the server and
// admin generators in parallel. The modules are returned only if every
// task succeeds: server modules first, then admin modules, with normalized
// paths.
func (g *Generator) Emit(ctx context.Context, gc *Context) ([]Module, error) {
	timer := g.logger.StartTimer()
	dtos, err := g.dtos.Synthesize(ctx, gc.Entities())
	if err != nil {
		return nil, NewGenerationError("dto", "", "synthesize DTOs", err)
	}
	if err := gc.AttachDTOs(dtos); err != nil {
		return nil, err
	}
	if err := gc.AttachDirectories(NewDirectories(gc.AppInfo())); err != nil {
		return nil, err
	}
	if err := gc.Freeze(); err != nil {
		return nil, err
	}
	withAdmin := gc.GenerateAdminUI()
	if withAdmin && g.admin == nil {
		return nil, NewConfigError("Admin", nil, "admin UI is enabled but no admin generator is set")
	}

	var serverModules, adminModules []Module
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		g.logger.Info("Creating server...")
		modules, err := g.serverModules(ctx, gc)
		if err != nil {
			return NewGenerationError("server", "", "", err)
		}
		serverModules = modules
		return nil
	})
	if withAdmin {
		eg.Go(func() error {
			g.logger.Info("Creating admin UI...")
			modules, err := g.admin.Generate(ctx, gc)
			if err != nil {
				return NewGenerationError("admin", "", "", err)
			}
			adminModules = modules
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		g.logger.Error("Generation failed", "err", err)
		return nil, err
	}

	modules, err := collect(serverModules, adminModules)
	if err != nil {
		return nil, err
	}
	timer.Done("Application creation time", "modules", len(modules))
	return modules, nil
}

// serverModules runs the server generator and the contributing plugins.
func (g *Generator) serverModules(ctx context.Context, gc *Context) ([]Module, error) {
	modules, err := g.server.Generate(ctx, gc)
	if err != nil {
		return nil, err
	}
	for _, p := range gc.Plugins() {
		c, ok := p.(ServerModuleContributor)
		if !ok {
			continue
		}
		extra, err := c.ServerModules(ctx, gc)
		if err != nil {
			return nil, NewPluginError(p.Name(), "contribute server modules", err)
		}
		modules = append(modules, extra...)
	}
	return modules, nil
}

// collect concatenates the module groups in order, normalizes their paths
// and rejects duplicates.
func collect(groups ...[]Module) ([]Module, error) {
	var n int
	for _, g := range groups {
		n += len(g)
	}
	var (
		modules = make([]Module, 0, n)
		seen    = make(map[string]struct{}, n)
	)
	for _, group := range groups {
		for _, m := range group {
			p := NormalizePath(m.Path)
			if p == "" || p == "." {
				return nil, NewGenerationError("collect", m.Path, "empty module path", nil)
			}
			if _, ok := seen[p]; ok {
				return nil, NewGenerationError("collect", p, "duplicate module path", nil)
			}
			seen[p] = struct{}{}
			modules = append(modules, Module{Path: p, Code: m.Code})
		}
	}
	return modules, nil
}

// NormalizePath converts p to a clean forward-slash path without a leading "./".
func NormalizePath(p string) string {
	if p == "" {
		return ""
	}
	p = path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return strings.TrimPrefix(p, "./")
}

func findEntity(entities []*schema.Entity, name string) *schema.Entity {
	for _, e := range entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}
