// Package dsg generates the source of a data service from a resource
// document.
//
// The heavy lifting happens in compiler/gen; this package wires the default
// collaborators: the Go server renderer, the admin client renderer and the
// built-in database plugins.
//
//	modules, err := dsg.GenerateFile(ctx, "shop.yaml")
//	if err != nil {
//		return err
//	}
//	for _, m := range modules {
//		fmt.Println(m.Path)
//	}
package dsg

import (
	"context"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/compiler/gen/admin"
	"github.com/syssam/dsg/compiler/gen/server"
	"github.com/syssam/dsg/compiler/load"
	"github.com/syssam/dsg/contrib/dbprovider"
	"github.com/syssam/dsg/schema"
)

// DefaultPluginRegistry returns a registry holding the built-in plugins.
func DefaultPluginRegistry() *gen.PluginRegistry {
	r := gen.NewPluginRegistry()
	if err := dbprovider.Register(r); err != nil {
		panic(err)
	}
	return r
}

// NewGenerator returns a generator with the default renderers and plugins.
// The given options are applied after the defaults and override them.
func NewGenerator(opts ...gen.Option) (*gen.Generator, error) {
	defaults := []gen.Option{
		gen.WithServerGenerator(server.New()),
		gen.WithAdminGenerator(admin.New()),
		gen.WithPluginRegistry(DefaultPluginRegistry()),
	}
	return gen.NewGenerator(append(defaults, opts...)...)
}

// Generate renders the modules of the resource.
func Generate(ctx context.Context, r *schema.Resource, opts ...gen.Option) ([]gen.Module, error) {
	g, err := NewGenerator(opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, r)
}

// GenerateFile loads the resource document at path and renders its modules.
func GenerateFile(ctx context.Context, path string, opts ...gen.Option) ([]gen.Module, error) {
	r, err := load.Load(path)
	if err != nil {
		return nil, err
	}
	return Generate(ctx, r, opts...)
}

// Validate runs the checks of a generation without rendering any module:
// the input is checked, the plugins are loaded, the lookups are resolved
// and the DTOs are derived.
func Validate(ctx context.Context, r *schema.Resource, opts ...gen.Option) error {
	g, err := NewGenerator(opts...)
	if err != nil {
		return err
	}
	gc, err := g.Prepare(ctx, r)
	if err != nil {
		return err
	}
	if _, err := gen.SynthesizeDTOs(ctx, gc.Entities()); err != nil {
		return gen.NewGenerationError("dto", "", "synthesize DTOs", err)
	}
	return nil
}

// ValidateFiles validates every document and reports all failures at once.
func ValidateFiles(ctx context.Context, paths []string, opts ...gen.Option) error {
	errs := make([]error, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := load.Load(path)
		if err == nil {
			err = Validate(ctx, r, opts...)
		}
		if err != nil {
			errs = append(errs, &FileError{Path: path, Err: err})
		}
	}
	return NewAggregateError(errs...)
}
