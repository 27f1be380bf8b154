package server

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// Header is the comment at the top of every generated Go file.
const Header = "Code generated by dsg. DO NOT EDIT."

// Generator renders the modules of the backend service.
type Generator struct {
	workers int
	module  string
}

// Option configures a Generator.
type Option func(*Generator)

// WithWorkers sets the number of entities rendered concurrently.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithModule sets the Go module path of the generated service. It defaults
// to the kebab-case application name.
func WithModule(path string) Option {
	return func(g *Generator) {
		g.module = strings.TrimSpace(path)
	}
}

// New returns a server Generator.
func New(opts ...Option) *Generator {
	g := &Generator{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ gen.ModuleGenerator = (*Generator)(nil)

// entityModules holds the modules of a single entity.
type entityModules struct {
	model gen.Module
	dto   gen.Module
}

// Generate implements gen.ModuleGenerator. Entities are rendered
// concurrently and the result is ordered by entity name.
func (g *Generator) Generate(ctx context.Context, gc *gen.Context) ([]gen.Module, error) {
	var (
		dirs   = gc.Directories().Server
		dtos   = gc.DTOs()
		module = g.modulePath(gc.AppInfo())
	)
	sdl, err := GraphQLSchema(dtos)
	if err != nil {
		return nil, fmt.Errorf("graphql schema: %w", err)
	}
	ddl, err := DDL(ctx, gc.Provider(), gc.Entities())
	if err != nil {
		return nil, fmt.Errorf("ddl: %w", err)
	}
	gqlgen, err := GQLGenConfig(module)
	if err != nil {
		return nil, fmt.Errorf("gqlgen config: %w", err)
	}

	perEntity := make([]entityModules, len(dtos))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, ed := range dtos {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pkg := PackageName(ed.Entity)
			model, err := render(genModel(ed.Entity))
			if err != nil {
				return fmt.Errorf("model %s: %w", ed.Entity.Name, err)
			}
			dto, err := render(genDTOs(ed))
			if err != nil {
				return fmt.Errorf("dto %s: %w", ed.Entity.Name, err)
			}
			perEntity[i] = entityModules{
				model: gen.Module{Path: filepath.Join(dirs.SrcDirectory, pkg, pkg+".go"), Code: model},
				dto:   gen.Module{Path: filepath.Join(dirs.SrcDirectory, "dto", pkg+".go"), Code: dto},
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	common, err := render(genCommonDTOs())
	if err != nil {
		return nil, fmt.Errorf("dto: %w", err)
	}
	roles, err := render(genRoles(gc.Roles()))
	if err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	entry, err := renderMain(module, gc.AppInfo())
	if err != nil {
		return nil, fmt.Errorf("main: %w", err)
	}
	modules := []gen.Module{
		{Path: filepath.Join(dirs.BaseDirectory, "go.mod"), Code: goMod(module)},
		{Path: filepath.Join(dirs.BaseDirectory, "gqlgen.yml"), Code: gqlgen},
		{Path: filepath.Join(dirs.SrcDirectory, "main.go"), Code: entry},
		{Path: filepath.Join(dirs.SrcDirectory, "schema.graphql"), Code: sdl},
		{Path: filepath.Join(dirs.SrcDirectory, "dto", "dto.go"), Code: common},
	}
	for _, m := range perEntity {
		modules = append(modules, m.model, m.dto)
	}
	return append(modules,
		gen.Module{Path: filepath.Join(dirs.ScriptsDirectory, "schema.sql"), Code: ddl},
		gen.Module{Path: filepath.Join(dirs.AuthDirectory, "roles.go"), Code: roles},
	), nil
}

// modulePath returns the Go module path of the generated service.
func (g *Generator) modulePath(app *schema.AppInfo) string {
	if g.module != "" {
		return g.module
	}
	if app != nil {
		if m := gen.Kebab(app.Name); m != "" {
			return m
		}
	}
	return "app"
}

// PackageName returns the Go package name of the entity model.
func PackageName(e *schema.Entity) string {
	name := strings.ToLower(gen.Identifier(e.Name))
	if token.IsKeyword(name) || name == "dto" || name == "main" {
		name += "model"
	}
	return name
}

func render(f *jen.File) (string, error) {
	var b bytes.Buffer
	if err := f.Render(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func goMod(module string) string {
	return "module " + module + "\n\ngo 1.24\n"
}
