package admin

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"text/template"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// Header is the comment at the top of every generated source file.
const Header = "Code generated by dsg. DO NOT EDIT."

var (
	//go:embed templates/*
	templateDir embed.FS

	funcs     = template.FuncMap{"json": toJSON}
	templates = template.Must(template.New("admin").Funcs(funcs).ParseFS(templateDir, "templates/*.tmpl"))
)

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

// Generator renders the modules of the admin client.
type Generator struct{}

// New returns an admin Generator.
func New() *Generator { return &Generator{} }

var _ gen.ModuleGenerator = (*Generator)(nil)

type (
	appData struct {
		Header   string
		Package  string
		Title    string
		Version  string
		Entities []*entityData
	}

	entityData struct {
		Header            string
		Name              string
		Dir               string
		PluralDisplayName string
		Imports           []*entityData
		Enums             []enumData
		Fields            []fieldData
		Columns           []columnData
	}

	enumData struct {
		Name   string
		Values []enumValue
	}

	enumValue struct {
		Key   string
		Value string
	}

	fieldData struct {
		Name     string
		Type     string
		Optional bool
	}

	columnData struct {
		Label  string
		Source string
	}

	authData struct {
		Header       string
		AuthProvider schema.AuthProvider
	}
)

// Generate implements gen.ModuleGenerator.
func (g *Generator) Generate(ctx context.Context, gc *gen.Context) ([]gen.Module, error) {
	var (
		dirs = gc.Directories().Client
		app  = appData{Header: Header, Package: "admin-ui", Title: "Admin", Version: "0.1.0"}
		auth = authData{Header: Header, AuthProvider: schema.AuthProviderHTTP}
	)
	if info := gc.AppInfo(); info != nil {
		if name := gen.Kebab(info.Name); name != "" {
			app.Package = name + "-admin"
			app.Title = info.Name
		}
		if info.Version != "" {
			app.Version = info.Version
		}
		if info.Settings.AuthProvider != "" {
			auth.AuthProvider = info.Settings.AuthProvider
		}
	}

	byName := make(map[string]*entityData)
	for _, ed := range gc.DTOs() {
		d := &entityData{
			Header:            Header,
			Name:              ed.Entity.Name,
			Dir:               gen.Kebab(ed.Entity.Name),
			PluralDisplayName: ed.Entity.PluralDisplayName,
		}
		app.Entities = append(app.Entities, d)
		byName[d.Name] = d
	}
	for i, ed := range gc.DTOs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fillEntity(app.Entities[i], ed, byName)
	}

	var modules []gen.Module
	add := func(path, name string, data any) error {
		var b bytes.Buffer
		if err := templates.ExecuteTemplate(&b, name, data); err != nil {
			return fmt.Errorf("execute %s: %w", name, err)
		}
		modules = append(modules, gen.Module{Path: path, Code: b.String()})
		return nil
	}
	if err := add(filepath.Join(dirs.BaseDirectory, "package.json"), "package.json.tmpl", app); err != nil {
		return nil, err
	}
	if err := add(filepath.Join(dirs.PublicDirectory, "index.html"), "index.html.tmpl", app); err != nil {
		return nil, err
	}
	if err := add(filepath.Join(dirs.SrcDirectory, "App.tsx"), "App.tsx.tmpl", app); err != nil {
		return nil, err
	}
	for _, d := range app.Entities {
		dir := filepath.Join(dirs.APIDirectory, d.Dir)
		if err := add(filepath.Join(dir, d.Name+".ts"), "entity.ts.tmpl", d); err != nil {
			return nil, err
		}
		if err := add(filepath.Join(dir, d.Name+"List.tsx"), "list.tsx.tmpl", d); err != nil {
			return nil, err
		}
	}
	if err := add(filepath.Join(dirs.AuthProviderDirectory, "authProvider.ts"), "authProvider.ts.tmpl", auth); err != nil {
		return nil, err
	}
	return modules, nil
}

// fillEntity derives the template data of an entity from its model DTO.
func fillEntity(d *entityData, ed *gen.EntityDTOs, byName map[string]*entityData) {
	enums := make(map[string]bool)
	for _, e := range ed.Enums {
		enum := enumData{Name: e.Name}
		seen := make(map[string]bool)
		for _, o := range e.Options {
			key := gen.Identifier(o.Value)
			if seen[key] {
				continue
			}
			seen[key] = true
			enum.Values = append(enum.Values, enumValue{Key: key, Value: o.Value})
		}
		if len(enum.Values) > 0 {
			d.Enums = append(d.Enums, enum)
			enums[e.Name] = true
		}
	}
	model, ok := ed.Get(gen.DTOKindModel)
	if !ok {
		return
	}
	for _, f := range model.Fields {
		t := tsType(f, enums)
		if f.Kind == gen.KindObject && f.Ref != d.Name {
			if rel, ok := byName[f.Ref]; ok && !slices.Contains(d.Imports, rel) {
				d.Imports = append(d.Imports, rel)
			}
		}
		d.Fields = append(d.Fields, fieldData{Name: f.Name, Type: t, Optional: f.Optional})
		if f.Kind != gen.KindObject && f.Kind != gen.KindJSON {
			label := f.Name
			if f.Field != nil && f.Field.DisplayName != "" {
				label = f.Field.DisplayName
			}
			d.Columns = append(d.Columns, columnData{Label: label, Source: f.Name})
		}
	}
}

// tsType returns the TypeScript type of a model field.
func tsType(f gen.DTOField, enums map[string]bool) string {
	var t string
	switch f.Kind {
	case gen.KindInt, gen.KindFloat:
		t = "number"
	case gen.KindBool:
		t = "boolean"
	case gen.KindTime:
		t = "Date"
	case gen.KindJSON:
		t = "unknown"
	case gen.KindEnum:
		t = "string"
		if enums[f.Ref] {
			t = f.Ref
		}
	case gen.KindObject:
		t = f.Ref
	default:
		t = "string"
	}
	if f.List {
		t += "[]"
	}
	return t
}
