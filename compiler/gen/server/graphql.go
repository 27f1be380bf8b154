package server

import (
	"bytes"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/dsg/compiler/gen"
)

// Custom scalars of the schema.
const (
	ScalarDateTime = "DateTime"
	ScalarJSON     = "JSON"
)

// GraphQLSchema returns the SDL of the API described by the DTOs. The
// document is validated before it is returned.
func GraphQLSchema(dtos gen.DTOs) (string, error) {
	doc := GraphQLDocument(dtos)
	var b bytes.Buffer
	formatter.NewFormatter(&b).FormatSchemaDocument(doc)
	sdl := b.String()
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl}); err != nil {
		return "", fmt.Errorf("invalid schema: %w", err)
	}
	return sdl, nil
}

// GraphQLDocument builds the schema document of the API. Model DTOs become
// object types and input DTOs input types. Args DTOs become the arguments
// of the Query and Mutation fields. Empty input types are left out, along
// with the fields and arguments that refer to them.
func GraphQLDocument(dtos gen.DTOs) *ast.SchemaDocument {
	b := &sdlBuilder{defined: map[string]bool{
		"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true,
		ScalarDateTime: true, ScalarJSON: true, gen.SortOrderEnum: true,
	}}
	b.add(
		&ast.Definition{Kind: ast.Scalar, Name: ScalarDateTime},
		&ast.Definition{Kind: ast.Scalar, Name: ScalarJSON},
		&ast.Definition{Kind: ast.Enum, Name: gen.SortOrderEnum, EnumValues: ast.EnumValueList{
			{Name: "Asc"}, {Name: "Desc"},
		}},
	)

	// Names are collected first since types refer to each other.
	for _, ed := range dtos {
		for _, e := range ed.Enums {
			if len(e.Options) > 0 {
				b.defined[e.Name] = true
			}
		}
		for _, d := range ed.DTOs {
			if !isArgs(d.Kind) && len(d.Fields) > 0 {
				b.defined[d.Name] = true
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for _, d := range dtos.All() {
			if b.defined[d.Name] && !isArgs(d.Kind) && len(b.fields(d)) == 0 {
				delete(b.defined, d.Name)
				changed = true
			}
		}
	}

	query := &ast.Definition{Kind: ast.Object, Name: "Query"}
	mutation := &ast.Definition{Kind: ast.Object, Name: "Mutation"}
	for _, ed := range dtos {
		for _, e := range ed.Enums {
			if !b.defined[e.Name] {
				continue
			}
			def := &ast.Definition{Kind: ast.Enum, Name: e.Name}
			seen := make(map[string]bool)
			for _, o := range e.Options {
				v := EnumValue(o.Value)
				if seen[v] {
					continue
				}
				seen[v] = true
				def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{Name: v, Description: o.Label})
			}
			b.add(def)
		}
		for _, d := range ed.DTOs {
			if isArgs(d.Kind) || !b.defined[d.Name] {
				continue
			}
			kind := ast.InputObject
			if d.Kind == gen.DTOKindModel {
				kind = ast.Object
			}
			b.add(&ast.Definition{Kind: kind, Name: d.Name, Fields: b.fields(d)})
		}
		b.operations(ed, query, mutation)
	}
	if len(query.Fields) > 0 {
		b.add(query)
	}
	if len(mutation.Fields) > 0 {
		b.add(mutation)
	}
	return &ast.SchemaDocument{Definitions: b.defs}
}

type sdlBuilder struct {
	defs    ast.DefinitionList
	defined map[string]bool
}

func (b *sdlBuilder) add(defs ...*ast.Definition) {
	b.defs = append(b.defs, defs...)
}

func (b *sdlBuilder) fields(d *gen.DTO) ast.FieldList {
	var fields ast.FieldList
	for _, df := range d.Fields {
		if t := b.typeOf(df); t != nil {
			fields = append(fields, &ast.FieldDefinition{Name: df.Name, Type: t})
		}
	}
	return fields
}

func (b *sdlBuilder) arguments(d *gen.DTO) ast.ArgumentDefinitionList {
	var args ast.ArgumentDefinitionList
	if d == nil {
		return nil
	}
	for _, df := range d.Fields {
		if t := b.typeOf(df); t != nil {
			args = append(args, &ast.ArgumentDefinition{Name: df.Name, Type: t})
		}
	}
	return args
}

// typeOf returns the GraphQL type of a DTO field, or nil if it refers to a
// type that is not part of the schema.
func (b *sdlBuilder) typeOf(df gen.DTOField) *ast.Type {
	name := string(df.Kind)
	switch df.Kind {
	case gen.KindEnum:
		name = df.Ref
		if !b.defined[name] {
			name = "String"
		}
	case gen.KindObject:
		name = df.Ref
		if !b.defined[name] {
			return nil
		}
	}
	if df.List {
		return &ast.Type{Elem: ast.NonNullNamedType(name, nil), NonNull: !df.Optional}
	}
	if df.Optional {
		return ast.NamedType(name, nil)
	}
	return ast.NonNullNamedType(name, nil)
}

// operations adds the CRUD fields of an entity to the root types.
func (b *sdlBuilder) operations(ed *gen.EntityDTOs, query, mutation *ast.Definition) {
	var (
		e      = ed.Entity
		get    = func(k gen.DTOKind) *gen.DTO { d, _ := ed.Get(k); return d }
		model  = gen.DTOName(e, gen.DTOKindModel)
		single = gen.Camel(e.Name)
		many   = gen.Camel(gen.Plural(e.Name))
	)
	if !b.defined[model] {
		return
	}
	if single == many {
		many += "List"
	}
	query.Fields = append(query.Fields, &ast.FieldDefinition{
		Name:      many,
		Arguments: b.arguments(get(gen.DTOKindFindManyArgs)),
		Type:      ast.NonNullListType(ast.NonNullNamedType(model, nil), nil),
	})
	unique := b.arguments(get(gen.DTOKindFindUniqueArgs))
	if len(unique) == 0 {
		return
	}
	query.Fields = append(query.Fields, &ast.FieldDefinition{
		Name:      single,
		Arguments: unique,
		Type:      ast.NamedType(model, nil),
	})
	for _, op := range []struct {
		name string
		kind gen.DTOKind
		typ  *ast.Type
	}{
		{"create" + e.Name, gen.DTOKindCreateArgs, ast.NonNullNamedType(model, nil)},
		{"update" + e.Name, gen.DTOKindUpdateArgs, ast.NamedType(model, nil)},
		{"delete" + e.Name, gen.DTOKindDeleteArgs, ast.NamedType(model, nil)},
	} {
		args := b.arguments(get(op.kind))
		if len(args) == 0 {
			continue
		}
		mutation.Fields = append(mutation.Fields, &ast.FieldDefinition{Name: op.name, Arguments: args, Type: op.typ})
	}
}

func isArgs(k gen.DTOKind) bool {
	switch k {
	case gen.DTOKindFindManyArgs, gen.DTOKindFindUniqueArgs,
		gen.DTOKindCreateArgs, gen.DTOKindUpdateArgs, gen.DTOKindDeleteArgs:
		return true
	}
	return false
}
