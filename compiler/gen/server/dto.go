package server

import (
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dsg/compiler/gen"
)

// genCommonDTOs generates the DTO declarations shared by all entities
// (src/dto/dto.go).
func genCommonDTOs() *jen.File {
	f := jen.NewFile("dto")
	f.HeaderComment(Header)
	f.PackageComment("Package dto holds the data transfer objects of the API.")

	f.Commentf("%s is the direction of an ordering.", gen.SortOrderEnum)
	f.Type().Id(gen.SortOrderEnum).String()
	f.Const().Defs(
		jen.Id(gen.SortOrderEnum+"Asc").Id(gen.SortOrderEnum).Op("=").Lit("Asc"),
		jen.Id(gen.SortOrderEnum+"Desc").Id(gen.SortOrderEnum).Op("=").Lit("Desc"),
	)
	return f
}

// genDTOs generates the enums and DTOs of an entity (src/dto/{entity}.go).
func genDTOs(ed *gen.EntityDTOs) *jen.File {
	f := jen.NewFile("dto")
	f.HeaderComment(Header)

	for _, e := range ed.Enums {
		f.Commentf("%s is the set of values of %s.%s.", e.Name, ed.Entity.Name, e.Field.Name)
		f.Type().Id(e.Name).String()
		if len(e.Options) == 0 {
			continue
		}
		f.Const().DefsFunc(func(group *jen.Group) {
			for _, o := range e.Options {
				group.Id(e.Name + gen.Identifier(EnumValue(o.Value))).Id(e.Name).Op("=").Lit(EnumValue(o.Value))
			}
		})
	}

	for _, d := range ed.DTOs {
		f.Comment(dtoComment(ed, d))
		f.Type().Id(d.Name).StructFunc(func(group *jen.Group) {
			for _, df := range d.Fields {
				tag := df.Name
				if df.Optional {
					tag += ",omitempty"
				}
				group.Id(gen.Identifier(df.Name)).Add(dtoFieldType(df)).Tag(map[string]string{"json": tag})
			}
		})
	}
	return f
}

func dtoComment(ed *gen.EntityDTOs, d *gen.DTO) string {
	switch d.Kind {
	case gen.DTOKindModel:
		return d.Name + " is the API representation of " + ed.Entity.Name + "."
	case gen.DTOKindNestedCreateMany, gen.DTOKindNestedUpdateMany:
		return d.Name + " links " + ed.Entity.Name + " records to related records."
	default:
		return d.Name + " is the " + gen.Title(string(d.Kind)) + " of " + ed.Entity.Name + "."
	}
}

// dtoFieldType returns the Go type of a DTO field.
func dtoFieldType(df gen.DTOField) *jen.Statement {
	var t *jen.Statement
	switch df.Kind {
	case gen.KindInt:
		t = jen.Int()
	case gen.KindFloat:
		t = jen.Float64()
	case gen.KindBool:
		t = jen.Bool()
	case gen.KindTime:
		t = jen.Qual("time", "Time")
	case gen.KindJSON:
		return jen.Qual("encoding/json", "RawMessage")
	case gen.KindEnum, gen.KindObject:
		t = jen.Id(df.Ref)
	default:
		t = jen.String()
	}
	switch {
	case df.List:
		return jen.Index().Add(t)
	case df.Optional || df.Kind == gen.KindObject:
		return jen.Op("*").Add(t)
	default:
		return t
	}
}

// EnumValue returns an option value as an enum value name: letters, digits
// and underscores, not starting with a digit.
func EnumValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	s := b.String()
	switch {
	case s == "":
		return "_"
	case unicode.IsDigit(rune(s[0])):
		return "_" + s
	case s == "true" || s == "false" || s == "null":
		return s + "_"
	}
	return s
}
