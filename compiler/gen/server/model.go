package server

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// genModel generates the model file of an entity (src/{entity}/{entity}.go).
// To-one relations are stored as the id of the related record on the side
// that holds the foreign key. To-many relations are not part of the model.
func genModel(e *schema.Entity) *jen.File {
	f := jen.NewFile(PackageName(e))
	f.HeaderComment(Header)

	f.Comment("Table is the database table of " + e.Name + " records.")
	f.Const().Id("Table").Op("=").Lit(TableName(e))

	f.Commentf("%s is the model of the %s entity.", e.Name, e.Name)
	f.Type().Id(e.Name).StructFunc(func(group *jen.Group) {
		for _, field := range e.Fields {
			if lp, ok := field.Lookup(); ok {
				if !lp.HoldsForeignKey() {
					continue
				}
				id := foreignKeyType(lp.RelatedEntity)
				if id == nil {
					continue
				}
				group.Id(gen.Identifier(field.Name) + "ID").Op("*").Add(id).Tag(map[string]string{
					"json": field.Name + "Id,omitempty",
				})
				continue
			}
			group.Id(gen.Identifier(field.Name)).Add(modelFieldType(field)).Tag(modelTags(field))
		}
	})

	f.Commentf("Columns lists the columns of the %s table.", e.Name)
	f.Var().Id("Columns").Op("=").Index().String().ValuesFunc(func(group *jen.Group) {
		for _, c := range columnNames(e) {
			group.Lit(c)
		}
	})
	return f
}

// goType returns the Go type of a scalar entity field.
func goType(f *schema.EntityField) *jen.Statement {
	switch f.DataType {
	case schema.DataTypeWholeNumber:
		return jen.Int()
	case schema.DataTypeDecimalNumber:
		return jen.Float64()
	case schema.DataTypeBoolean:
		return jen.Bool()
	case schema.DataTypeDateTime, schema.DataTypeCreatedAt, schema.DataTypeUpdatedAt:
		return jen.Qual("time", "Time")
	case schema.DataTypeJSON, schema.DataTypeGeographicLocation, schema.DataTypeRoles:
		return jen.Qual("encoding/json", "RawMessage")
	case schema.DataTypeMultiSelectOptionSet:
		return jen.Index().String()
	case schema.DataTypeID:
		if autoIncrement(f) {
			return jen.Int()
		}
		return jen.String()
	default:
		return jen.String()
	}
}

// modelFieldType returns the struct field type. Optional scalars are
// pointers; slices and raw JSON already have a nil value.
func modelFieldType(f *schema.EntityField) *jen.Statement {
	t := goType(f)
	if f.Required || f.DataType.IsSystem() || nilable(f.DataType) {
		return t
	}
	return jen.Op("*").Add(t)
}

func modelTags(f *schema.EntityField) map[string]string {
	tag := f.Name
	if f.DataType == schema.DataTypePassword {
		tag = "-"
	} else if !f.Required && !f.DataType.IsSystem() {
		tag += ",omitempty"
	}
	return map[string]string{"json": tag, "db": ColumnName(f)}
}

func nilable(t schema.DataType) bool {
	switch t {
	case schema.DataTypeJSON, schema.DataTypeGeographicLocation, schema.DataTypeRoles, schema.DataTypeMultiSelectOptionSet:
		return true
	}
	return false
}

// foreignKeyType returns the Go type of the id of e, or nil if e has no
// id field.
func foreignKeyType(e *schema.Entity) *jen.Statement {
	if e == nil {
		return nil
	}
	id, ok := e.FieldByType(schema.DataTypeID)
	if !ok {
		return nil
	}
	return goType(id)
}

func autoIncrement(f *schema.EntityField) bool {
	p, ok := f.Properties.(schema.IDProperties)
	return ok && p.IDType == schema.IDTypeAutoIncrement
}
