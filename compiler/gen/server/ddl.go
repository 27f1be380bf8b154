package server

import (
	"context"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// TableName returns the database table of the entity.
func TableName(e *schema.Entity) string {
	return gen.Snake(e.Name)
}

// ColumnName returns the database column of a scalar field.
func ColumnName(f *schema.EntityField) string {
	return gen.Snake(f.Name)
}

// ForeignKeyColumn returns the column that stores the related id of a
// to-one lookup field.
func ForeignKeyColumn(f *schema.EntityField) string {
	return gen.Snake(f.Name) + "_id"
}

// JoinTableName returns the table that links the records of a many-to-many
// lookup field.
func JoinTableName(e *schema.Entity, f *schema.EntityField) string {
	return "_" + gen.Snake(e.Name) + "_" + gen.Snake(f.Name)
}

// columnNames returns the columns of the entity table in order.
func columnNames(e *schema.Entity) []string {
	var cols []string
	for _, f := range e.Fields {
		if lp, ok := f.Lookup(); ok {
			if lp.HoldsForeignKey() && hasID(lp.RelatedEntity) {
				cols = append(cols, ForeignKeyColumn(f))
			}
			continue
		}
		cols = append(cols, ColumnName(f))
	}
	return cols
}

func hasID(e *schema.Entity) bool {
	if e == nil {
		return false
	}
	_, ok := e.FieldByType(schema.DataTypeID)
	return ok
}

// DDL returns the CREATE statements of the entity tables for the provider.
func DDL(ctx context.Context, p gen.Provider, entities []*schema.Entity) (string, error) {
	d, err := dialectOf(p)
	if err != nil {
		return "", err
	}
	tables := d.tables(entities)
	atlas.New(d.schema).AddTables(tables...)
	changes := make([]atlas.Change, len(tables))
	for i, t := range tables {
		changes[i] = &atlas.AddTable{T: t}
	}
	// Tables are left unqualified so the script runs in the database the
	// connection selects.
	plan, err := d.planner.PlanChanges(ctx, "schema", changes, func(o *migrate.PlanOptions) {
		o.SchemaQualifier = new(string)
	})
	if err != nil {
		return "", fmt.Errorf("plan %s schema: %w", p, err)
	}
	var b strings.Builder
	for _, c := range plan.Changes {
		b.WriteString(c.Cmd)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

// dialect holds the column types of a database provider.
type dialect struct {
	schema    string
	planner   migrate.PlanApplier
	str, text atlas.Type
	integer   atlas.Type
	float     atlas.Type
	boolean   atlas.Type
	time      atlas.Type
	json      atlas.Type
	serial    func(*atlas.Column)
}

func dialectOf(p gen.Provider) (*dialect, error) {
	switch p {
	case gen.ProviderPostgres, "":
		return &dialect{
			schema:  "public",
			planner: postgres.DefaultPlan,
			str:     &atlas.StringType{T: "text"},
			text:    &atlas.StringType{T: "text"},
			integer: &atlas.IntegerType{T: "integer"},
			float:   &atlas.FloatType{T: "double precision"},
			boolean: &atlas.BoolType{T: "boolean"},
			time:    &atlas.TimeType{T: "timestamp"},
			json:    &atlas.JSONType{T: "jsonb"},
			serial: func(c *atlas.Column) {
				c.Type.Type = &postgres.SerialType{T: "serial"}
			},
		}, nil
	case gen.ProviderMySQL:
		return &dialect{
			schema:  "app",
			planner: mysql.DefaultPlan,
			str:     &atlas.StringType{T: "varchar", Size: 191},
			text:    &atlas.StringType{T: "text"},
			integer: &atlas.IntegerType{T: "int"},
			float:   &atlas.FloatType{T: "double"},
			boolean: &atlas.BoolType{T: "bool"},
			time:    &atlas.TimeType{T: "datetime"},
			json:    &atlas.JSONType{T: "json"},
			serial: func(c *atlas.Column) {
				c.Attrs = append(c.Attrs, &mysql.AutoIncrement{})
			},
		}, nil
	case gen.ProviderSQLite:
		return &dialect{
			schema:  "main",
			planner: sqlite.DefaultPlan,
			str:     &atlas.StringType{T: "text"},
			text:    &atlas.StringType{T: "text"},
			integer: &atlas.IntegerType{T: "integer"},
			float:   &atlas.FloatType{T: "real"},
			boolean: &atlas.BoolType{T: "boolean"},
			time:    &atlas.TimeType{T: "datetime"},
			json:    &atlas.JSONType{T: "json"},
			serial: func(c *atlas.Column) {
				c.Attrs = append(c.Attrs, &sqlite.AutoIncrement{})
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database provider %q", p)
	}
}

// columnType returns the column type of a scalar field.
func (d *dialect) columnType(f *schema.EntityField) atlas.Type {
	switch f.DataType {
	case schema.DataTypeMultiLineText:
		return d.text
	case schema.DataTypeWholeNumber:
		return d.integer
	case schema.DataTypeDecimalNumber:
		return d.float
	case schema.DataTypeBoolean:
		return d.boolean
	case schema.DataTypeDateTime, schema.DataTypeCreatedAt, schema.DataTypeUpdatedAt:
		return d.time
	case schema.DataTypeJSON, schema.DataTypeGeographicLocation, schema.DataTypeRoles, schema.DataTypeMultiSelectOptionSet:
		return d.json
	case schema.DataTypeID:
		if autoIncrement(f) {
			return d.integer
		}
		return d.str
	default:
		return d.str
	}
}

// primaryKey is the id column of an entity table and the type of the
// columns referencing it.
type primaryKey struct {
	column *atlas.Column
	ref    atlas.Type
}

// tables builds the tables of the entities. Tables of to-one relations hold
// a foreign key column on the side that owns the link. Many-to-many
// relations get a join table, created once from the field with the smaller
// permanent id.
func (d *dialect) tables(entities []*schema.Entity) []*atlas.Table {
	var (
		tables = make([]*atlas.Table, 0, len(entities))
		byID   = make(map[string]*atlas.Table, len(entities))
		pk     = make(map[string]primaryKey, len(entities))
	)
	for _, e := range entities {
		t := atlas.NewTable(TableName(e))
		for _, f := range e.Fields {
			if f.DataType == schema.DataTypeLookup {
				continue
			}
			c := &atlas.Column{
				Name: ColumnName(f),
				Type: &atlas.ColumnType{Type: d.columnType(f), Null: !f.Required && !f.DataType.IsSystem()},
			}
			switch f.DataType {
			case schema.DataTypeID:
				pk[e.ID] = primaryKey{column: c, ref: c.Type.Type}
				if autoIncrement(f) {
					d.serial(c)
				}
				t.AddColumns(c)
				t.SetPrimaryKey(atlas.NewPrimaryKey(c))
				continue
			case schema.DataTypeCreatedAt, schema.DataTypeUpdatedAt:
				c.Default = &atlas.RawExpr{X: "CURRENT_TIMESTAMP"}
			}
			t.AddColumns(c)
			if f.Unique {
				t.AddIndexes(atlas.NewUniqueIndex(t.Name + "_" + c.Name + "_key").AddColumns(c))
			}
		}
		tables = append(tables, t)
		byID[e.ID] = t
	}
	for _, e := range entities {
		t := byID[e.ID]
		for _, f := range e.Fields {
			lp, ok := f.Lookup()
			if !ok {
				continue
			}
			ref, refPK := byID[lp.RelatedEntity.ID], pk[lp.RelatedEntity.ID]
			if ref == nil || refPK.column == nil {
				continue
			}
			switch {
			case lp.HoldsForeignKey():
				c := &atlas.Column{
					Name: ForeignKeyColumn(f),
					Type: &atlas.ColumnType{Type: refPK.ref, Null: !f.Required},
				}
				t.AddColumns(c)
				if lp.IsOneToOne() {
					t.AddIndexes(atlas.NewUniqueIndex(t.Name + "_" + c.Name + "_key").AddColumns(c))
				}
				onDelete := atlas.SetNull
				if f.Required {
					onDelete = atlas.NoAction
				}
				t.AddForeignKeys(&atlas.ForeignKey{
					Symbol:     t.Name + "_" + c.Name + "_fkey",
					Table:      t,
					Columns:    []*atlas.Column{c},
					RefTable:   ref,
					RefColumns: []*atlas.Column{refPK.column},
					OnDelete:   onDelete,
				})
			case lp.Rel() == schema.M2M && lp.RelatedField != nil && f.PermanentID < lp.RelatedField.PermanentID:
				tables = append(tables, joinTable(e, f, t, pk[e.ID], ref, refPK))
			}
		}
	}
	return tables
}

func joinTable(e *schema.Entity, f *schema.EntityField, t *atlas.Table, tPK primaryKey, ref *atlas.Table, refPK primaryKey) *atlas.Table {
	jt := atlas.NewTable(JoinTableName(e, f))
	a := &atlas.Column{Name: "a_id", Type: &atlas.ColumnType{Type: tPK.ref}}
	b := &atlas.Column{Name: "b_id", Type: &atlas.ColumnType{Type: refPK.ref}}
	jt.AddColumns(a, b)
	jt.SetPrimaryKey(atlas.NewPrimaryKey(a, b))
	jt.AddForeignKeys(
		&atlas.ForeignKey{
			Symbol: jt.Name + "_a_fkey", Table: jt, Columns: []*atlas.Column{a},
			RefTable: t, RefColumns: []*atlas.Column{tPK.column}, OnDelete: atlas.Cascade,
		},
		&atlas.ForeignKey{
			Symbol: jt.Name + "_b_fkey", Table: jt, Columns: []*atlas.Column{b},
			RefTable: ref, RefColumns: []*atlas.Column{refPK.column}, OnDelete: atlas.Cascade,
		},
	)
	return jt
}
