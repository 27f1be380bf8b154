package gen

import (
	"cmp"
	"context"
	"slices"

	"github.com/syssam/dsg/schema"
)

// DTOKind is the role of a DTO in the generated API.
type DTOKind string

// DTO kinds.
const (
	DTOKindModel            DTOKind = "Model"
	DTOKindCreateInput      DTOKind = "CreateInput"
	DTOKindUpdateInput      DTOKind = "UpdateInput"
	DTOKindWhereInput       DTOKind = "WhereInput"
	DTOKindWhereUniqueInput DTOKind = "WhereUniqueInput"
	DTOKindOrderByInput     DTOKind = "OrderByInput"
	DTOKindFindManyArgs     DTOKind = "FindManyArgs"
	DTOKindFindUniqueArgs   DTOKind = "FindUniqueArgs"
	DTOKindCreateArgs       DTOKind = "CreateArgs"
	DTOKindUpdateArgs       DTOKind = "UpdateArgs"
	DTOKindDeleteArgs       DTOKind = "DeleteArgs"
	DTOKindNestedCreateMany DTOKind = "NestedCreateMany"
	DTOKindNestedUpdateMany DTOKind = "NestedUpdateMany"
)

// IsInput reports if DTOs of this kind are API inputs.
func (k DTOKind) IsInput() bool { return k != DTOKindModel }

// FieldKind is the type family of a DTO field.
type FieldKind string

// Field kinds.
const (
	KindString FieldKind = "String"
	KindInt    FieldKind = "Int"
	KindFloat  FieldKind = "Float"
	KindBool   FieldKind = "Boolean"
	KindTime   FieldKind = "DateTime"
	KindJSON   FieldKind = "JSON"
	KindEnum   FieldKind = "Enum"
	KindObject FieldKind = "Object"
)

// SortOrderEnum is the name of the shared sort order enum.
const SortOrderEnum = "SortOrder"

type (
	// DTOField is a field of a DTO.
	DTOField struct {
		Name     string
		Kind     FieldKind
		Ref      string // Enum or DTO name for KindEnum and KindObject
		List     bool
		Optional bool
		Field    *schema.EntityField // Source entity field, if any
	}

	// DTO is a data transfer object of the generated API.
	DTO struct {
		Name   string
		Kind   DTOKind
		Fields []DTOField
	}

	// Enum is an enumeration derived from an option set field.
	Enum struct {
		Name    string
		Field   *schema.EntityField
		Options []schema.Option
	}

	// EntityDTOs holds the DTOs and enums of a single entity.
	EntityDTOs struct {
		Entity *schema.Entity
		DTOs   []*DTO
		Enums  []*Enum
	}

	// DTOs is the set of DTOs of a run, ordered by entity name.
	DTOs []*EntityDTOs
)

// For returns the DTOs of the entity with the given name.
func (d DTOs) For(entity string) (*EntityDTOs, bool) {
	for _, e := range d {
		if e.Entity.Name == entity {
			return e, true
		}
	}
	return nil, false
}

// All returns every DTO in order.
func (d DTOs) All() []*DTO {
	var all []*DTO
	for _, e := range d {
		all = append(all, e.DTOs...)
	}
	return all
}

// Get returns the first DTO of the given kind.
func (e *EntityDTOs) Get(kind DTOKind) (*DTO, bool) {
	for _, d := range e.DTOs {
		if d.Kind == kind {
			return d, true
		}
	}
	return nil, false
}

// DTOSynthesizer derives the DTOs of the resolved entities.
type DTOSynthesizer interface {
	Synthesize(ctx context.Context, entities []*schema.Entity) (DTOs, error)
}

// The DTOSynthesizerFunc type is an adapter to allow the use of ordinary
// functions as DTOSynthesizer.
type DTOSynthesizerFunc func(context.Context, []*schema.Entity) (DTOs, error)

// Synthesize calls f(ctx, entities).
func (f DTOSynthesizerFunc) Synthesize(ctx context.Context, entities []*schema.Entity) (DTOs, error) {
	return f(ctx, entities)
}

// DefaultDTOSynthesizer is the synthesizer used when none is configured.
var DefaultDTOSynthesizer DTOSynthesizer = DTOSynthesizerFunc(SynthesizeDTOs)

// SynthesizeDTOs derives the default DTO set of every entity. Entities are
// processed in name order and fields in declared order.
func SynthesizeDTOs(ctx context.Context, entities []*schema.Entity) (DTOs, error) {
	sorted := slices.Clone(entities)
	slices.SortStableFunc(sorted, func(a, b *schema.Entity) int {
		return cmp.Compare(a.Name, b.Name)
	})
	dtos := make(DTOs, 0, len(sorted))
	for _, e := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dtos = append(dtos, entityDTOs(e))
	}
	return dtos, nil
}

// DTOName returns the name of the DTO of the given kind for the entity.
func DTOName(e *schema.Entity, kind DTOKind) string {
	switch kind {
	case DTOKindModel:
		return e.Name
	case DTOKindCreateArgs:
		return "Create" + e.Name + "Args"
	case DTOKindUpdateArgs:
		return "Update" + e.Name + "Args"
	case DTOKindDeleteArgs:
		return "Delete" + e.Name + "Args"
	default:
		return e.Name + string(kind)
	}
}

// NestedDTOName returns the name of the nested to-many input that links
// records of related from entity e.
func NestedDTOName(related, e *schema.Entity, kind DTOKind) string {
	switch kind {
	case DTOKindNestedCreateMany:
		return related.Name + "CreateNestedManyWithout" + pascal(plural(e.Name)) + "Input"
	default:
		return related.Name + "UpdateManyWithout" + pascal(plural(e.Name)) + "Input"
	}
}

// EnumName returns the name of the enum of an option set field.
func EnumName(e *schema.Entity, f *schema.EntityField) string {
	return "Enum" + e.Name + pascal(f.Name)
}

func entityDTOs(e *schema.Entity) *EntityDTOs {
	var (
		out  = &EntityDTOs{Entity: e}
		name = func(k DTOKind) string { return DTOName(e, k) }
		add  = func(k DTOKind, fields ...DTOField) {
			out.DTOs = append(out.DTOs, &DTO{Name: name(k), Kind: k, Fields: fields})
		}
		model, create, update, where, unique, order []DTOField
		nested                                      []*DTO
		seen                                        = make(map[string]bool)
	)
	for _, f := range e.Fields {
		if f.DataType == schema.DataTypeOptionSet || f.DataType == schema.DataTypeMultiSelectOptionSet {
			p, _ := f.Properties.(schema.OptionSetProperties)
			out.Enums = append(out.Enums, &Enum{Name: EnumName(e, f), Field: f, Options: p.Options})
		}
		if lp, ok := f.Lookup(); ok {
			related := lp.RelatedEntity
			if lp.AllowMultipleSelection {
				model = append(model, DTOField{Name: f.Name, Kind: KindObject, Ref: related.Name, List: true, Optional: true, Field: f})
				createRef := NestedDTOName(related, e, DTOKindNestedCreateMany)
				updateRef := NestedDTOName(related, e, DTOKindNestedUpdateMany)
				create = append(create, DTOField{Name: f.Name, Kind: KindObject, Ref: createRef, Optional: true, Field: f})
				update = append(update, DTOField{Name: f.Name, Kind: KindObject, Ref: updateRef, Optional: true, Field: f})
				if seen[createRef] {
					continue
				}
				seen[createRef] = true
				uniqueRef := DTOName(related, DTOKindWhereUniqueInput)
				nested = append(nested,
					&DTO{Name: createRef, Kind: DTOKindNestedCreateMany, Fields: []DTOField{
						{Name: "connect", Kind: KindObject, Ref: uniqueRef, List: true, Optional: true},
					}},
					&DTO{Name: updateRef, Kind: DTOKindNestedUpdateMany, Fields: []DTOField{
						{Name: "connect", Kind: KindObject, Ref: uniqueRef, List: true, Optional: true},
						{Name: "disconnect", Kind: KindObject, Ref: uniqueRef, List: true, Optional: true},
						{Name: "set", Kind: KindObject, Ref: uniqueRef, List: true, Optional: true},
					}},
				)
				continue
			}
			ref := DTOName(related, DTOKindWhereUniqueInput)
			model = append(model, DTOField{Name: f.Name, Kind: KindObject, Ref: related.Name, Optional: true, Field: f})
			create = append(create, DTOField{Name: f.Name, Kind: KindObject, Ref: ref, Optional: !f.Required, Field: f})
			update = append(update, DTOField{Name: f.Name, Kind: KindObject, Ref: ref, Optional: true, Field: f})
			where = append(where, DTOField{Name: f.Name, Kind: KindObject, Ref: ref, Optional: true, Field: f})
			continue
		}
		df := scalarField(e, f)
		if f.DataType != schema.DataTypePassword {
			mf := df
			mf.Optional = !f.Required && !f.DataType.IsSystem()
			model = append(model, mf)
			if f.Searchable || f.DataType == schema.DataTypeID {
				wf := df
				wf.Optional = true
				where = append(where, wf)
			}
			order = append(order, DTOField{Name: f.Name, Kind: KindEnum, Ref: SortOrderEnum, Optional: true, Field: f})
		}
		if f.DataType == schema.DataTypeID {
			uf := df
			uf.Optional = false
			unique = append(unique, uf)
		}
		if f.DataType.IsSystem() {
			continue
		}
		cf := df
		cf.Optional = !f.Required
		create = append(create, cf)
		uf := df
		uf.Optional = true
		update = append(update, uf)
	}
	add(DTOKindModel, model...)
	add(DTOKindCreateInput, create...)
	add(DTOKindUpdateInput, update...)
	add(DTOKindWhereInput, where...)
	add(DTOKindWhereUniqueInput, unique...)
	add(DTOKindOrderByInput, order...)
	add(DTOKindFindManyArgs,
		DTOField{Name: "where", Kind: KindObject, Ref: name(DTOKindWhereInput), Optional: true},
		DTOField{Name: "orderBy", Kind: KindObject, Ref: name(DTOKindOrderByInput), List: true, Optional: true},
		DTOField{Name: "skip", Kind: KindInt, Optional: true},
		DTOField{Name: "take", Kind: KindInt, Optional: true},
	)
	add(DTOKindFindUniqueArgs, DTOField{Name: "where", Kind: KindObject, Ref: name(DTOKindWhereUniqueInput)})
	add(DTOKindCreateArgs, DTOField{Name: "data", Kind: KindObject, Ref: name(DTOKindCreateInput)})
	add(DTOKindUpdateArgs,
		DTOField{Name: "where", Kind: KindObject, Ref: name(DTOKindWhereUniqueInput)},
		DTOField{Name: "data", Kind: KindObject, Ref: name(DTOKindUpdateInput)},
	)
	add(DTOKindDeleteArgs, DTOField{Name: "where", Kind: KindObject, Ref: name(DTOKindWhereUniqueInput)})
	out.DTOs = append(out.DTOs, nested...)
	return out
}

// scalarField returns the DTO field of a non-lookup entity field.
func scalarField(e *schema.Entity, f *schema.EntityField) DTOField {
	df := DTOField{Name: f.Name, Field: f}
	switch f.DataType {
	case schema.DataTypeWholeNumber:
		df.Kind = KindInt
	case schema.DataTypeDecimalNumber:
		df.Kind = KindFloat
	case schema.DataTypeBoolean:
		df.Kind = KindBool
	case schema.DataTypeDateTime, schema.DataTypeCreatedAt, schema.DataTypeUpdatedAt:
		df.Kind = KindTime
	case schema.DataTypeJSON, schema.DataTypeGeographicLocation, schema.DataTypeRoles:
		df.Kind = KindJSON
	case schema.DataTypeOptionSet:
		df.Kind, df.Ref = KindEnum, EnumName(e, f)
	case schema.DataTypeMultiSelectOptionSet:
		df.Kind, df.Ref, df.List = KindEnum, EnumName(e, f), true
	case schema.DataTypeID:
		df.Kind = KindString
		if p, ok := f.Properties.(schema.IDProperties); ok && p.IDType == schema.IDTypeAutoIncrement {
			df.Kind = KindInt
		}
	default:
		df.Kind = KindString
	}
	return df
}
