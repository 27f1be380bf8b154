package gen

import (
	"fmt"

	"github.com/syssam/dsg/schema"
)

// ResolveLookupFields validates the fields of the given entities against the
// loaded plugins and resolves every Lookup field into a bidirectional
// relation descriptor.
//
// The result is a new entity list; the input is not modified. The related
// entity and field of every resolved lookup point into the returned list.
// All decisions read only maps built from the input before the field pass,
// so the output does not depend on the order of entities or fields. Already
// resolved lookups are projected back to their declared form first, which
// makes the operation idempotent.
//
// The related field of a lookup must itself be a Lookup. This is an extra
// check: a non-lookup related field is reported as a LookupError instead of
// being read as the single-valued side of the relation.
func ResolveLookupFields(entities []*schema.Entity, plugins []Plugin) ([]*schema.Entity, error) {
	var (
		out        = make([]*schema.Entity, len(entities))
		entityByID = make(map[string]*schema.Entity, len(entities))
		fieldByID  = make(map[string]*schema.EntityField)
		declared   = make(map[string]*schema.EntityField)
		rejecters  []FieldTypeRejecter
	)
	for _, p := range plugins {
		if r, ok := p.(FieldTypeRejecter); ok {
			rejecters = append(rejecters, r)
		}
	}
	// Allocate the output first, so relations can point at it.
	for i, e := range entities {
		c := e.Clone()
		out[i] = c
		entityByID[c.ID] = c
		for j, f := range c.Fields {
			fieldByID[f.PermanentID] = f
			declared[f.PermanentID] = e.Fields[j]
		}
	}
	// Declared properties are read from the input; the copies are only written.
	for i, e := range entities {
		for j, f := range e.Fields {
			if err := checkFieldType(e, f, rejecters); err != nil {
				return nil, err
			}
			if f.DataType != schema.DataTypeLookup {
				continue
			}
			props, err := resolveLookup(e, f, entityByID, fieldByID, declared)
			if err != nil {
				return nil, err
			}
			out[i].Fields[j].Properties = props
		}
	}
	return out, nil
}

func checkFieldType(e *schema.Entity, f *schema.EntityField, rejecters []FieldTypeRejecter) error {
	for _, r := range rejecters {
		if reason, rejected := r.RejectFieldType(f.DataType); rejected {
			return NewValidationError(e.Name, f.Name, f.DataType, reason)
		}
	}
	return nil
}

func resolveLookup(
	e *schema.Entity,
	f *schema.EntityField,
	entityByID map[string]*schema.Entity,
	fieldByID map[string]*schema.EntityField,
	declared map[string]*schema.EntityField,
) (schema.ResolvedLookupProperties, error) {
	lp, _ := schema.AsLookup(f.Properties)
	if lp.RelatedEntityID == "" {
		return schema.ResolvedLookupProperties{}, NewLookupError(e.Name, f.Name, "",
			fmt.Sprintf("Lookup entity field %s must have a relatedEntityId property with a valid entity ID", f.Name))
	}
	if lp.RelatedFieldID == "" {
		return schema.ResolvedLookupProperties{}, NewLookupError(e.Name, f.Name, "",
			fmt.Sprintf("Lookup entity field %s must have a relatedFieldId property with a valid entity ID", f.Name))
	}
	relatedEntity, ok := entityByID[lp.RelatedEntityID]
	if !ok {
		return schema.ResolvedLookupProperties{}, NewLookupError(e.Name, f.Name, lp.RelatedEntityID,
			fmt.Sprintf("Could not find entity with the ID %s referenced in entity field %s", lp.RelatedEntityID, f.Name))
	}
	relatedField, ok := fieldByID[lp.RelatedFieldID]
	if !ok {
		return schema.ResolvedLookupProperties{}, NewLookupError(e.Name, f.Name, lp.RelatedFieldID,
			fmt.Sprintf("Could not find entity field with the ID %s referenced in entity field %s", lp.RelatedFieldID, f.Name))
	}
	// The copy may already hold resolved properties; read the input instead.
	relatedInput := declared[lp.RelatedFieldID]
	if relatedInput.DataType != schema.DataTypeLookup {
		return schema.ResolvedLookupProperties{}, NewLookupError(e.Name, f.Name, lp.RelatedFieldID,
			fmt.Sprintf("Entity field with the ID %s referenced in entity field %s is not a lookup field", lp.RelatedFieldID, f.Name))
	}
	relatedLookup, _ := schema.AsLookup(relatedInput.Properties)
	isOneToOne := !lp.AllowMultipleSelection && !relatedLookup.AllowMultipleSelection
	return schema.ResolvedLookupProperties{
		LookupProperties: lp,
		RelatedEntity:    relatedEntity,
		RelatedField:     relatedField,
		// Placeholder ownership policy: of the two sides of a one-to-one
		// relation, the field with the greater permanent ID (byte-wise) does
		// not hold the foreign key. It is only stable while permanent IDs are.
		IsOneToOneWithoutForeignKey: isOneToOne && f.PermanentID > relatedField.PermanentID,
	}, nil
}
