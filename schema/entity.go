package schema

import (
	"encoding/json"
	"fmt"
)

type (
	// Entity is a named model object with an ordered set of typed fields.
	Entity struct {
		ID                string         `json:"id"`
		Name              string         `json:"name"`
		DisplayName       string         `json:"displayName,omitempty"`
		PluralDisplayName string         `json:"pluralDisplayName,omitempty"`
		PluralName        string         `json:"pluralName,omitempty"`
		Description       string         `json:"description,omitempty"`
		Fields            []*EntityField `json:"fields"`
		Permissions       []Permission   `json:"permissions,omitempty"`
	}

	// EntityField is a single typed attribute of an entity.
	EntityField struct {
		ID          string
		PermanentID string
		Name        string
		DisplayName string
		DataType    DataType
		Required    bool
		Unique      bool
		Searchable  bool
		Description string
		Properties  Properties
	}

	// Permission grants an action on an entity to a set of roles. It is
	// passed through to the generators as is.
	Permission struct {
		Action string   `json:"action"`
		Type   string   `json:"type,omitempty"`
		Roles  []string `json:"roles,omitempty"`
	}
)

// entityField is the wire form of EntityField.
type entityField struct {
	ID          string          `json:"id,omitempty"`
	PermanentID string          `json:"permanentId"`
	Name        string          `json:"name"`
	DisplayName string          `json:"displayName,omitempty"`
	DataType    DataType        `json:"dataType"`
	Required    bool            `json:"required,omitempty"`
	Unique      bool            `json:"unique,omitempty"`
	Searchable  bool            `json:"searchable,omitempty"`
	Description string          `json:"description,omitempty"`
	Properties  json.RawMessage `json:"properties,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (f EntityField) MarshalJSON() ([]byte, error) {
	w := entityField{
		ID:          f.ID,
		PermanentID: f.PermanentID,
		Name:        f.Name,
		DisplayName: f.DisplayName,
		DataType:    f.DataType,
		Required:    f.Required,
		Unique:      f.Unique,
		Searchable:  f.Searchable,
		Description: f.Description,
	}
	if f.Properties != nil {
		raw, err := json.Marshal(f.Properties)
		if err != nil {
			return nil, fmt.Errorf("schema: encoding properties of field %q: %w", f.Name, err)
		}
		w.Properties = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. The properties are decoded into
// the variant matching the field data type.
func (f *EntityField) UnmarshalJSON(b []byte) error {
	var w entityField
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	props, err := DecodeProperties(w.DataType, w.Properties)
	if err != nil {
		return fmt.Errorf("field %q: %w", w.Name, err)
	}
	*f = EntityField{
		ID:          w.ID,
		PermanentID: w.PermanentID,
		Name:        w.Name,
		DisplayName: w.DisplayName,
		DataType:    w.DataType,
		Required:    w.Required,
		Unique:      w.Unique,
		Searchable:  w.Searchable,
		Description: w.Description,
		Properties:  props,
	}
	return nil
}

// Field returns the field with the given name.
func (e *Entity) Field(name string) (*EntityField, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FieldByType returns the first field of the given data type.
func (e *Entity) FieldByType(t DataType) (*EntityField, bool) {
	for _, f := range e.Fields {
		if f.DataType == t {
			return f, true
		}
	}
	return nil, false
}

// LookupFields returns the fields of type Lookup.
func (e *Entity) LookupFields() []*EntityField {
	var fields []*EntityField
	for _, f := range e.Fields {
		if f.DataType == DataTypeLookup {
			fields = append(fields, f)
		}
	}
	return fields
}

// Clone returns a copy of the entity with copied fields. Field properties
// are values and are shared.
func (e *Entity) Clone() *Entity {
	c := *e
	c.Fields = make([]*EntityField, len(e.Fields))
	for i, f := range e.Fields {
		fc := *f
		c.Fields[i] = &fc
	}
	if e.Permissions != nil {
		c.Permissions = append([]Permission(nil), e.Permissions...)
	}
	return &c
}

// Lookup returns the resolved lookup properties of the field. It reports
// false for non-lookup fields and unresolved lookups.
func (f *EntityField) Lookup() (ResolvedLookupProperties, bool) {
	if f.DataType != DataTypeLookup {
		return ResolvedLookupProperties{}, false
	}
	return AsResolvedLookup(f.Properties)
}
