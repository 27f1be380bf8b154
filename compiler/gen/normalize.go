package gen

import (
	"github.com/google/uuid"

	"github.com/syssam/dsg/schema"
)

// UserEntityName is the name of the system user entity.
const UserEntityName = "User"

// systemNamespace seeds the identifiers of system-created entities, so that
// repeated runs produce the same IDs.
var systemNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/syssam/dsg/system"))

func systemID(parts ...string) string {
	name := "entity"
	for _, p := range parts {
		name += "/" + p
	}
	return uuid.NewSHA1(systemNamespace, []byte(name)).String()
}

// NewUserEntity returns the system user entity with its default fields.
func NewUserEntity() *schema.Entity {
	field := func(name string, dt schema.DataType, required, unique bool, props schema.Properties) *schema.EntityField {
		return &schema.EntityField{
			ID:          systemID(UserEntityName, "field", name),
			PermanentID: systemID(UserEntityName, "permanent", name),
			Name:        name,
			DisplayName: title(name),
			DataType:    dt,
			Required:    required,
			Unique:      unique,
			Properties:  props,
		}
	}
	return &schema.Entity{
		ID:                systemID(UserEntityName),
		Name:              UserEntityName,
		DisplayName:       UserEntityName,
		PluralDisplayName: plural(UserEntityName),
		Fields: []*schema.EntityField{
			field("id", schema.DataTypeID, true, true, schema.IDProperties{IDType: schema.IDTypeCUID}),
			field("createdAt", schema.DataTypeCreatedAt, true, false, schema.NoProperties{}),
			field("updatedAt", schema.DataTypeUpdatedAt, true, false, schema.NoProperties{}),
			field("firstName", schema.DataTypeSingleLineText, false, false, schema.TextProperties{MaxLength: 256}),
			field("lastName", schema.DataTypeSingleLineText, false, false, schema.TextProperties{MaxLength: 256}),
			field("username", schema.DataTypeUsername, true, true, schema.TextProperties{}),
			field("password", schema.DataTypePassword, true, false, schema.NoProperties{}),
			field("roles", schema.DataTypeRoles, true, false, schema.NoProperties{}),
		},
	}
}

// Normalize returns copies of the given entities with derived names filled
// in, and the system user entity appended when no entity is named "User".
// The second return value is the user entity within the returned list.
// The input entities are never modified.
func Normalize(entities []*schema.Entity) ([]*schema.Entity, *schema.Entity) {
	out := make([]*schema.Entity, 0, len(entities)+1)
	var user *schema.Entity
	for _, e := range entities {
		if e == nil {
			continue
		}
		c := e.Clone()
		normalizeNames(c)
		if user == nil && c.Name == UserEntityName {
			user = c
		}
		out = append(out, c)
	}
	if user == nil {
		user = NewUserEntity()
		normalizeNames(user)
		out = append(out, user)
	}
	return out, user
}

// normalizeNames computes the plural and display names of the entity.
// PluralName is always derived from Name, which keeps it idempotent.
func normalizeNames(e *schema.Entity) {
	e.PluralName = plural(camel(e.Name))
	if e.DisplayName == "" {
		e.DisplayName = title(e.Name)
	}
	if e.PluralDisplayName == "" {
		e.PluralDisplayName = plural(e.DisplayName)
	}
	for _, f := range e.Fields {
		if f.DisplayName == "" {
			f.DisplayName = title(f.Name)
		}
	}
}
