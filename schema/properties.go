package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Properties holds the type-specific settings of an entity field. The set of
// implementations is closed; each DataType maps to exactly one variant (see
// PropertiesFor), except Lookup which has a declared and a resolved form.
type Properties interface {
	isProperties()
}

type (
	// TextProperties are the properties of textual fields.
	TextProperties struct {
		MaxLength int `json:"maxLength,omitempty"`
	}

	// WholeNumberProperties are the properties of integer fields.
	WholeNumberProperties struct {
		Minimum int `json:"minimumValue,omitempty"`
		Maximum int `json:"maximumValue,omitempty"`
	}

	// DecimalNumberProperties are the properties of decimal fields.
	DecimalNumberProperties struct {
		Minimum   float64 `json:"minimumValue,omitempty"`
		Maximum   float64 `json:"maximumValue,omitempty"`
		Precision int     `json:"precision,omitempty"`
	}

	// DateTimeProperties are the properties of date-time fields.
	DateTimeProperties struct {
		TimeZone string `json:"timeZone,omitempty"`
		DateOnly bool   `json:"dateOnly,omitempty"`
	}

	// Option is a single value of an option set.
	Option struct {
		Label string `json:"label"`
		Value string `json:"value"`
	}

	// OptionSetProperties are the properties of OptionSet and
	// MultiSelectOptionSet fields.
	OptionSetProperties struct {
		Options []Option `json:"options,omitempty"`
	}

	// LookupProperties are the declared properties of a Lookup field.
	LookupProperties struct {
		RelatedEntityID        string `json:"relatedEntityId,omitempty"`
		RelatedFieldID         string `json:"relatedFieldId,omitempty"`
		AllowMultipleSelection bool   `json:"allowMultipleSelection,omitempty"`
	}

	// ResolvedLookupProperties are the properties of a Lookup field after
	// its relation was resolved against the model.
	ResolvedLookupProperties struct {
		LookupProperties
		// RelatedEntity is the entity the field points to.
		RelatedEntity *Entity `json:"-"`
		// RelatedField is the lookup field on the other side of the relation.
		RelatedField *EntityField `json:"-"`
		// IsOneToOneWithoutForeignKey is set on exactly one side of a
		// one-to-one relation: the side that does not store the link.
		IsOneToOneWithoutForeignKey bool `json:"isOneToOneWithoutForeignKey"`
	}

	// IDProperties are the properties of the Id field.
	IDProperties struct {
		IDType IDType `json:"idType,omitempty"`
	}

	// NoProperties is the variant of data types without settings.
	NoProperties struct{}
)

// IDType is the strategy used to generate entity identifiers.
type IDType string

// Identifier strategies.
const (
	IDTypeCUID          IDType = "CUID"
	IDTypeUUID          IDType = "UUID"
	IDTypeAutoIncrement IDType = "AUTO_INCREMENT"
)

func (TextProperties) isProperties()           {}
func (WholeNumberProperties) isProperties()    {}
func (DecimalNumberProperties) isProperties()  {}
func (DateTimeProperties) isProperties()       {}
func (OptionSetProperties) isProperties()      {}
func (LookupProperties) isProperties()         {}
func (ResolvedLookupProperties) isProperties() {}
func (IDProperties) isProperties()             {}
func (NoProperties) isProperties()             {}

// PropertiesFor returns the zero properties variant of the given data type.
func PropertiesFor(t DataType) (Properties, error) {
	switch t {
	case DataTypeSingleLineText, DataTypeMultiLineText, DataTypeEmail, DataTypeUsername:
		return TextProperties{}, nil
	case DataTypeWholeNumber:
		return WholeNumberProperties{}, nil
	case DataTypeDecimalNumber:
		return DecimalNumberProperties{}, nil
	case DataTypeDateTime:
		return DateTimeProperties{}, nil
	case DataTypeOptionSet, DataTypeMultiSelectOptionSet:
		return OptionSetProperties{}, nil
	case DataTypeLookup:
		return LookupProperties{}, nil
	case DataTypeID:
		return IDProperties{}, nil
	case DataTypeBoolean, DataTypeGeographicLocation, DataTypeCreatedAt, DataTypeUpdatedAt,
		DataTypeRoles, DataTypePassword, DataTypeJSON:
		return NoProperties{}, nil
	}
	return nil, fmt.Errorf("schema: unknown data type %q", string(t))
}

// DecodeProperties decodes the raw JSON properties of a field with the given
// data type into its variant. Empty or null input yields the zero variant.
func DecodeProperties(t DataType, raw json.RawMessage) (Properties, error) {
	if raw = bytes.TrimSpace(raw); len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return PropertiesFor(t)
	}
	var (
		p   Properties
		err error
	)
	switch zero, zerr := PropertiesFor(t); zero.(type) {
	case nil:
		return nil, zerr
	case TextProperties:
		var v TextProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case WholeNumberProperties:
		var v WholeNumberProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case DecimalNumberProperties:
		var v DecimalNumberProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case DateTimeProperties:
		var v DateTimeProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case OptionSetProperties:
		var v OptionSetProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case LookupProperties:
		var v LookupProperties
		err = json.Unmarshal(raw, &v)
		p = v
	case IDProperties:
		var v IDProperties
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		p = NoProperties{}
	}
	if err != nil {
		return nil, fmt.Errorf("schema: decoding %s properties: %w", t, err)
	}
	return p, nil
}

// AsLookup returns the declared lookup properties of p. It reports false if
// p is not one of the lookup variants.
func AsLookup(p Properties) (LookupProperties, bool) {
	switch v := p.(type) {
	case LookupProperties:
		return v, true
	case *LookupProperties:
		if v != nil {
			return *v, true
		}
	case ResolvedLookupProperties:
		return v.LookupProperties, true
	case *ResolvedLookupProperties:
		if v != nil {
			return v.LookupProperties, true
		}
	}
	return LookupProperties{}, false
}

// AsResolvedLookup returns the resolved lookup properties of p, if any.
func AsResolvedLookup(p Properties) (ResolvedLookupProperties, bool) {
	switch v := p.(type) {
	case ResolvedLookupProperties:
		return v, true
	case *ResolvedLookupProperties:
		if v != nil {
			return *v, true
		}
	}
	return ResolvedLookupProperties{}, false
}

// IsOneToOne reports if neither side of the relation allows multiple values.
func (p ResolvedLookupProperties) IsOneToOne() bool {
	return !p.AllowMultipleSelection && !p.relatedAllowsMultiple()
}

// HoldsForeignKey reports if the entity holding this field stores the
// linking column of the relation.
func (p ResolvedLookupProperties) HoldsForeignKey() bool {
	return !p.AllowMultipleSelection && !p.IsOneToOneWithoutForeignKey
}

// Rel returns the relation type from the perspective of the field holding
// these properties.
func (p ResolvedLookupProperties) Rel() Rel {
	switch many, relatedMany := p.AllowMultipleSelection, p.relatedAllowsMultiple(); {
	case many && relatedMany:
		return M2M
	case many:
		return O2M
	case relatedMany:
		return M2O
	default:
		return O2O
	}
}

func (p ResolvedLookupProperties) relatedAllowsMultiple() bool {
	if p.RelatedField == nil {
		return false
	}
	rp, _ := AsLookup(p.RelatedField.Properties)
	return rp.AllowMultipleSelection
}
