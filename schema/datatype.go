package schema

import "fmt"

// DataType is the type tag of an entity field.
type DataType string

// Data types supported by the generator.
const (
	DataTypeSingleLineText       DataType = "SingleLineText"
	DataTypeMultiLineText        DataType = "MultiLineText"
	DataTypeEmail                DataType = "Email"
	DataTypeWholeNumber          DataType = "WholeNumber"
	DataTypeDateTime             DataType = "DateTime"
	DataTypeDecimalNumber        DataType = "DecimalNumber"
	DataTypeLookup               DataType = "Lookup"
	DataTypeMultiSelectOptionSet DataType = "MultiSelectOptionSet"
	DataTypeOptionSet            DataType = "OptionSet"
	DataTypeBoolean              DataType = "Boolean"
	DataTypeGeographicLocation   DataType = "GeographicLocation"
	DataTypeID                   DataType = "Id"
	DataTypeCreatedAt            DataType = "CreatedAt"
	DataTypeUpdatedAt            DataType = "UpdatedAt"
	DataTypeRoles                DataType = "Roles"
	DataTypeUsername             DataType = "Username"
	DataTypePassword             DataType = "Password"
	DataTypeJSON                 DataType = "Json"
)

// DataTypes lists all data types in declaration order.
var DataTypes = []DataType{
	DataTypeSingleLineText,
	DataTypeMultiLineText,
	DataTypeEmail,
	DataTypeWholeNumber,
	DataTypeDateTime,
	DataTypeDecimalNumber,
	DataTypeLookup,
	DataTypeMultiSelectOptionSet,
	DataTypeOptionSet,
	DataTypeBoolean,
	DataTypeGeographicLocation,
	DataTypeID,
	DataTypeCreatedAt,
	DataTypeUpdatedAt,
	DataTypeRoles,
	DataTypeUsername,
	DataTypePassword,
	DataTypeJSON,
}

// Valid reports if the data type is one of the known data types.
func (t DataType) Valid() bool {
	for _, dt := range DataTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// String implements the fmt.Stringer interface.
func (t DataType) String() string { return string(t) }

// MarshalText implements encoding.TextMarshaler.
func (t DataType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("schema: unknown data type %q", string(t))
	}
	return []byte(t), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *DataType) UnmarshalText(text []byte) error {
	dt := DataType(text)
	if !dt.Valid() {
		return fmt.Errorf("schema: unknown data type %q", string(text))
	}
	*t = dt
	return nil
}

// IsText reports if values of this type are stored as plain strings.
func (t DataType) IsText() bool {
	switch t {
	case DataTypeSingleLineText, DataTypeMultiLineText, DataTypeEmail, DataTypeUsername, DataTypePassword:
		return true
	}
	return false
}

// IsSystem reports if the field is maintained by the generated service and
// must not be set through create or update inputs.
func (t DataType) IsSystem() bool {
	switch t {
	case DataTypeID, DataTypeCreatedAt, DataTypeUpdatedAt:
		return true
	}
	return false
}
