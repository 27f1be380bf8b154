package gen

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dsg/schema"
)

func TestResolveLookupFields(t *testing.T) {
	t.Run("one to one ownership is symmetric", func(t *testing.T) {
		entities := []*schema.Entity{
			{ID: "a", Name: "A", Fields: []*schema.EntityField{lookup("5", "b", "b", "3", false)}},
			{ID: "b", Name: "B", Fields: []*schema.EntityField{lookup("3", "a", "a", "5", false)}},
		}
		out, err := ResolveLookupFields(entities, nil)
		require.NoError(t, err)

		fa, ok := out[0].Fields[0].Lookup()
		require.True(t, ok)
		fb, ok := out[1].Fields[0].Lookup()
		require.True(t, ok)
		assert.True(t, fa.IsOneToOneWithoutForeignKey, "greater permanent ID does not hold the key")
		assert.False(t, fb.IsOneToOneWithoutForeignKey)
		assert.False(t, fa.HoldsForeignKey())
		assert.True(t, fb.HoldsForeignKey())
		assert.Equal(t, schema.O2O, fa.Rel())
		assert.Equal(t, schema.O2O, fb.Rel())
	})

	t.Run("byte-wise comparison of permanent IDs", func(t *testing.T) {
		entities := []*schema.Entity{
			{ID: "a", Name: "A", Fields: []*schema.EntityField{lookup("10", "b", "b", "9", false)}},
			{ID: "b", Name: "B", Fields: []*schema.EntityField{lookup("9", "a", "a", "10", false)}},
		}
		out, err := ResolveLookupFields(entities, nil)
		require.NoError(t, err)
		fa, _ := out[0].Fields[0].Lookup()
		fb, _ := out[1].Fields[0].Lookup()
		assert.False(t, fa.IsOneToOneWithoutForeignKey, `"10" < "9"`)
		assert.True(t, fb.IsOneToOneWithoutForeignKey)
	})

	t.Run("one to many never flags", func(t *testing.T) {
		out, err := ResolveLookupFields(customerOrders(), nil)
		require.NoError(t, err)

		orders, _ := fieldByPID(out, "c-orders").Lookup()
		customer, _ := fieldByPID(out, "o-customer").Lookup()
		assert.False(t, orders.IsOneToOneWithoutForeignKey)
		assert.False(t, customer.IsOneToOneWithoutForeignKey)
		assert.Equal(t, schema.O2M, orders.Rel())
		assert.Equal(t, schema.M2O, customer.Rel())
		assert.True(t, customer.HoldsForeignKey())
		assert.False(t, orders.HoldsForeignKey())
	})

	t.Run("relations point into the output", func(t *testing.T) {
		out, err := ResolveLookupFields(customerOrders(), nil)
		require.NoError(t, err)

		orders, _ := fieldByPID(out, "c-orders").Lookup()
		assert.Same(t, out[1], orders.RelatedEntity)
		assert.Same(t, fieldByPID(out, "o-customer"), orders.RelatedField)
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := customerOrders()
		_, err := ResolveLookupFields(in, nil)
		require.NoError(t, err)
		for _, e := range in {
			for _, f := range e.LookupFields() {
				assert.IsType(t, schema.LookupProperties{}, f.Properties)
			}
		}
	})

	t.Run("order independent", func(t *testing.T) {
		in := customerOrders()
		first, err := ResolveLookupFields(in, nil)
		require.NoError(t, err)

		permuted := slices.Clone(in)
		slices.Reverse(permuted)
		for _, e := range permuted {
			slices.Reverse(e.Fields)
		}
		second, err := ResolveLookupFields(permuted, nil)
		require.NoError(t, err)

		for _, pid := range []string{"c-orders", "c-profile", "o-customer", "p-customer"} {
			a, _ := fieldByPID(first, pid).Lookup()
			b, _ := fieldByPID(second, pid).Lookup()
			assert.Equal(t, a.IsOneToOneWithoutForeignKey, b.IsOneToOneWithoutForeignKey, pid)
			assert.Equal(t, a.RelatedEntity.ID, b.RelatedEntity.ID, pid)
			assert.Equal(t, a.RelatedField.PermanentID, b.RelatedField.PermanentID, pid)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := ResolveLookupFields(customerOrders(), nil)
		require.NoError(t, err)
		second, err := ResolveLookupFields(first, nil)
		require.NoError(t, err)

		for _, pid := range []string{"c-orders", "c-profile", "o-customer", "p-customer"} {
			a, _ := fieldByPID(first, pid).Lookup()
			b, _ := fieldByPID(second, pid).Lookup()
			assert.Equal(t, a.LookupProperties, b.LookupProperties, pid)
			assert.Equal(t, a.IsOneToOneWithoutForeignKey, b.IsOneToOneWithoutForeignKey, pid)
			assert.Same(t, fieldByPID(second, b.RelatedField.PermanentID), b.RelatedField, pid)
		}
	})

	t.Run("non lookup fields pass through", func(t *testing.T) {
		out, err := ResolveLookupFields(customerOrders(), nil)
		require.NoError(t, err)
		assert.Equal(t, schema.DecimalNumberProperties{}, fieldByPID(out, "o-total").Properties)
	})
}

func TestResolveLookupFieldsErrors(t *testing.T) {
	tests := []struct {
		name    string
		field   *schema.EntityField
		related string
		message string
	}{
		{
			name:    "missing related entity",
			field:   lookup("x", "owner", "", "c-id", false),
			message: "Lookup entity field owner must have a relatedEntityId property with a valid entity ID",
		},
		{
			name:    "missing related field",
			field:   lookup("x", "owner", "customer", "", false),
			message: "Lookup entity field owner must have a relatedFieldId property with a valid entity ID",
		},
		{
			name:    "unknown entity",
			field:   lookup("x", "owner", "ghost", "c-id", false),
			related: "ghost",
			message: "Could not find entity with the ID ghost referenced in entity field owner",
		},
		{
			name:    "unknown field",
			field:   lookup("x", "owner", "customer", "ghost", false),
			related: "ghost",
			message: "Could not find entity field with the ID ghost referenced in entity field owner",
		},
		{
			name:    "related field is not a lookup",
			field:   lookup("x", "owner", "customer", "c-name", false),
			related: "c-name",
			message: "is not a lookup field",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entities := customerOrders()
			entities = append(entities, &schema.Entity{ID: "note", Name: "Note", Fields: []*schema.EntityField{tt.field}})

			_, err := ResolveLookupFields(entities, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidLookup))

			var lookupErr *LookupError
			require.True(t, errors.As(err, &lookupErr))
			assert.Equal(t, "Note", lookupErr.Entity)
			assert.Equal(t, "owner", lookupErr.Field)
			assert.Equal(t, tt.related, lookupErr.Related)
			assert.Contains(t, lookupErr.Message, tt.message)
		})
	}
}

func TestResolveLookupFieldsRejectedType(t *testing.T) {
	const reason = "Multi Select Option Set is not supported by MySQL prisma provider. You can select another data type or change your DB to PostgreSQL"
	entities := customerOrders()
	entities[1].Fields = append(entities[1].Fields, scalar("o-tags", "tags", schema.DataTypeMultiSelectOptionSet))
	plugins := []Plugin{rejecterPlugin{reject: map[schema.DataType]string{
		schema.DataTypeMultiSelectOptionSet: reason,
	}}}

	_, err := ResolveLookupFields(entities, plugins)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "Order", valErr.Entity)
	assert.Equal(t, "tags", valErr.Field)
	assert.Equal(t, reason, valErr.Message)

	t.Run("accepted without the plugin", func(t *testing.T) {
		_, err := ResolveLookupFields(entities, []Plugin{providerPlugin{provider: ProviderPostgres}})
		require.NoError(t, err)
	})
}
