package gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dsg/schema"
)

func resolvedShop(t *testing.T) []*schema.Entity {
	t.Helper()
	normalized, _ := Normalize(customerOrders())
	entities, err := ResolveLookupFields(normalized, nil)
	require.NoError(t, err)
	return entities
}

func dtoNames(d *EntityDTOs) []string {
	names := make([]string, len(d.DTOs))
	for i, dto := range d.DTOs {
		names[i] = dto.Name
	}
	return names
}

func fieldNames(d *DTO) []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

func TestSynthesizeDTOs(t *testing.T) {
	dtos, err := SynthesizeDTOs(context.Background(), resolvedShop(t))
	require.NoError(t, err)

	t.Run("entities in name order", func(t *testing.T) {
		var names []string
		for _, d := range dtos {
			names = append(names, d.Entity.Name)
		}
		assert.Equal(t, []string{"Customer", "Order", "Profile", "User"}, names)
	})

	t.Run("default set", func(t *testing.T) {
		customer, ok := dtos.For("Customer")
		require.True(t, ok)
		assert.Equal(t, []string{
			"Customer",
			"CustomerCreateInput",
			"CustomerUpdateInput",
			"CustomerWhereInput",
			"CustomerWhereUniqueInput",
			"CustomerOrderByInput",
			"CustomerFindManyArgs",
			"CustomerFindUniqueArgs",
			"CreateCustomerArgs",
			"UpdateCustomerArgs",
			"DeleteCustomerArgs",
			"OrderCreateNestedManyWithoutCustomersInput",
			"OrderUpdateManyWithoutCustomersInput",
		}, dtoNames(customer))
	})

	t.Run("to-one lookup uses the related unique input", func(t *testing.T) {
		order, _ := dtos.For("Order")
		create, ok := order.Get(DTOKindCreateInput)
		require.True(t, ok)
		assert.Equal(t, []string{"total", "customer"}, fieldNames(create))
		assert.Equal(t, KindObject, create.Fields[1].Kind)
		assert.Equal(t, "CustomerWhereUniqueInput", create.Fields[1].Ref)
	})

	t.Run("to-many lookup uses nested inputs", func(t *testing.T) {
		customer, _ := dtos.For("Customer")
		create, _ := customer.Get(DTOKindCreateInput)
		update, _ := customer.Get(DTOKindUpdateInput)
		assert.Equal(t, "OrderCreateNestedManyWithoutCustomersInput", create.Fields[1].Ref)
		assert.Equal(t, "OrderUpdateManyWithoutCustomersInput", update.Fields[1].Ref)

		model, _ := customer.Get(DTOKindModel)
		assert.True(t, model.Fields[2].List)
		assert.Equal(t, "Order", model.Fields[2].Ref)
	})

	t.Run("system fields are not inputs", func(t *testing.T) {
		user, _ := dtos.For("User")
		create, _ := user.Get(DTOKindCreateInput)
		assert.Equal(t, []string{"firstName", "lastName", "username", "password", "roles"}, fieldNames(create))

		model, _ := user.Get(DTOKindModel)
		assert.NotContains(t, fieldNames(model), "password")

		unique, _ := user.Get(DTOKindWhereUniqueInput)
		assert.Equal(t, []string{"id"}, fieldNames(unique))
		assert.False(t, unique.Fields[0].Optional)
	})

	t.Run("field kinds", func(t *testing.T) {
		order, _ := dtos.For("Order")
		model, _ := order.Get(DTOKindModel)
		assert.Equal(t, KindString, model.Fields[0].Kind)
		assert.Equal(t, KindFloat, model.Fields[1].Kind)
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := SynthesizeDTOs(context.Background(), resolvedShop(t))
		require.NoError(t, err)
		require.Len(t, again, len(dtos))
		for i := range dtos {
			assert.Equal(t, dtoNames(dtos[i]), dtoNames(again[i]))
		}
	})
}

func TestSynthesizeDTOsEnums(t *testing.T) {
	e := &schema.Entity{ID: "t", Name: "Ticket", Fields: []*schema.EntityField{
		scalar("t-id", "id", schema.DataTypeID),
		{
			PermanentID: "t-status", Name: "status", DataType: schema.DataTypeOptionSet,
			Properties: schema.OptionSetProperties{Options: []schema.Option{{Label: "Open", Value: "open"}}},
		},
		scalar("t-tags", "tags", schema.DataTypeMultiSelectOptionSet),
		{
			PermanentID: "t-n", Name: "number", DataType: schema.DataTypeID,
			Properties: schema.IDProperties{IDType: schema.IDTypeAutoIncrement},
		},
	}}
	dtos, err := SynthesizeDTOs(context.Background(), []*schema.Entity{e})
	require.NoError(t, err)

	ticket, _ := dtos.For("Ticket")
	require.Len(t, ticket.Enums, 2)
	assert.Equal(t, "EnumTicketStatus", ticket.Enums[0].Name)
	assert.Equal(t, []schema.Option{{Label: "Open", Value: "open"}}, ticket.Enums[0].Options)

	model, _ := ticket.Get(DTOKindModel)
	assert.Equal(t, KindEnum, model.Fields[1].Kind)
	assert.False(t, model.Fields[1].List)
	assert.True(t, model.Fields[2].List)
	assert.Equal(t, "EnumTicketTags", model.Fields[2].Ref)
	assert.Equal(t, KindInt, model.Fields[3].Kind)
}

func TestSynthesizeDTOsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := SynthesizeDTOs(ctx, resolvedShop(t))
	assert.ErrorIs(t, err, context.Canceled)
}
