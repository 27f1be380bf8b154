package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dsg/schema"
)

func TestNormalize(t *testing.T) {
	t.Run("creates the user entity", func(t *testing.T) {
		out, user := Normalize(customerOrders())
		require.Len(t, out, 4)
		require.NotNil(t, user)
		assert.Same(t, out[3], user)
		assert.Equal(t, UserEntityName, user.Name)
		assert.Equal(t, "users", user.PluralName)

		for _, name := range []string{"id", "createdAt", "updatedAt", "firstName", "lastName", "username", "password", "roles"} {
			_, ok := user.Field(name)
			assert.True(t, ok, name)
		}
		username, _ := user.Field("username")
		assert.Equal(t, schema.DataTypeUsername, username.DataType)
		assert.True(t, username.Unique)
	})

	t.Run("user entity is deterministic", func(t *testing.T) {
		a := NewUserEntity()
		b := NewUserEntity()
		assert.Equal(t, a, b)
		assert.NotEqual(t, a.Fields[0].ID, a.Fields[1].ID)
	})

	t.Run("keeps an existing user entity", func(t *testing.T) {
		in := append(customerOrders(), &schema.Entity{
			ID:     "my-user",
			Name:   "User",
			Fields: []*schema.EntityField{scalar("u-id", "id", schema.DataTypeID)},
		})
		out, user := Normalize(in)
		require.Len(t, out, 4)
		assert.Equal(t, "my-user", user.ID)
		assert.Len(t, user.Fields, 1)
	})

	t.Run("derives names", func(t *testing.T) {
		out, _ := Normalize([]*schema.Entity{{ID: "1", Name: "OrderItem"}, {ID: "2", Name: "Person", DisplayName: "Human"}})
		assert.Equal(t, "orderItems", out[0].PluralName)
		assert.Equal(t, "Order Item", out[0].DisplayName)
		assert.Equal(t, "Order Items", out[0].PluralDisplayName)
		assert.Equal(t, "people", out[1].PluralName)
		assert.Equal(t, "Human", out[1].DisplayName)
	})

	t.Run("idempotent and does not modify the input", func(t *testing.T) {
		in := customerOrders()
		first, _ := Normalize(in)
		second, _ := Normalize(first)
		assert.Equal(t, first, second)
		assert.Empty(t, in[0].PluralName)
		assert.Empty(t, in[0].Fields[1].DisplayName)
	})
}

func TestNames(t *testing.T) {
	tests := []struct {
		in                   string
		camel, pascal, snake string
	}{
		{"OrderItem", "orderItem", "OrderItem", "order_item"},
		{"order_item", "orderItem", "OrderItem", "order_item"},
		{"order item", "orderItem", "OrderItem", "order_item"},
		{"HTTPServer", "httpServer", "HTTPServer", "http_server"},
		{"userId", "userId", "UserID", "user_id"},
		{"address2", "address2", "Address2", "address2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.camel, camel(tt.in))
			assert.Equal(t, tt.pascal, pascal(tt.in))
			assert.Equal(t, tt.snake, snake(tt.in))
		})
	}
	assert.Equal(t, "order-item", kebab("OrderItem"))
	assert.Equal(t, "categories", plural("category"))
	assert.Equal(t, "Created At", title("createdAt"))
	assert.Equal(t, "X2fa", identifier("2fa"))
}
