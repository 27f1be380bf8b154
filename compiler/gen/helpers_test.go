package gen

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/syssam/dsg/schema"
)

func scalar(pid, name string, dt schema.DataType) *schema.EntityField {
	props, _ := schema.PropertiesFor(dt)
	return &schema.EntityField{
		ID:          "f-" + pid,
		PermanentID: pid,
		Name:        name,
		DataType:    dt,
		Properties:  props,
	}
}

func lookup(pid, name, relatedEntity, relatedField string, many bool) *schema.EntityField {
	return &schema.EntityField{
		ID:          "f-" + pid,
		PermanentID: pid,
		Name:        name,
		DataType:    schema.DataTypeLookup,
		Properties: schema.LookupProperties{
			RelatedEntityID:        relatedEntity,
			RelatedFieldID:         relatedField,
			AllowMultipleSelection: many,
		},
	}
}

// customerOrders returns a Customer with many Orders, and a one-to-one
// between Customer and Profile.
func customerOrders() []*schema.Entity {
	return []*schema.Entity{
		{
			ID:   "customer",
			Name: "Customer",
			Fields: []*schema.EntityField{
				scalar("c-id", "id", schema.DataTypeID),
				scalar("c-name", "name", schema.DataTypeSingleLineText),
				lookup("c-orders", "orders", "order", "o-customer", true),
				lookup("c-profile", "profile", "profile", "p-customer", false),
			},
		},
		{
			ID:   "order",
			Name: "Order",
			Fields: []*schema.EntityField{
				scalar("o-id", "id", schema.DataTypeID),
				scalar("o-total", "total", schema.DataTypeDecimalNumber),
				lookup("o-customer", "customer", "customer", "c-orders", false),
			},
		},
		{
			ID:   "profile",
			Name: "Profile",
			Fields: []*schema.EntityField{
				scalar("p-id", "id", schema.DataTypeID),
				lookup("p-customer", "customer", "customer", "c-profile", false),
			},
		},
	}
}

func testResource() *schema.Resource {
	return &schema.Resource{
		Entities: customerOrders(),
		Roles:    []*schema.Role{{Name: "admin", DisplayName: "Admin"}},
		ResourceInfo: &schema.AppInfo{
			Name:    "shop",
			Version: "0.1.0",
		},
	}
}

func fieldByPID(entities []*schema.Entity, pid string) *schema.EntityField {
	for _, e := range entities {
		for _, f := range e.Fields {
			if f.PermanentID == pid {
				return f
			}
		}
	}
	return nil
}

type rejecterPlugin struct{ reject map[schema.DataType]string }

func (rejecterPlugin) Name() string { return "rejecter" }

func (p rejecterPlugin) RejectFieldType(t schema.DataType) (string, bool) {
	reason, ok := p.reject[t]
	return reason, ok
}

type providerPlugin struct{ provider Provider }

func (providerPlugin) Name() string { return "provider" }

func (p providerPlugin) DatabaseProvider() Provider { return p.provider }

type contributorPlugin struct {
	modules []Module
	err     error
}

func (contributorPlugin) Name() string { return "contributor" }

func (p contributorPlugin) ServerModules(context.Context, *Context) ([]Module, error) {
	return p.modules, p.err
}

// staticGenerator returns fixed modules and records whether it ran.
type staticGenerator struct {
	modules []Module
	err     error
	called  *bool
}

func (g staticGenerator) Generate(_ context.Context, gc *Context) ([]Module, error) {
	if g.called != nil {
		*g.called = true
	}
	if !gc.Frozen() {
		return nil, errors.New("context not frozen")
	}
	return g.modules, g.err
}

func factoryOf(p Plugin) PluginFactory {
	return func(context.Context, json.RawMessage) (Plugin, error) { return p, nil }
}
