// Package schema defines the data model consumed by the dsg generator.
//
// A [Resource] is the complete input of one generation run: the entities of
// the service, its roles, the application settings and the declared plugins.
//
//	resource := &schema.Resource{
//	    ResourceInfo: &schema.AppInfo{Name: "shop"},
//	    Entities: []*schema.Entity{
//	        {
//	            ID:   "customer",
//	            Name: "Customer",
//	            Fields: []*schema.EntityField{
//	                {PermanentID: "c1", Name: "orders", DataType: schema.DataTypeLookup,
//	                    Properties: schema.LookupProperties{
//	                        RelatedEntityID:        "order",
//	                        RelatedFieldID:         "o1",
//	                        AllowMultipleSelection: true,
//	                    }},
//	            },
//	        },
//	    },
//	}
//
// # Field properties
//
// The Properties of an [EntityField] form a closed set of variants keyed by
// the field's [DataType]. Only the types declared in this package implement
// [Properties]; a Lookup field carries [LookupProperties] as declared by the
// user and [ResolvedLookupProperties] once the generator resolved the
// relation. Use [AsLookup] to read the declared relation of either variant.
//
// # Relations
//
// Resolved lookup fields describe one side of a relation. [Rel] reports the
// cardinality from the perspective of the field holding it, and
// [ResolvedLookupProperties.HoldsForeignKey] reports whether that side
// stores the linking column.
package schema
