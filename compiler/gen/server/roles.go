package server

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/schema"
)

// genRoles generates the role constants of the service (auth/roles.go).
func genRoles(roles []*schema.Role) *jen.File {
	f := jen.NewFile("auth")
	f.HeaderComment(Header)
	f.PackageComment("Package auth declares the user roles of the service.")

	f.Comment("Role is a user role.")
	f.Type().Id("Role").String()

	var names []jen.Code
	seen := make(map[string]bool)
	defs := make([]jen.Code, 0, len(roles))
	for _, r := range roles {
		if r == nil || r.Name == "" {
			continue
		}
		id := "Role" + gen.Identifier(r.Name)
		if seen[id] {
			continue
		}
		seen[id] = true
		def := jen.Id(id).Id("Role").Op("=").Lit(r.Name)
		if r.DisplayName != "" {
			def = jen.Comment(id + " is the " + r.DisplayName + " role.").Line().Add(def)
		}
		defs = append(defs, def)
		names = append(names, jen.Id(id))
	}
	if len(defs) > 0 {
		f.Const().Defs(defs...)
	}

	f.Comment("Roles lists the roles of the service.")
	f.Var().Id("Roles").Op("=").Index().Id("Role").Values(names...)

	f.Comment("Valid reports if r is one of the roles of the service.")
	f.Func().Params(jen.Id("r").Id("Role")).Id("Valid").Params().Bool().Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("v")).Op(":=").Range().Id("Roles")).Block(
			jen.If(jen.Id("v").Op("==").Id("r")).Block(jen.Return(jen.True())),
		),
		jen.Return(jen.False()),
	)
	return f
}
