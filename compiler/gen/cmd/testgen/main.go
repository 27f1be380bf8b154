// testgen is a simple test program to demonstrate the generator.
// Run: go run ./compiler/gen/cmd/testgen
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/compiler/gen/admin"
	"github.com/syssam/dsg/compiler/gen/server"
	"github.com/syssam/dsg/schema"
)

func main() {
	outDir, err := os.MkdirTemp("", "dsg-test-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Output directory: %s\n", outDir)

	lookup := func(pid, name, entity, related string, many bool) *schema.EntityField {
		return &schema.EntityField{
			PermanentID: pid,
			Name:        name,
			DataType:    schema.DataTypeLookup,
			Properties: schema.LookupProperties{
				RelatedEntityID:        entity,
				RelatedFieldID:         related,
				AllowMultipleSelection: many,
			},
		}
	}
	resource := &schema.Resource{
		ResourceInfo: &schema.AppInfo{
			Name: "garage",
			Settings: schema.AppSettings{
				AdminUISettings: schema.AdminUISettings{GenerateAdminUI: true},
			},
		},
		Roles: []*schema.Role{{Name: "admin", DisplayName: "Admin"}},
		Entities: []*schema.Entity{
			{
				ID:   "owner",
				Name: "Owner",
				Fields: []*schema.EntityField{
					{PermanentID: "owner-id", Name: "id", DataType: schema.DataTypeID, Properties: schema.IDProperties{}},
					{PermanentID: "owner-name", Name: "name", DataType: schema.DataTypeSingleLineText, Required: true, Properties: schema.TextProperties{}},
					lookup("owner-cars", "cars", "car", "car-owner", true),
				},
			},
			{
				ID:   "car",
				Name: "Car",
				Fields: []*schema.EntityField{
					{PermanentID: "car-id", Name: "id", DataType: schema.DataTypeID, Properties: schema.IDProperties{}},
					{PermanentID: "car-model", Name: "model", DataType: schema.DataTypeSingleLineText, Properties: schema.TextProperties{}},
					{PermanentID: "car-registered", Name: "registeredAt", DataType: schema.DataTypeDateTime, Properties: schema.DateTimeProperties{}},
					lookup("car-owner", "owner", "owner", "owner-cars", false),
				},
			},
		},
	}

	g, err := gen.NewGenerator(
		gen.WithServerGenerator(server.New(server.WithModule("example.com/garage"))),
		gen.WithAdminGenerator(admin.New()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create generator: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	fmt.Println("Generating modules...")
	modules, err := g.Generate(ctx, resource)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}
	metrics, err := g.Write(ctx, outDir, modules)
	if err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGenerated files:")
	for _, m := range modules {
		fmt.Printf("  %s (%d bytes)\n", m.Path, len(m.Code))
	}
	fmt.Printf("\n%d files, %d bytes\n", metrics.FilesWritten, metrics.TotalBytes)

	fmt.Println("\n--- Sample: server/src/car/car.go ---")
	content, err := os.ReadFile(filepath.Join(outDir, "server", "src", "car", "car.go"))
	if err == nil {
		fmt.Print(string(content))
	}

	fmt.Printf("\nTo inspect generated code: ls -la %s\n", outDir)
	fmt.Println("Done!")
}
