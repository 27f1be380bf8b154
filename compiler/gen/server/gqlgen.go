package server

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

type (
	// gqlgenConfig is the subset of the gqlgen configuration the service uses.
	gqlgenConfig struct {
		Schema   []string               `yaml:"schema"`
		Exec     gqlgenPackage          `yaml:"exec"`
		Model    gqlgenPackage          `yaml:"model"`
		Resolver gqlgenResolver         `yaml:"resolver"`
		Autobind []string               `yaml:"autobind,omitempty"`
		Models   map[string]gqlgenModel `yaml:"models,omitempty"`
	}

	gqlgenPackage struct {
		Filename string `yaml:"filename"`
		Package  string `yaml:"package"`
	}

	gqlgenResolver struct {
		Layout  string `yaml:"layout"`
		Dir     string `yaml:"dir"`
		Package string `yaml:"package"`
	}

	gqlgenModel struct {
		Model []string `yaml:"model"`
	}
)

// GQLGenConfig returns the gqlgen.yml of the service with the given module
// path. DTOs are bound from the dto package; custom scalars map to the
// gqlgen runtime types.
func GQLGenConfig(module string) (string, error) {
	c := gqlgenConfig{
		Schema:   []string{"src/schema.graphql"},
		Exec:     gqlgenPackage{Filename: "src/graph/generated.go", Package: "graph"},
		Model:    gqlgenPackage{Filename: "src/graph/models_gen.go", Package: "graph"},
		Resolver: gqlgenResolver{Layout: "follow-schema", Dir: "src/graph", Package: "graph"},
		Autobind: []string{module + "/src/dto"},
		Models: map[string]gqlgenModel{
			ScalarDateTime: {Model: []string{"github.com/99designs/gqlgen/graphql.Time"}},
			ScalarJSON:     {Model: []string{"github.com/99designs/gqlgen/graphql.Map"}},
		},
	}
	var b bytes.Buffer
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}
