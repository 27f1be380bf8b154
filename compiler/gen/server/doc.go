// Package server implements the default renderer of the backend service.
//
// The Generator renders a frozen gen.Context into the modules of a Go
// service. Models and DTOs are built with Jennifer, the table definitions
// are planned with Atlas for the database provider of the run, and the
// GraphQL schema is built as a gqlparser AST, formatted and validated.
//
// # Generated Output Structure
//
//	{server}/
//	├── go.mod
//	├── gqlgen.yml            # gqlgen configuration binding the DTOs
//	├── auth/
//	│   └── roles.go          # Role constants
//	├── scripts/
//	│   └── schema.sql        # CREATE TABLE statements
//	└── src/
//	    ├── main.go           # HTTP entry point
//	    ├── schema.graphql    # API schema
//	    ├── dto/
//	    │   ├── dto.go        # Shared declarations
//	    │   └── {entity}.go   # Enums, inputs and args of the entity
//	    └── {entity}/
//	        └── {entity}.go   # Model struct, table and columns
//
// # Relations
//
// A to-one lookup is stored as a foreign key column on the side that owns
// the link: the many side of one-to-many relations, and the side without
// IsOneToOneWithoutForeignKey of one-to-one relations. Many-to-many
// relations use a join table named after the field with the smaller
// permanent id.
package server
