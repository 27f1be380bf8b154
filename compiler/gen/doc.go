// Package gen provides the generation engine of dsg.
//
// Given a resource (entities, roles, application settings and plugin
// installations) the engine produces the modules (path and source) of a
// backend service and, optionally, of an admin client.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	schema.Resource
//	        ↓
//	   CheckInput (entities, roles, application info)
//	        ↓
//	   PluginRegistry.Load (declared, enabled plugins)
//	        ↓
//	   Normalize (system User entity, plural and display names)
//	        ↓
//	   ResolveLookupFields (relations, plugin capability checks)
//	        ↓
//	   Context (app info → roles → entities → plugins → DTOs → directories → frozen)
//	        ↓
//	   Emit: server ∥ admin (errgroup), joined
//	        ↓
//	   []Module (forward-slash paths, no duplicates)
//
// # Key Types
//
//   - Generator: runs the pipeline with its collaborators
//   - Context: the state of a single run, populated in order then frozen
//   - Plugin: an extension; capabilities are detected by type assertion
//   - ModuleGenerator: renders modules from a frozen Context
//   - DTOSynthesizer: derives the API data transfer objects
//   - Module: a generated file
//
// # Plugin Capabilities
//
//	Plugin
//	├── Name() string
//	├── FieldTypeRejecter (rejects data types, checked during resolution)
//	├── DatabaseProvider (picks the database of the generated service)
//	└── ServerModuleContributor (adds modules to the server branch)
//
// # Error Handling
//
// The package uses structured error types:
//
//   - InputError: the resource lacks required data
//   - LookupError: a lookup field does not resolve
//   - ValidationError: a field type is rejected by a loaded plugin
//   - PluginError: a plugin cannot be loaded
//   - GenerationError: a generation task failed
//   - ConfigError: invalid options
//   - SchemaError: an input document cannot be decoded
//
// Example error handling:
//
//	modules, err := gen.Generate(ctx, resource, gen.WithServerGenerator(srv))
//	if err != nil {
//	    if gen.IsLookupError(err) {
//	        // Fix the data model
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	g, err := gen.NewGenerator(
//	    gen.WithLogger(logger),
//	    gen.WithPluginRegistry(registry),
//	    gen.WithServerGenerator(server.New()),
//	    gen.WithAdminGenerator(admin.New()),
//	)
//
// # Code Organization
//
//   - bundle.go: msgpack transport of generated modules
//   - context.go: Context and directory layout
//   - dto.go: DTO descriptors and the default synthesizer
//   - errors.go: Structured error types
//   - generate.go: Generator, Emit and path normalization
//   - logger.go: Logger collaborator
//   - names.go: Naming helpers
//   - normalize.go: Entity normalization
//   - option.go: Functional option pattern for configuration
//   - plugin.go: Plugin registry and capabilities
//   - resolve.go: Lookup relationship resolution
//   - writer.go: Parallel module writer
package gen
