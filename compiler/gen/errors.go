package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates an input document that cannot be decoded.
	ErrInvalidSchema = errors.New("dsg: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("dsg: missing configuration")
	// ErrMissingInput indicates a resource without the data required for a run.
	ErrMissingInput = errors.New("dsg: missing input")
	// ErrInvalidLookup indicates a lookup field that does not resolve.
	ErrInvalidLookup = errors.New("dsg: invalid lookup field")
	// ErrPluginLoad indicates a plugin that could not be loaded.
	ErrPluginLoad = errors.New("dsg: plugin load failed")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("dsg: code generation failed")
	// ErrValidationFailed indicates a validation failure.
	ErrValidationFailed = errors.New("dsg: validation failed")
	// ErrContextStage indicates a generation context mutated out of order.
	ErrContextStage = errors.New("dsg: context stage violation")
)

// SchemaError represents an input document that cannot be decoded.
type SchemaError struct {
	Source  string // File or format the resource was read from
	Entity  string // Entity name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("dsg: schema error")
	if e.Source != "" {
		b.WriteString(" in ")
		b.WriteString(e.Source)
	}
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(source, entity, message string, cause error) *SchemaError {
	return &SchemaError{
		Source:  source,
		Entity:  entity,
		Message: message,
		Cause:   cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("dsg: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("dsg: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// InputError reports a resource that lacks data required to start a run.
type InputError struct {
	Missing string // Name of the missing part, e.g. "entities"
}

// Error implements the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("dsg: missing input: %s", e.Missing)
}

// Is reports whether the target matches the sentinel error for InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrMissingInput
}

// NewInputError creates a new InputError.
func NewInputError(missing string) *InputError {
	return &InputError{Missing: missing}
}

// LookupError represents a lookup field that cannot be resolved.
type LookupError struct {
	Entity  string // Entity holding the field
	Field   string // Field name
	Related string // Missing related identifier (if applicable)
	Message string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	var b strings.Builder
	b.WriteString("dsg: lookup error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for LookupError.
func (e *LookupError) Is(target error) bool {
	return target == ErrInvalidLookup
}

// NewLookupError creates a new LookupError.
func NewLookupError(entity, field, related, message string) *LookupError {
	return &LookupError{
		Entity:  entity,
		Field:   field,
		Related: related,
		Message: message,
	}
}

// PluginError represents a plugin that failed to load.
type PluginError struct {
	Plugin  string // Plugin package name
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	var b strings.Builder
	b.WriteString("dsg: plugin error")
	if e.Plugin != "" {
		b.WriteString(" on ")
		b.WriteString(e.Plugin)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *PluginError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for PluginError.
func (e *PluginError) Is(target error) bool {
	return target == ErrPluginLoad
}

// NewPluginError creates a new PluginError.
func NewPluginError(plugin, message string, cause error) *PluginError {
	return &PluginError{
		Plugin:  plugin,
		Message: message,
		Cause:   cause,
	}
}

// GenerationError represents a code generation error.
type GenerationError struct {
	Phase   string // "server", "admin", "dto", "collect", etc.
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("dsg: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// ValidationError represents an unsupported combination of model and plugins.
type ValidationError struct {
	Entity  string
	Field   string
	Value   any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("dsg: validation error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError creates a new ValidationError.
func NewValidationError(entity, field string, value any, message string) *ValidationError {
	return &ValidationError{
		Entity:  entity,
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsInputError reports whether the error is an InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

// IsLookupError reports whether the error is a LookupError.
func IsLookupError(err error) bool {
	var lookupErr *LookupError
	return errors.As(err, &lookupErr)
}

// IsPluginError reports whether the error is a PluginError.
func IsPluginError(err error) bool {
	var pluginErr *PluginError
	return errors.As(err, &pluginErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsValidationError reports whether the error is a ValidationError.
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
