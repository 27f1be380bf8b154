package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("unexpected token")
		err := NewSchemaError("app.yaml", "Order", "cannot decode", cause)

		assert.Contains(t, err.Error(), "dsg: schema error")
		assert.Contains(t, err.Error(), "in app.yaml")
		assert.Contains(t, err.Error(), "entity Order")
		assert.Contains(t, err.Error(), "cannot decode")
		assert.Contains(t, err.Error(), "unexpected token")
	})

	t.Run("Error message with source only", func(t *testing.T) {
		err := &SchemaError{Source: "app.json"}
		assert.Contains(t, err.Error(), "in app.json")
		assert.NotContains(t, err.Error(), "entity")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewSchemaError("app.json", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrInvalidSchema))
	})

	t.Run("IsSchemaError helper", func(t *testing.T) {
		assert.True(t, IsSchemaError(NewSchemaError("app.json", "", "test", nil)))
		assert.False(t, IsSchemaError(errors.New("other")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Workers", -1, "must be positive")

		assert.Contains(t, err.Error(), "dsg: config error")
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "-1")
		assert.Contains(t, err.Error(), "must be positive")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("ServerGenerator", nil, "cannot be nil")

		assert.Contains(t, err.Error(), "ServerGenerator")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		assert.True(t, errors.Is(NewConfigError("Target", nil, "missing"), ErrMissingConfig))
	})
}

func TestInputError(t *testing.T) {
	err := NewInputError("entities")
	assert.Equal(t, "dsg: missing input: entities", err.Error())
	assert.True(t, errors.Is(err, ErrMissingInput))
	assert.True(t, IsInputError(fmt.Errorf("run: %w", err)))
}

func TestLookupError(t *testing.T) {
	t.Run("Error message names entity and field", func(t *testing.T) {
		err := NewLookupError("Order", "customer", "c-1", "could not find entity with the ID c-1")

		assert.Contains(t, err.Error(), "dsg: lookup error")
		assert.Contains(t, err.Error(), "entity Order")
		assert.Contains(t, err.Error(), "field customer")
		assert.Contains(t, err.Error(), "c-1")
	})

	t.Run("Is matches ErrInvalidLookup", func(t *testing.T) {
		err := NewLookupError("Order", "customer", "", "")
		assert.True(t, errors.Is(err, ErrInvalidLookup))
		assert.True(t, IsLookupError(err))
		assert.False(t, IsValidationError(err))
	})
}

func TestPluginError(t *testing.T) {
	cause := errors.New("bad settings")
	err := NewPluginError("dsg-plugin-db-mysql", "factory failed", cause)

	assert.Contains(t, err.Error(), "dsg: plugin error on dsg-plugin-db-mysql")
	assert.Contains(t, err.Error(), "factory failed")
	assert.Contains(t, err.Error(), "bad settings")
	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrPluginLoad))
	assert.True(t, IsPluginError(err))
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("template failed")
		err := NewGenerationError("admin", "src/App.tsx", "cannot render", cause)

		assert.Contains(t, err.Error(), "dsg: generation error")
		assert.Contains(t, err.Error(), "phase admin")
		assert.Contains(t, err.Error(), "file: src/App.tsx")
		assert.Contains(t, err.Error(), "cannot render")
		assert.Contains(t, err.Error(), "template failed")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("io error")
		err := NewGenerationError("server", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewValidationError("Order", "tags", "MultiSelectOptionSet", "not supported")

		assert.Contains(t, err.Error(), "dsg: validation error")
		assert.Contains(t, err.Error(), "entity Order")
		assert.Contains(t, err.Error(), "field tags")
		assert.Contains(t, err.Error(), "not supported")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := &ValidationError{Cause: cause}

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
	})
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidSchema, "dsg: invalid schema"},
		{ErrMissingConfig, "dsg: missing configuration"},
		{ErrMissingInput, "dsg: missing input"},
		{ErrInvalidLookup, "dsg: invalid lookup field"},
		{ErrPluginLoad, "dsg: plugin load failed"},
		{ErrGenerationFailed, "dsg: code generation failed"},
		{ErrValidationFailed, "dsg: validation failed"},
		{ErrContextStage, "dsg: context stage violation"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorTypeChecking(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isSchema bool
		isConfig bool
		isInput  bool
		isLookup bool
		isPlugin bool
		isGen    bool
		isVal    bool
	}{
		{name: "SchemaError", err: NewSchemaError("app.json", "", "", nil), isSchema: true},
		{name: "ConfigError", err: NewConfigError("Target", nil, ""), isConfig: true},
		{name: "InputError", err: NewInputError("resourceInfo"), isInput: true},
		{name: "LookupError", err: NewLookupError("Order", "customer", "", ""), isLookup: true},
		{name: "PluginError", err: NewPluginError("x", "", nil), isPlugin: true},
		{name: "GenerationError", err: NewGenerationError("server", "", "", nil), isGen: true},
		{name: "ValidationError", err: NewValidationError("Order", "tags", nil, ""), isVal: true},
		{name: "Other error", err: errors.New("other")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isSchema, IsSchemaError(tt.err))
			assert.Equal(t, tt.isConfig, IsConfigError(tt.err))
			assert.Equal(t, tt.isInput, IsInputError(tt.err))
			assert.Equal(t, tt.isLookup, IsLookupError(tt.err))
			assert.Equal(t, tt.isPlugin, IsPluginError(tt.err))
			assert.Equal(t, tt.isGen, IsGenerationError(tt.err))
			assert.Equal(t, tt.isVal, IsValidationError(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	t.Run("As LookupError", func(t *testing.T) {
		err := fmt.Errorf("resolve: %w", NewLookupError("Order", "customer", "c-1", "missing"))
		var lookupErr *LookupError
		require.True(t, errors.As(err, &lookupErr))
		assert.Equal(t, "Order", lookupErr.Entity)
		assert.Equal(t, "customer", lookupErr.Field)
		assert.Equal(t, "c-1", lookupErr.Related)
	})

	t.Run("As GenerationError", func(t *testing.T) {
		err := NewGenerationError("server", "src/main.go", "failed", nil)
		var genErr *GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, "server", genErr.Phase)
		assert.Equal(t, "src/main.go", genErr.File)
	})

	t.Run("As ValidationError", func(t *testing.T) {
		err := NewValidationError("Order", "tags", "MultiSelectOptionSet", "invalid")
		var valErr *ValidationError
		require.True(t, errors.As(err, &valErr))
		assert.Equal(t, "Order", valErr.Entity)
		assert.Equal(t, "tags", valErr.Field)
		assert.Equal(t, "MultiSelectOptionSet", valErr.Value)
	})
}
