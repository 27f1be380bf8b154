package gen

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dsg/schema"
)

func TestPluginRegistry(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		r := NewPluginRegistry()
		require.NoError(t, r.Register("b", factoryOf(providerPlugin{})))
		require.NoError(t, r.Register("a", factoryOf(providerPlugin{})))
		assert.Equal(t, []string{"a", "b"}, r.Names())

		err := r.Register("a", factoryOf(providerPlugin{}))
		assert.True(t, IsConfigError(err))
		assert.True(t, IsConfigError(r.Register("", factoryOf(providerPlugin{}))))
		assert.True(t, IsConfigError(r.Register("c", nil)))
		assert.Panics(t, func() { r.MustRegister("a", factoryOf(providerPlugin{})) })
	})

	t.Run("load in declared order and skip disabled", func(t *testing.T) {
		r := NewPluginRegistry()
		r.MustRegister("provider", factoryOf(providerPlugin{provider: ProviderMySQL}))
		r.MustRegister("rejecter", factoryOf(rejecterPlugin{}))

		plugins, err := r.Load(context.Background(), []*schema.PluginInstallation{
			{NPM: "rejecter", Enabled: true},
			{NPM: "unknown", Enabled: false},
			nil,
			{NPM: "provider", Enabled: true},
		})
		require.NoError(t, err)
		require.Len(t, plugins, 2)
		assert.Equal(t, "rejecter", plugins[0].Name())
		assert.Equal(t, "provider", plugins[1].Name())
	})

	t.Run("settings are passed to the factory", func(t *testing.T) {
		var got json.RawMessage
		r := NewPluginRegistry()
		r.MustRegister("p", func(_ context.Context, settings json.RawMessage) (Plugin, error) {
			got = settings
			return providerPlugin{}, nil
		})
		_, err := r.Load(context.Background(), []*schema.PluginInstallation{
			{NPM: "p", Enabled: true, Settings: json.RawMessage(`{"dbPort":5432}`)},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"dbPort":5432}`, string(got))
	})

	t.Run("unknown package", func(t *testing.T) {
		plugins, err := NewPluginRegistry().Load(context.Background(), []*schema.PluginInstallation{
			{NPM: "dsg-plugin-missing", Enabled: true},
		})
		require.Error(t, err)
		assert.Nil(t, plugins)
		assert.True(t, errors.Is(err, ErrPluginLoad))
		assert.Contains(t, err.Error(), "dsg-plugin-missing")
	})

	t.Run("factory error", func(t *testing.T) {
		cause := errors.New("bad settings")
		r := NewPluginRegistry()
		r.MustRegister("ok", factoryOf(providerPlugin{}))
		r.MustRegister("bad", func(context.Context, json.RawMessage) (Plugin, error) { return nil, cause })

		plugins, err := r.Load(context.Background(), []*schema.PluginInstallation{
			{NPM: "ok", Enabled: true},
			{NPM: "bad", Enabled: true},
		})
		assert.Nil(t, plugins)
		assert.True(t, errors.Is(err, cause))
		assert.True(t, IsPluginError(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := NewPluginRegistry()
		r.MustRegister("ok", factoryOf(providerPlugin{}))
		_, err := r.Load(ctx, []*schema.PluginInstallation{{NPM: "ok", Enabled: true}})
		assert.True(t, errors.Is(err, context.Canceled))
		assert.True(t, errors.Is(err, ErrPluginLoad))
	})
}

func TestCapabilities(t *testing.T) {
	assert.Equal(t, []string{CapabilityFieldTypeRejecter}, Capabilities(rejecterPlugin{}))
	assert.Equal(t, []string{CapabilityDatabaseProvider}, Capabilities(providerPlugin{}))
	assert.Equal(t, []string{CapabilityServerModuleContributor}, Capabilities(contributorPlugin{}))

	p, ok := FindDatabaseProvider([]Plugin{rejecterPlugin{}, providerPlugin{provider: ProviderSQLite}})
	require.True(t, ok)
	assert.Equal(t, ProviderSQLite, p)

	_, ok = FindDatabaseProvider([]Plugin{rejecterPlugin{}})
	assert.False(t, ok)
}
