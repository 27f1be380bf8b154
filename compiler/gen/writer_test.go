package gen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleWriter(t *testing.T) {
	t.Run("writes all modules", func(t *testing.T) {
		dir := t.TempDir()
		modules := []Module{
			{Path: "server/src/main.go", Code: "package main\n\nfunc main()   {}\n"},
			{Path: "server/scripts/schema.sql", Code: "CREATE TABLE t (id int);\n"},
			{Path: "admin-ui/package.json", Code: "{}\n"},
		}
		w := NewModuleWriter(dir).WithWorkers(2)
		require.NoError(t, w.WriteAll(context.Background(), modules))

		for _, m := range modules[1:] {
			b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(m.Path)))
			require.NoError(t, err)
			assert.Equal(t, m.Code, string(b))
		}
		b, err := os.ReadFile(filepath.Join(dir, "server", "src", "main.go"))
		require.NoError(t, err)
		assert.Equal(t, "package main\n\nfunc main() {}\n", string(b), "go sources are formatted")

		assert.Equal(t, 3, w.Metrics().FilesWritten)
		assert.Positive(t, w.Metrics().TotalBytes)
	})

	t.Run("format disabled", func(t *testing.T) {
		dir := t.TempDir()
		code := "package main\nfunc main()   {}\n"
		w := NewModuleWriter(dir).WithFormat(false)
		require.NoError(t, w.WriteAll(context.Background(), []Module{{Path: "main.go", Code: code}}))
		b, err := os.ReadFile(filepath.Join(dir, "main.go"))
		require.NoError(t, err)
		assert.Equal(t, code, string(b))
	})

	t.Run("invalid go source", func(t *testing.T) {
		dir := t.TempDir()
		err := NewModuleWriter(dir).WriteAll(context.Background(), []Module{{Path: "bad.go", Code: "package"}})
		require.Error(t, err)
		_, statErr := os.Stat(filepath.Join(dir, "bad.go.error"))
		assert.NoError(t, statErr)
	})

	t.Run("rejects escaping paths", func(t *testing.T) {
		err := NewModuleWriter(t.TempDir()).WriteAll(context.Background(), []Module{{Path: "../evil.txt"}})
		assert.True(t, IsGenerationError(err))
	})

	t.Run("generator write", func(t *testing.T) {
		g, err := NewGenerator(WithServerGenerator(staticGenerator{}), WithWorkers(1))
		require.NoError(t, err)
		dir := t.TempDir()
		metrics, err := g.Write(context.Background(), dir, []Module{{Path: "README.md", Code: "# shop\n"}})
		require.NoError(t, err)
		assert.Equal(t, 1, metrics.FilesWritten)
	})
}

func TestBundle(t *testing.T) {
	modules := []Module{{Path: "server/src/main.go", Code: "package main\n"}, {Path: "admin-ui/package.json", Code: "{}"}}

	var buf bytes.Buffer
	require.NoError(t, EncodeBundle(&buf, "shop", modules))

	b, err := DecodeBundle(&buf)
	require.NoError(t, err)
	assert.Equal(t, "shop", b.App)
	assert.Equal(t, modules, b.Modules)

	_, err = DecodeBundle(bytes.NewReader([]byte{0xc1}))
	assert.Error(t, err)
}
