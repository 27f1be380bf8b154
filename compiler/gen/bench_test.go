package gen_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/compiler/gen/admin"
	"github.com/syssam/dsg/compiler/gen/server"
	"github.com/syssam/dsg/schema"
)

func BenchmarkGenerate(b *testing.B) {
	data, err := os.ReadFile(filepath.Join("admin", "testdata", "shop.json"))
	require.NoError(b, err)
	r := &schema.Resource{}
	require.NoError(b, json.Unmarshal(data, r))
	g, err := gen.NewGenerator(
		gen.WithServerGenerator(server.New()),
		gen.WithAdminGenerator(admin.New()),
	)
	require.NoError(b, err)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := g.Generate(ctx, r)
		require.NoError(b, err)
	}
}

func BenchmarkWrite(b *testing.B) {
	modules := make([]gen.Module, 100)
	for i := range modules {
		modules[i] = gen.Module{Path: filepath.Join("server", "src", "m", "m"+string(rune('a'+i%26))+string(rune('a'+i/26))+".ts"), Code: "export {};\n"}
	}
	dir := b.TempDir()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		require.NoError(b, gen.NewModuleWriter(dir).WriteAll(ctx, modules))
	}
}
