package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// ModuleWriter writes generated modules to disk in parallel.
type ModuleWriter struct {
	outDir  string
	workers int
	format  bool

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks write performance.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
	FormatTime   int64 // nanoseconds
	WriteTime    int64 // nanoseconds
}

// NewModuleWriter creates a writer rooted at outDir. Go modules are
// formatted with goimports before they are written.
func NewModuleWriter(outDir string) *ModuleWriter {
	return &ModuleWriter{
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
		format:  true,
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *ModuleWriter) WithWorkers(n int) *ModuleWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithFormat enables or disables goimports formatting of Go modules.
func (w *ModuleWriter) WithFormat(format bool) *ModuleWriter {
	w.format = format
	return w
}

// Metrics returns the write metrics.
func (w *ModuleWriter) Metrics() *WriterMetrics {
	return w.metrics
}

// WriteAll writes all modules under the output directory. Module paths
// must be relative and stay within the output directory.
func (w *ModuleWriter) WriteAll(ctx context.Context, modules []Module) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, m := range modules {
		if !filepath.IsLocal(filepath.FromSlash(m.Path)) {
			return NewGenerationError("write", m.Path, "module path escapes the output directory", nil)
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)

	for _, m := range modules {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeModule(m)
			}
		})
	}

	return eg.Wait()
}

// writeModule writes a single module.
func (w *ModuleWriter) writeModule(m Module) error {
	fullPath := filepath.Join(w.outDir, filepath.FromSlash(m.Path))
	code := []byte(m.Code)

	// 1. Format Go sources using goimports
	var formatTime time.Duration
	if w.format && strings.HasSuffix(m.Path, ".go") {
		start := time.Now()
		formatted, err := imports.Process(fullPath, code, nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := fullPath + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, code, 0o644)
			return fmt.Errorf("format %s: %w (unformatted written to %s)", m.Path, err, debugPath)
		}
		code = formatted
		formatTime = time.Since(start)
	}

	// 2. Ensure directory exists
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", m.Path, err)
	}

	// 3. Write file
	if err := os.WriteFile(fullPath, code, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", m.Path, err)
	}

	// Update metrics
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(code))
	w.metrics.FormatTime += int64(formatTime)
	w.metrics.WriteTime += int64(time.Since(start))
	w.mu.Unlock()

	return nil
}

// Write writes the modules under dir using the configured number of workers.
func (g *Generator) Write(ctx context.Context, dir string, modules []Module) (*WriterMetrics, error) {
	w := NewModuleWriter(dir).WithWorkers(g.workers)
	if err := w.WriteAll(ctx, modules); err != nil {
		return nil, err
	}
	return w.Metrics(), nil
}
