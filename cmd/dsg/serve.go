package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/compiler/load"
	"github.com/syssam/dsg/internal/preview"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)
	cmd := &cobra.Command{
		Use:   "serve <resource>",
		Short: "Serve the generated modules for preview",
		Long: `Serve generates the modules of a resource document and serves them over
HTTP. With --watch the modules are regenerated when the document changes and
connected clients are notified over a websocket.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Preview.Addr = addr
			}
			path := args[0]
			g, err := a.generator()
			if err != nil {
				return err
			}
			source := func(ctx context.Context) ([]gen.Module, error) {
				r, err := load.Load(path)
				if err != nil {
					return nil, err
				}
				return g.Generate(ctx, r)
			}
			s := preview.New(source,
				preview.WithLogger(a.logger),
				preview.WithName(filepath.Base(path)),
			)
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			// A failed first run is reported by the server; the document can be fixed while watching.
			_ = s.Refresh(ctx)

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error { return s.ListenAndServe(ctx, a.cfg.Preview.Addr) })
			if watch {
				eg.Go(func() error { return s.Watch(ctx, filepath.Dir(path)) })
			}
			return eg.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default localhost:4000, env: DSG_PREVIEW_ADDR)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the resource document changes")
	return cmd
}
