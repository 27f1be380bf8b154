package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/compiler/load"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		outDir   string
		module   string
		workers  int
		noFormat bool
		bundle   string
	)
	cmd := &cobra.Command{
		Use:   "generate <resource>",
		Short: "Generate the modules of a resource document",
		Example: `  dsg generate shop.yaml
  dsg generate shop.json -o ./out --module example.com/shop
  dsg generate shop.cue --bundle shop.msgpack`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("output") {
				a.cfg.Output = outDir
			}
			if flags.Changed("module") {
				a.cfg.Module = module
			}
			if flags.Changed("workers") {
				a.cfg.Workers = workers
			}
			if noFormat {
				a.cfg.Format = false
			}

			ctx := cmd.Context()
			r, err := load.Load(args[0])
			if err != nil {
				return err
			}
			g, err := a.generator()
			if err != nil {
				return err
			}
			modules, err := g.Generate(ctx, r)
			if err != nil {
				return err
			}

			if bundle != "" {
				f, err := os.Create(bundle)
				if err != nil {
					return err
				}
				if err := gen.EncodeBundle(f, r.ResourceInfo.Name, modules); err != nil {
					f.Close()
					return fmt.Errorf("write bundle: %w", err)
				}
				if err := f.Close(); err != nil {
					return err
				}
				printGenerated(cmd.OutOrStdout(), modules, bundle)
				return nil
			}

			w := gen.NewModuleWriter(a.cfg.Output).
				WithWorkers(a.cfg.Workers).
				WithFormat(a.cfg.Format)
			if err := w.WriteAll(ctx, modules); err != nil {
				return err
			}
			m := w.Metrics()
			a.logger.Debug("Modules written", "files", m.FilesWritten, "bytes", m.TotalBytes)
			printGenerated(cmd.OutOrStdout(), modules, a.cfg.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "output directory (default generated, env: DSG_OUTPUT)")
	cmd.Flags().StringVar(&module, "module", "", "Go module path of the generated server")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of parallel workers (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&noFormat, "no-format", false, "write Go modules without goimports formatting")
	cmd.Flags().StringVar(&bundle, "bundle", "", "write a msgpack bundle to this file instead of the output directory")
	return cmd
}
