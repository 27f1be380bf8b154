package main

import (
	"github.com/spf13/cobra"

	"github.com/syssam/dsg"
	"github.com/syssam/dsg/compiler/gen"
	"github.com/syssam/dsg/compiler/gen/server"
	"github.com/syssam/dsg/internal/config"
	"github.com/syssam/dsg/internal/output"
)

// app holds the state shared by the subcommands.
type app struct {
	configFile string
	verbose    bool

	cfg    *config.Config
	logger *output.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "dsg",
		Short: "Data service generator",
		Long: `dsg generates the source of a data service from a resource document.

A resource document (JSON, YAML, CUE or msgpack) declares the entities,
roles and plugins of an application. dsg renders:
  - a Go server with models, DTOs, a GraphQL schema and table definitions
  - an optional React admin client`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "path to config file (default dsg.yaml, env: DSG_*)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "increase output verbosity")

	root.AddCommand(
		newGenerateCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
		newVerifyCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup loads the configuration and sets up logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoader().Load(a.configFile)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Verbose = true
	}
	a.cfg = cfg
	a.logger = output.New(cmd.ErrOrStderr(), output.LogConfig{Verbose: cfg.Verbose, Timestamps: output.BoolPtr(cfg.Verbose)})
	a.logger.Debug("dsg started", "version", versionString(), "output", cfg.Output)
	return nil
}

// options returns the generation options of the configuration.
func (a *app) options() []gen.Option {
	sopts := []server.Option{server.WithModule(a.cfg.Module)}
	opts := []gen.Option{gen.WithLogger(a.logger)}
	if a.cfg.Workers > 0 {
		sopts = append(sopts, server.WithWorkers(a.cfg.Workers))
		opts = append(opts, gen.WithWorkers(a.cfg.Workers))
	}
	return append(opts, gen.WithServerGenerator(server.New(sopts...)))
}

// generator returns a generator with the defaults and the configuration.
func (a *app) generator() (*gen.Generator, error) {
	return dsg.NewGenerator(a.options()...)
}
