package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/dsg"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <resource>...",
		Short: "Check resource documents without generating",
		Long: `Validate loads each resource document, loads its plugins, resolves its
lookup fields and derives its DTOs. Every document is checked and all
failures are reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := dsg.ValidateFiles(cmd.Context(), args, a.options()...)
			failed := make(map[string]error)
			var agg *dsg.AggregateError
			switch {
			case errors.As(err, &agg):
				for _, e := range agg.Errors {
					collectFileError(failed, e)
				}
			case err != nil:
				collectFileError(failed, err)
			}
			printValidated(cmd.OutOrStdout(), args, failed)
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d documents failed validation", len(failed), len(args))
			}
			return nil
		},
	}
}

func collectFileError(failed map[string]error, err error) {
	var fe *dsg.FileError
	if errors.As(err, &fe) {
		failed[fe.Path] = fe.Err
		return
	}
	failed[""] = err
}
