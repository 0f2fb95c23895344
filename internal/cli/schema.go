package cli

import (
	"github.com/spf13/cobra"

	"github.com/mickamy/ormjoin/internal/schema"
)

// NewInitCommand creates the init command.
func NewInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the users and posts tables",
		Long: `Create the users and posts tables and their indexes if they do not
exist yet. Running it against an initialized store is a no-op.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, logger, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeDB(db, logger)

			if err := schema.Create(cmd.Context(), db); err != nil {
				return WrapExitError(ExitFailure, "failed to create schema", err)
			}
			logger.Info("schema ready")
			return nil
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "reset",
		Short:         "Drop and recreate the users and posts tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, _, logger, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeDB(db, logger)

			ctx := cmd.Context()
			if err := schema.Drop(ctx, db); err != nil {
				return WrapExitError(ExitFailure, "failed to drop schema", err)
			}
			if err := schema.Create(ctx, db); err != nil {
				return WrapExitError(ExitFailure, "failed to create schema", err)
			}
			logger.Info("schema reset")
			return nil
		},
	}
}
