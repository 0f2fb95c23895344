package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mickamy/ormjoin/orm"
	"github.com/mickamy/ormjoin/repo"
)

// NewUserCommand creates the user command.
func NewUserCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show one user and their posts",
		Long: `Look up a user by identity and print the stored username, email and
posts, oldest first.

Example:
  ormjoin user 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 1 {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid user id %q", args[0]))
			}

			db, _, logger, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer closeDB(db, logger)

			u, err := repo.NewUserRepository(db).FindByIDWithPosts(cmd.Context(), id)
			if errors.Is(err, orm.ErrNotFound) {
				return NewExitError(ExitFailure, fmt.Sprintf("user %d not found", id))
			}
			if err != nil {
				return WrapExitError(ExitFailure, "lookup failed", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", u, u.Email)
			for _, p := range u.Posts {
				fmt.Fprintf(out, "  %s %s\n", p, p.Timestamp.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}
