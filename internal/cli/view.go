package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mickamy/ormjoin/internal/report"
)

// ViewOptions holds flags for the view command.
type ViewOptions struct {
	*RootOptions
	Username string
	Prompt   bool
}

// NewViewCommand creates the view command.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ViewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Print the posts-to-authors join",
		Long: `Print the compiled SQL of the inner join of posts to their authors,
then every resulting (user, post) row. Posts without an author are not
part of the join. Row order is whatever the store returns.

With --username or --prompt the join is restricted to posts written by
that exact username.

Example:
  ormjoin view
  ormjoin view --username susan
  echo susan | ormjoin view --prompt`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "only show posts by this username")
	cmd.Flags().BoolVarP(&opts.Prompt, "prompt", "p", false, "read the username from stdin")
	cmd.MarkFlagsMutuallyExclusive("username", "prompt")

	return cmd
}

func runView(opts *ViewOptions, cmd *cobra.Command) error {
	db, _, logger, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer closeDB(db, logger)

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !opts.Prompt && !cmd.Flags().Changed("username") {
		if err := report.ViewPosts(ctx, db, out); err != nil {
			return WrapExitError(ExitFailure, "join query failed", err)
		}
		return nil
	}

	username := opts.Username
	if opts.Prompt {
		fmt.Fprint(out, "Input username to look for: ")
		username, err = readLine(cmd.InOrStdin())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read username", err)
		}
	}
	logger.Debug("filtering by username", "username", username)

	if err := report.ViewPostsFilter(ctx, db, out, username); err != nil {
		return WrapExitError(ExitFailure, "join query failed", err)
	}
	return nil
}

// readLine returns one line from r without its line terminator. A final
// line without a newline is accepted.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err //nolint:wrapcheck // wrapped by caller
	}
	if errors.Is(err, io.EOF) && line == "" {
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}
