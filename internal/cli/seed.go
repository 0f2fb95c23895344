package cli

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/mickamy/ormjoin/internal/config"
	"github.com/mickamy/ormjoin/internal/seed"
	"github.com/mickamy/ormjoin/orm"
)

// SeedOptions holds flags for the seed subcommands.
type SeedOptions struct {
	*RootOptions
	Count    int
	RandSeed int64
}

// NewSeedCommand creates the seed command and its variants.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample users and posts",
		Long: `Insert sample users and posts.

  fixed   two users (john, susan) with two posts each
  users   random users named after a pool entry plus their position
  posts   random posts attributed to a random user id in [1, author_ids]
  random  users then posts

Example:
  ormjoin seed fixed
  ormjoin seed users --count 10
  ormjoin seed posts --count 30 --rand-seed 42`,
	}

	cmd.PersistentFlags().Int64Var(&opts.RandSeed, "rand-seed", 0, "seed for the random generator (0 uses the clock)")

	cmd.AddCommand(&cobra.Command{
		Use:           "fixed",
		Short:         "Insert two users with two posts each",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: opts.run(func(cmd *cobra.Command, s *seed.Seeder, _ config.Seed) (seed.Report, error) {
			return s.Fixed(cmd.Context())
		}),
	})

	users := &cobra.Command{
		Use:           "users",
		Short:         "Insert random users",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: opts.run(func(cmd *cobra.Command, s *seed.Seeder, cfg config.Seed) (seed.Report, error) {
			return s.RandomUsers(cmd.Context(), opts.count(cmd, cfg.Users))
		}),
	}
	users.Flags().IntVar(&opts.Count, "count", 0, "number of users (default from config, 10)")
	cmd.AddCommand(users)

	posts := &cobra.Command{
		Use:           "posts",
		Short:         "Insert random posts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: opts.run(func(cmd *cobra.Command, s *seed.Seeder, cfg config.Seed) (seed.Report, error) {
			return s.RandomPosts(cmd.Context(), opts.count(cmd, cfg.Posts))
		}),
	}
	posts.Flags().IntVar(&opts.Count, "count", 0, "number of posts (default from config, 30)")
	cmd.AddCommand(posts)

	cmd.AddCommand(&cobra.Command{
		Use:           "random",
		Short:         "Insert random users, then random posts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: opts.run(func(cmd *cobra.Command, s *seed.Seeder, cfg config.Seed) (seed.Report, error) {
			return s.Random(cmd.Context(), cfg.Users, cfg.Posts)
		}),
	})

	return cmd
}

type seedFunc func(cmd *cobra.Command, s *seed.Seeder, cfg config.Seed) (seed.Report, error)

func (o *SeedOptions) run(fn seedFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		if cmd.Flags().Changed("count") && o.Count < 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("--count must not be negative, got %d", o.Count))
		}

		db, cfg, logger, err := o.open(cmd)
		if err != nil {
			return err
		}
		defer closeDB(db, logger)

		report, err := fn(cmd, o.seeder(db, cfg.Seed, logger), cfg.Seed)
		if err != nil {
			return WrapExitError(ExitFailure, "seeding failed", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	}
}

func (o *SeedOptions) seeder(db *orm.DB, cfg config.Seed, logger *slog.Logger) *seed.Seeder {
	opts := []seed.Option{
		seed.WithLogger(logger),
		seed.WithAuthorIDs(cfg.AuthorIDs),
	}
	if o.RandSeed != 0 {
		opts = append(opts, seed.WithRand(rand.New(rand.NewSource(o.RandSeed)))) //nolint:gosec // sample data
	}
	if cfg.Password != "" {
		opts = append(opts, seed.WithPassword(cfg.Password, cfg.BcryptCost))
	}
	return seed.New(db, opts...)
}

func (o *SeedOptions) count(cmd *cobra.Command, fallback int) int {
	if cmd.Flags().Changed("count") {
		return o.Count
	}
	return fallback
}
