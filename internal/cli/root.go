// Package cli implements the ormjoin command line.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mickamy/ormjoin/internal/config"
	"github.com/mickamy/ormjoin/internal/database"
	"github.com/mickamy/ormjoin/orm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Database   string // SQLite path
	Dialect    string
	DSN        string
	Verbose    bool

	cmd *cobra.Command
}

// NewRootCommand creates the root command for the ormjoin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ormjoin",
		Short: "Join queries over users and posts",
		Long: `ormjoin seeds a small users/posts store and prints inner joins of posts
to their authors, together with the SQL the ORM compiled for them.

Example:
  ormjoin init
  ormjoin seed fixed
  ormjoin view --username susan`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.cmd = cmd

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Dialect, "dialect", "", "store dialect: sqlite, mysql or postgres (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "data source name (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every SQL statement to stderr")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func (o *RootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := o.cmd.PersistentFlags()
	if flags.Changed("dialect") {
		cfg.Database.Dialect = o.Dialect
	}
	if flags.Changed("dsn") {
		cfg.Database.DSN = o.DSN
	}
	if flags.Changed("db") {
		cfg.Database.Path = o.Database
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid config", err)
	}
	return cfg, nil
}

// logger returns a text logger on the command's stderr; --verbose lowers
// the level to debug, which includes every executed statement.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// open loads the config and connects to the store. The caller closes db.
func (o *RootOptions) open(cmd *cobra.Command) (*orm.DB, config.Config, *slog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, config.Config{}, nil, err
	}
	logger := o.logger(cmd)
	logger.Debug("opening database", "dialect", cfg.Database.Dialect, "path", cfg.Database.Path)

	db, err := database.Open(cmd.Context(), cfg.Database, logger)
	if err != nil {
		return nil, config.Config{}, nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return db, cfg, logger, nil
}

func closeDB(db *orm.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}
