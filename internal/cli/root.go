// Package cli implements the jsondb command line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/jsondb"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir      string
	Database string
	Config   string
	Indent   string
	Verbose  bool

	logger *zap.Logger
}

// NewRootCommand creates the root command for the jsondb CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "jsondb",
		Short: "Inspect and edit jsondb databases",
		Long: `Inspect and edit the JSON document databases kept in a directory.

Each database is a file called <name>.db.json. Filters and documents are
given as JSON objects.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.loadConfig(cmd); err != nil {
				return WrapExitError(ExitCommandError, "cannot load config", err)
			}
			opts.logger = newLogger(cmd, opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", ".", "directory holding the databases")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "default", "database name")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Indent, "indent", "    ", "indentation of database files")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every operation")

	cmd.AddCommand(NewCollectionsCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewDropCommand(opts))

	return cmd
}

// loadConfig reads the config file, if any. Flags set in the command line
// take precedence.
func (o *RootOptions) loadConfig(cmd *cobra.Command) error {
	if o.Config == "" {
		return nil
	}
	cfg, err := LoadConfig(o.Config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if cfg.Dir != "" && !flags.Changed("dir") {
		o.Dir = cfg.Dir
	}
	if cfg.Database != "" && !flags.Changed("db") {
		o.Database = cfg.Database
	}
	if cfg.Indent != nil && !flags.Changed("indent") {
		o.Indent = *cfg.Indent
	}
	if cfg.Verbose && !flags.Changed("verbose") {
		o.Verbose = true
	}
	return nil
}

// newLogger writes development logs to the error output of cmd, so they never
// mix with command results.
func newLogger(cmd *cobra.Command, verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(cmd.ErrOrStderr()), zapcore.DebugLevel)
	return zap.New(core)
}

func (o *RootOptions) client() *jsondb.Client {
	return jsondb.NewClient(o.Dir,
		jsondb.WithIndent(o.Indent),
		jsondb.WithLogger(o.logger),
	)
}

// database opens the selected database.
func (o *RootOptions) database(cmd *cobra.Command) (*jsondb.Database, error) {
	db, err := o.client().Database(cmd.Context(), o.Database)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("cannot open database %q", o.Database), err)
	}
	return db, nil
}

// collection opens a collection of the selected database.
func (o *RootOptions) collection(cmd *cobra.Command, name string) (*jsondb.Collection[jsondb.M], error) {
	db, err := o.database(cmd)
	if err != nil {
		return nil, err
	}
	coll, err := db.Collection(cmd.Context(), name)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("cannot open collection %q", name), err)
	}
	return coll, nil
}
