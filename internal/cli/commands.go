package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/jsondb"
)

// NewCollectionsCommand creates the collections command.
func NewCollectionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "collections",
		Short: "List the collections of a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.database(cmd)
			if err != nil {
				return err
			}
			names, err := db.Collections(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "find <collection> [filter]",
		Short: "Print the documents matching a filter",
		Long: `Print the documents matching a filter as a JSON array. Without a
filter, every document of the collection is printed.

Example:
  jsondb find books '{"author": "Jane Austen"}'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseObject(optionalArg(args, 1), "filter")
			if err != nil {
				return err
			}
			coll, err := rootOpts.collection(cmd, args[0])
			if err != nil {
				return err
			}
			docs, err := coll.Find(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return writeDocuments(cmd.OutOrStdout(), docs)
		},
	}
}

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "count <collection> [filter]",
		Short: "Print how many documents match a filter",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseObject(optionalArg(args, 1), "filter")
			if err != nil {
				return err
			}
			coll, err := rootOpts.collection(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := coll.Count(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <collection> <document>...",
		Short: "Insert documents and print them",
		Long: `Insert documents and print them with their generated ids and
timestamps. Either every document is inserted or none is.

Example:
  jsondb insert books '{"title": "Emma"}' '{"title": "Dune"}'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]jsondb.M, 0, len(args)-1)
			for _, arg := range args[1:] {
				value, err := parseObject(arg, "document")
				if err != nil {
					return err
				}
				values = append(values, value)
			}
			coll, err := rootOpts.collection(cmd, args[0])
			if err != nil {
				return err
			}
			docs, err := coll.InsertMany(cmd.Context(), values)
			if err != nil {
				return err
			}
			return writeDocuments(cmd.OutOrStdout(), docs)
		},
	}
}

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Many bool
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <collection> <filter> <patch>",
		Short: "Merge a patch onto matching documents and print them",
		Long: `Merge a patch onto the first document matching a filter, or onto
every matching document with --many, and print the updated documents.

Example:
  jsondb update books '{"title": "Emma"}' '{"year": 1815}'`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Many, "many", false, "update every matching document")

	return cmd
}

func runUpdate(cmd *cobra.Command, opts *UpdateOptions, args []string) error {
	filter, err := parseFilter(args[1])
	if err != nil {
		return err
	}
	patch, err := parseObject(args[2], "patch")
	if err != nil {
		return err
	}
	coll, err := opts.collection(cmd, args[0])
	if err != nil {
		return err
	}

	if opts.Many {
		docs, err := coll.UpdateMany(cmd.Context(), filter, patch)
		if err != nil {
			return err
		}
		return writeDocuments(cmd.OutOrStdout(), docs)
	}

	doc, err := coll.UpdateOne(cmd.Context(), filter, patch)
	if err != nil {
		return err
	}
	docs := make([]*jsondb.Document[jsondb.M], 0, 1)
	if doc != nil {
		docs = append(docs, doc)
	}
	return writeDocuments(cmd.OutOrStdout(), docs)
}

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Many bool
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <collection> <filter>",
		Short: "Delete matching documents and print how many were deleted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(args[1])
			if err != nil {
				return err
			}
			coll, err := opts.collection(cmd, args[0])
			if err != nil {
				return err
			}

			deleteFn := coll.DeleteOne
			if opts.Many {
				deleteFn = coll.DeleteMany
			}
			n, err := deleteFn(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Many, "many", false, "delete every matching document")

	return cmd
}

// NewDropCommand creates the drop command.
func NewDropCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drop",
		Short: "Remove the database file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rootOpts.client().DropDatabase(cmd.Context(), rootOpts.Database); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("cannot drop database %q", rootOpts.Database), err)
			}
			return nil
		},
	}
}

func optionalArg(args []string, n int) string {
	if len(args) > n {
		return args[n]
	}
	return ""
}
