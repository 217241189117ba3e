package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nainya/proptree/internal/server"
	"github.com/nainya/proptree/pkg/version"
	"github.com/nainya/proptree/pkg/wire"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		asOf   string
		tag    string
		limit  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "history FILE...",
		Short: "Treat files as successive versions of one tree",
		Long: `Load each FILE as a version timestamped with its modification time and
tagged with its base name, then list the versions oldest first. With --as-of
or --tag the selected version's tree is printed instead.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.buildStore(args)
			if err != nil {
				return err
			}

			var selected *version.Version
			switch {
			case asOf != "":
				at, err := time.Parse(time.RFC3339, asOf)
				if err != nil {
					return fmt.Errorf("--as-of: %w", err)
				}
				if selected, err = store.AsOf(at); err != nil {
					return err
				}
			case tag != "":
				if selected, err = store.ByTag(tag); err != nil {
					return err
				}
			}
			if selected != nil {
				codec, err := wire.Lookup(format)
				if err != nil {
					return err
				}
				return a.writeTree(cmd.OutOrStdout(), stdio, codec, selected.Tree())
			}

			versions := store.List(limit)
			views := make([]server.VersionView, 0, len(versions))
			for _, v := range versions {
				views = append(views, server.NewVersionView(v))
			}
			return a.render(cmd.OutOrStdout(), views, func(w io.Writer) error {
				for _, v := range versions {
					fmt.Fprintf(w, "%-6s %s %4d properties  %s [%s]\n",
						v.ID, v.CreatedAt.UTC().Format(time.RFC3339), v.Size(), v.Description, strings.Join(v.Tags, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "print the version current at this RFC3339 time")
	cmd.Flags().StringVar(&tag, "tag", "", "print the newest version carrying this tag")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "list at most this many versions")
	cmd.Flags().StringVar(&format, "format", "json", "wire format for a printed version")
	return cmd
}
