package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nainya/proptree/pkg/wire"
)

func newConvertCmd(a *app) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert IN [OUT]",
		Short: "Re-encode a tree in another wire format",
		Long: fmt.Sprintf(`Re-encode IN into OUT, or stdout when OUT is omitted. Formats (%s)
default to the file extensions; stdout defaults to json.`, strings.Join(wire.Names(), ", ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := codecFor(from, args[0])
			if err != nil {
				return err
			}
			tree, err := a.readTree(cmd.InOrStdin(), args[0], in)
			if err != nil {
				return err
			}

			out := stdio
			if len(args) == 2 {
				out = args[1]
			}
			target, err := codecFor(to, out)
			if err != nil {
				return err
			}

			a.log.Debug("Converting").
				Str("in", args[0]).
				Str("from", in.Name()).
				Str("out", out).
				Str("to", target.Name()).
				Int("properties", tree.Size()).
				Send()
			return a.writeTree(cmd.OutOrStdout(), out, target, tree)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "input format")
	cmd.Flags().StringVar(&to, "to", "", "output format")
	return cmd
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the wire format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := wire.SchemaJSON()
			if err != nil {
				return err
			}
			a.log.Debug("Schema rendered").Int("bytes", len(data)).Send()
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
