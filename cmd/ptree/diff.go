package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/nainya/proptree/internal/server"
	"github.com/nainya/proptree/pkg/property"
)

// errTreesDiffer is returned by `diff --exit-code` when the trees differ
var errTreesDiffer = errors.New("trees differ")

func newDiffCmd(a *app) *cobra.Command {
	var (
		color    bool
		exitCode bool
	)
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Show properties added, removed and modified between two trees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldTree, err := a.loadTree(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			newTree, err := a.loadTree(cmd.InOrStdin(), args[1])
			if err != nil {
				return err
			}

			start := time.Now()
			d := oldTree.Diff(newTree)
			duration := time.Since(start)
			a.metrics.RecordDiff(d, duration)
			a.log.LogDiff(args[0], args[1], d, duration)

			view := server.NewDiffView(args[0], args[1], d)
			err = a.render(cmd.OutOrStdout(), view, func(w io.Writer) error {
				writeDiff(w, d, color)
				return nil
			})
			if err != nil {
				return err
			}
			if exitCode && !d.IsEmpty() {
				return fmt.Errorf("%w: %d changes", errTreesDiffer, d.Len())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&color, "color", false, "colour inline string changes")
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when the trees differ")
	return cmd
}

// writeDiff prints one line per entry: + added, - removed, ~ modified
func writeDiff(w io.Writer, d property.Difference, color bool) {
	if d.IsEmpty() {
		fmt.Fprintln(w, "no differences")
		return
	}
	for _, p := range d.Removed {
		fmt.Fprintf(w, "- %s\n", formatProperty(p))
	}
	for _, p := range d.Added {
		fmt.Fprintf(w, "+ %s\n", formatProperty(p))
	}
	for _, m := range d.Modified {
		fmt.Fprintf(w, "~ %s (%s): %s\n", m.Path, m.New.Type(), inlineDiff(m.Old.Value(), m.New.Value(), color))
	}
}

// inlineDiff marks character-level edits of string values as [-old-]{+new+};
// other types render as old -> new
func inlineDiff(oldValue, newValue property.Value, color bool) string {
	if oldValue.Type() != property.TypeString || newValue.Type() != property.TypeString {
		return fmt.Sprintf("%s -> %s", oldValue, newValue)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldValue.String(), newValue.String(), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	if color {
		return dmp.DiffPrettyText(diffs)
	}

	var b strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + diff.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + diff.Text + "+}")
		default:
			b.WriteString(diff.Text)
		}
	}
	return b.String()
}
