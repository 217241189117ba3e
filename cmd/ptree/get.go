package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nainya/proptree/internal/server"
	"github.com/nainya/proptree/pkg/path"
	"github.com/nainya/proptree/pkg/property"
)

// errNotFound is returned when a requested path resolves to no property
var errNotFound = errors.New("property not found")

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE [PATH...]",
		Short: "Print properties of a tree",
		Long: `Print every property of FILE, or only those at the given paths.
Paths look like title, address.street or tags[1].`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.loadTree(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var props []*property.Property
			if len(args) == 1 {
				tree.Walk(func(p *property.Property) bool {
					props = append(props, p)
					return true
				})
			}
			for _, ref := range args[1:] {
				p, err := path.Parse(ref)
				if err != nil {
					return err
				}
				found := tree.GetPropertyByPath(p)
				if found == nil {
					return fmt.Errorf("%w: %s", errNotFound, ref)
				}
				props = append(props, found)
			}

			views := make([]server.PropertyView, 0, len(props))
			for _, p := range props {
				views = append(views, propertyView(p))
			}
			return a.render(cmd.OutOrStdout(), views, func(w io.Writer) error {
				for _, p := range props {
					fmt.Fprintln(w, formatProperty(p))
				}
				return nil
			})
		},
	}
}

func propertyView(p *property.Property) server.PropertyView {
	view := server.PropertyView{Path: p.Path().String(), Type: p.Type().String()}
	if set, ok := p.GetPropertySet(); ok {
		view.Set = set.ToJSON()
	} else {
		view.Value = p.Value().ToJSON()
	}
	return view
}

// formatProperty renders ".path (Type) = value"; sets and nulls have no value
func formatProperty(p *property.Property) string {
	if p.Type() == property.TypeData || p.IsNull() {
		return fmt.Sprintf("%s (%s)", p.Path(), p.Type())
	}
	return fmt.Sprintf("%s (%s) = %s", p.Path(), p.Type(), p.Value())
}
