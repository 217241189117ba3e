package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nainya/proptree/pkg/path"
	"github.com/nainya/proptree/pkg/property"
	"github.com/nainya/proptree/pkg/wire"
)

// editFlags are shared by the commands that rewrite a tree
type editFlags struct {
	out string
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.out, "out", "", "write the result here instead of back to FILE (- for stdout)")
}

// edit loads file, applies fn with event logging and counting attached,
// then writes the tree back
func (a *app) edit(cmd *cobra.Command, file string, flags *editFlags, fn func(*property.PropertyTree) error) error {
	tree, err := a.loadTree(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}

	subs := []*property.Subscription{
		tree.OnChanged(a.log.TreeLogger(file).EventListener()),
		tree.OnChanged(a.metrics.EventListener()),
	}
	defer func() {
		for _, s := range subs {
			s.Cancel()
		}
	}()

	if err := fn(tree); err != nil {
		return err
	}
	if err := tree.Validate(); err != nil {
		return err
	}
	a.metrics.UpdateTreeStats(tree)

	target := flags.out
	if target == "" {
		target = file
	}
	codec := wire.ForFile(target)
	if target == stdio {
		codec = wire.ForFile(file)
	}
	return a.writeTree(cmd.OutOrStdout(), target, codec, tree)
}

func newSetCmd(a *app) *cobra.Command {
	var (
		flags    editFlags
		typeName string
		convert  bool
	)
	cmd := &cobra.Command{
		Use:   "set FILE PATH VALUE",
		Short: "Set the value at PATH, creating missing properties and sets",
		Long: `Set the value at PATH. VALUE is parsed as --type, defaulting to the
existing property's type or String. With --convert an existing array of a
different type is converted first.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, raw := args[1], args[2]
			return a.edit(cmd, args[0], &flags, func(tree *property.PropertyTree) error {
				p, err := path.Parse(ref)
				if err != nil {
					return err
				}
				existing := tree.GetPropertyByPath(p)

				typ := property.TypeString
				if existing != nil {
					typ = existing.Type()
				}
				if typeName != "" {
					if typ, err = property.ParseValueType(typeName); err != nil {
						return err
					}
				}
				if typ == property.TypeData || !typ.IsConvertible(raw) {
					return fmt.Errorf("%w: %q is not a %s", property.ErrInvalidValue, raw, typ)
				}

				if existing != nil && existing.Type() != typ && convert {
					if err := existing.Convert(typ); err != nil {
						return err
					}
				}
				_, err = tree.SetPropertyByPath(p, typ.NewValue(raw))
				return err
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "value type tag (String, Long, Double, Boolean, Instant, ...)")
	cmd.Flags().BoolVar(&convert, "convert", false, "convert an existing array to --type before setting")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	var flags editFlags
	cmd := &cobra.Command{
		Use:     "remove FILE PATH...",
		Aliases: []string{"rm"},
		Short:   "Remove properties; later siblings shift down",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], &flags, func(tree *property.PropertyTree) error {
				for _, ref := range args[1:] {
					if err := removePath(tree, ref); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func removePath(tree *property.PropertyTree, ref string) error {
	p, err := path.Parse(ref)
	if err != nil {
		return err
	}
	if tree.GetPropertyByPath(p) == nil {
		return fmt.Errorf("%w: %s", errNotFound, ref)
	}

	parent := tree.Root()
	if p.Len() > 1 {
		container := tree.GetPropertyByPath(p.Parent())
		set, ok := container.GetPropertySet()
		if !ok {
			return fmt.Errorf("%w: %s", property.ErrNotPropertySet, container.Path())
		}
		parent = set
	}
	last, _ := p.LastElement()
	return parent.RemoveProperty(last.Name, last.Index)
}
