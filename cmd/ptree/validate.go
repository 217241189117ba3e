package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// errInvalid is returned when at least one file fails validation
var errInvalid = errors.New("validation failed")

type validateResult struct {
	File       string   `json:"file" yaml:"file"`
	Valid      bool     `json:"valid" yaml:"valid"`
	Properties int      `json:"properties" yaml:"properties"`
	Errors     []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Decode trees and check their structural invariants",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]validateResult, 0, len(args))
			invalid := 0
			for _, file := range args {
				res := validateResult{File: file}
				tree, err := a.loadTree(cmd.InOrStdin(), file)
				if err == nil {
					res.Properties = tree.Size()
					err = tree.Validate()
				}
				for _, e := range multierr.Errors(err) {
					res.Errors = append(res.Errors, e.Error())
				}
				res.Valid = err == nil
				if !res.Valid {
					invalid++
				}
				fileLog := a.log.WithFields(map[string]interface{}{"file": file, "properties": res.Properties})
				if res.Valid {
					fileLog.Debug("Validated").Send()
				} else {
					fileLog.Warn("Validation failed").Strs("errors", res.Errors).Send()
				}
				results = append(results, res)
			}

			err := a.render(cmd.OutOrStdout(), results, func(w io.Writer) error {
				for _, res := range results {
					if res.Valid {
						fmt.Fprintf(w, "%s: ok (%d properties)\n", res.File, res.Properties)
						continue
					}
					fmt.Fprintf(w, "%s: invalid\n", res.File)
					for _, e := range res.Errors {
						fmt.Fprintf(w, "  - %s\n", e)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if invalid > 0 {
				return fmt.Errorf("%w: %d of %d files", errInvalid, invalid, len(args))
			}
			return nil
		},
	}
}
