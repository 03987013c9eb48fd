package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errInvalid is returned when at least one payload has failed validations.
// The failures themselves are already printed.
var errInvalid = errors.New("payload is invalid")

const (
	checkMark = "✓"
	crossMark = "✗"
)

func newValidateCmd(o *globalOptions) *cobra.Command {
	var f payloadFlags
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a JSON payload against a document type",
		Long: `Cast a JSON payload (an object or an array of objects) into documents
of the given type and report every failed validation. The command exits
with a non-zero status when any document is invalid.

Examples:
  schemadoc validate --type Invoice invoice.json
  schemadoc validate --type Invoice --soft-numbers --lang ru invoice.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, o, &f, args[0])
		},
	}
	f.register(cmd)
	return cmd
}

func runValidate(cmd *cobra.Command, o *globalOptions, f *payloadFlags, file string) error {
	docs, err := f.load(cmd, o, file)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	invalid := 0
	for i, d := range docs {
		fvs, err := d.FailedValidations()
		if err != nil {
			return fmt.Errorf("payload %d: %w", i, err)
		}
		if len(fvs) == 0 {
			fmt.Fprintf(out, "%s %s #%d\n", checkMark, f.typeName, i)
			continue
		}
		invalid++
		fmt.Fprintf(out, "%s %s #%d\n", crossMark, f.typeName, i)
		for _, fv := range fvs {
			fmt.Fprintf(out, "    %s: %s\n", fv.Path, fv.Message)
		}
	}
	o.logger.Debug().Int("documents", len(docs)).Int("invalid", invalid).Msg("validation finished")
	if invalid > 0 {
		return errInvalid
	}
	return nil
}
