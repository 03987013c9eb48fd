package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/schemadoc"
	"github.com/reoring/schemadoc/jsonschema"
)

func newJSONSchemaCmd(o *globalOptions) *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "jsonschema",
		Short: "Export the internal form of document types as JSON Schema",
		Long: `Export JSON Schema (draft 2020-12) for one document type, or for every
type of the schema under $defs.

Examples:
  schemadoc jsonschema
  schemadoc jsonschema --type Invoice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ns, err := o.namespace()
			if err != nil {
				return err
			}
			var s *jsonschema.Schema
			if typeName == "" {
				s = jsonschema.FromNamespace(ns)
			} else {
				dt, ok := ns.Type(typeName)
				if !ok {
					return fmt.Errorf("%w: %q", schemadoc.ErrUnknownType, typeName)
				}
				s = jsonschema.FromType(dt)
			}
			b, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "export a single document type")
	return cmd
}
