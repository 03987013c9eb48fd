package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTypesCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List document types and their fields",
		Long: `List every document type of the schema in declaration order.

Examples:
  schemadoc types
  schemadoc types --schema invoice.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTypes(cmd, o)
		},
	}
}

func runTypes(cmd *cobra.Command, o *globalOptions) error {
	ns, err := o.namespace()
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, name := range ns.Types() {
		dt, _ := ns.Type(name)
		fmt.Fprintf(w, "%s\n", name)
		for _, field := range dt.Fields().Names() {
			def, _ := dt.Field(field)
			fmt.Fprintf(w, "  %s\t%s\t%s\n", field, def.Type, def.Validate)
		}
	}
	return w.Flush()
}
