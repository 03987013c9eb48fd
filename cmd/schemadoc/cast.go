package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/schemadoc"
	"github.com/reoring/schemadoc/source"
)

// payloadFlags are shared by cast and validate.
type payloadFlags struct {
	typeName    string
	path        string
	softNumbers bool
}

func (f *payloadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typeName, "type", "t", "", "document type of the payload (required)")
	cmd.Flags().StringVarP(&f.path, "path", "p", "", "gjson path of the object or array to read")
	cmd.Flags().BoolVar(&f.softNumbers, "soft-numbers", false, "accept numeric strings for number fields")
	_ = cmd.MarkFlagRequired("type")
}

func (f *payloadFlags) options() schemadoc.Options {
	if !f.softNumbers {
		return schemadoc.Options{}
	}
	return schemadoc.Options{SoftNumbers: schemadoc.Bool(true)}
}

// load reads the payload argument and casts every object it holds.
func (f *payloadFlags) load(cmd *cobra.Command, o *globalOptions, file string) ([]*schemadoc.Document, error) {
	ns, err := o.namespace()
	if err != nil {
		return nil, err
	}
	data, err := readInput(cmd, file)
	if err != nil {
		return nil, err
	}
	payloads, err := source.Payloads(data, f.path)
	if err != nil {
		return nil, err
	}
	docs := make([]*schemadoc.Document, 0, len(payloads))
	for i, p := range payloads {
		d, err := build(ns, f.typeName, p, f.options())
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		docs = append(docs, d)
	}
	o.logger.Debug().Str("type", f.typeName).Int("documents", len(docs)).Msg("payload cast")
	return docs, nil
}

func newCastCmd(o *globalOptions) *cobra.Command {
	var f payloadFlags
	cmd := &cobra.Command{
		Use:   "cast FILE",
		Short: "Cast a JSON payload and print its internal form",
		Long: `Cast a JSON payload (an object or an array of objects) into documents
of the given type and print their internal form as JSON. Use "-" to read
standard input.

Examples:
  schemadoc cast --type Invoice invoice.json
  schemadoc cast --type Line --path data.lines order.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := f.load(cmd, o, args[0])
			if err != nil {
				return err
			}
			var out any = docs
			if len(docs) == 1 {
				out = docs[0]
			}
			b, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
