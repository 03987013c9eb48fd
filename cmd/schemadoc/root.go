package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/reoring/schemadoc"
	"github.com/reoring/schemadoc/i18n"
	"github.com/reoring/schemadoc/rules"
	"github.com/reoring/schemadoc/source"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	schemaPath string
	logLevel   string
	lang       string

	logger zerolog.Logger
}

// newRootCmd builds the command tree. A fresh tree per invocation keeps flag
// state out of package globals.
func newRootCmd() *cobra.Command {
	o := &globalOptions{logger: zerolog.Nop()}
	cmd := &cobra.Command{
		Use:   "schemadoc",
		Short: "Inspect, cast and validate schema-described documents",
		Long: `schemadoc works with document types declared in a YAML or JSON schema.

Commands:
  schemadoc types                          # List types and fields
  schemadoc cast --type T payload.json     # Print the internal form
  schemadoc validate --type T payload.json # Report failed validations
  schemadoc jsonschema                     # Export JSON Schema`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := zerolog.ParseLevel(o.logLevel)
			if err != nil {
				return fmt.Errorf("invalid --log-level: %w", err)
			}
			o.logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
				Level(level).
				With().Timestamp().Logger()
			i18n.SetLanguage(o.lang)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&o.schemaPath, "schema", "s", "schema.yaml", "schema file (.yaml, .yml or .json)")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&o.lang, "lang", "en", "language of validation messages (en, ru)")

	cmd.AddCommand(
		newTypesCmd(o),
		newCastCmd(o),
		newValidateCmd(o),
		newJSONSchemaCmd(o),
	)
	return cmd
}

// namespace loads the schema file with the builtin predicates registered.
func (o *globalOptions) namespace() (*schemadoc.Namespace, error) {
	ts, err := source.File(o.schemaPath)
	if err != nil {
		return nil, err
	}
	ns, err := schemadoc.BuildNamespace(ts,
		schemadoc.WithPredicates(rules.Builtins()),
		schemadoc.WithLogger(o.logger),
	)
	if err != nil {
		return nil, err
	}
	o.logger.Info().Str("schema", o.schemaPath).Int("types", len(ns.Types())).Msg("schema loaded")
	return ns, nil
}

// readInput reads the payload file argument; "-" means standard input.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

// build casts one payload into a document of typeName.
func build(ns *schemadoc.Namespace, typeName string, payload map[string]any, opts schemadoc.Options) (*schemadoc.Document, error) {
	dt, ok := ns.Type(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", schemadoc.ErrUnknownType, typeName)
	}
	return dt.NewWith(opts, payload)
}
