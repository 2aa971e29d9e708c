package main

import (
	"fmt"
	"log/slog"

	"github.com/hamba/avro/v2"
	"github.com/spf13/cobra"

	"avro-mapper/internal/logging"
	"avro-mapper/internal/mapping"
	"avro-mapper/internal/schema"
)

type rootOptions struct {
	logLevel     string
	mappingPath  string
	inputSchema  string
	outputSchema string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "avro-mapper",
		Short:        "Map Avro records onto a different schema by field path",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&opts.mappingPath, "mapping", "m", "", "Path to the YAML mapping file")
	cmd.PersistentFlags().StringVar(&opts.inputSchema, "input-schema", "", "Input schema (.avsc); overrides the mapping file")
	cmd.PersistentFlags().StringVar(&opts.outputSchema, "output-schema", "", "Output schema (.avsc); overrides the mapping file")

	cmd.AddCommand(newConvertCmd(opts), newCheckCmd(opts), newFmtCmd(opts), newServeCmd(opts))

	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) logging.Logger {
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logging.ParseLevel(o.logLevel)})
	return logging.NewSlogAdapter(slog.New(handler))
}

// setup is everything a command needs from the mapping file and schemas.
type setup struct {
	cfg    mapping.Configuration
	input  avro.Schema
	output avro.Schema
}

func (o *rootOptions) load() (*setup, error) {
	if o.mappingPath == "" {
		return nil, fmt.Errorf("--mapping is required")
	}

	mf, err := mapping.LoadFile(o.mappingPath)
	if err != nil {
		return nil, err
	}

	cfg, err := mf.Configuration()
	if err != nil {
		return nil, fmt.Errorf("mapping file %s: %w", o.mappingPath, err)
	}

	inPath := firstNonEmpty(o.inputSchema, mf.InputSchemaPath())
	outPath := firstNonEmpty(o.outputSchema, mf.OutputSchemaPath())

	if inPath == "" || outPath == "" {
		return nil, fmt.Errorf("input and output schemas must be set in the mapping file or with --input-schema/--output-schema")
	}

	in, err := schema.LoadFile(inPath)
	if err != nil {
		return nil, err
	}

	out, err := schema.LoadFile(outPath)
	if err != nil {
		return nil, err
	}

	return &setup{cfg: cfg, input: in, output: out}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
