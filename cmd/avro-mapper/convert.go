package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hamba/avro/v2"
	"github.com/spf13/cobra"

	"avro-mapper/internal/converter"
	"avro-mapper/internal/record"
)

const (
	formatJSON = "json"
	formatAvro = "avro"
)

type convertOptions struct {
	existing  string
	inFormat  string
	outFormat string
}

func newConvertCmd(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert one input record and write the output record to stdout",
		Long: "Convert reads an input record from the given file, or stdin when omitted, " +
			"and writes the converted record to stdout. With --existing the mapping is " +
			"applied on a copy of that record instead of a new one.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(opts.inFormat); err != nil {
				return err
			}

			if err := checkFormat(opts.outFormat); err != nil {
				return err
			}

			s, err := root.load()
			if err != nil {
				return err
			}

			conv, err := converter.New(s.cfg, s.output, converter.WithLogger(root.logger(cmd)))
			if err != nil {
				return err
			}

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			input, err := decodeRecord(opts.inFormat, s.input, data)
			if err != nil {
				return fmt.Errorf("input record: %w", err)
			}

			var existing *record.Record

			if opts.existing != "" {
				existingData, err := os.ReadFile(opts.existing)
				if err != nil {
					return fmt.Errorf("failed to read existing record %s: %w", opts.existing, err)
				}

				existing, err = decodeRecord(opts.inFormat, s.output, existingData)
				if err != nil {
					return fmt.Errorf("existing record: %w", err)
				}
			}

			out, err := conv.Convert(input, existing)
			if err != nil {
				return err
			}

			return writeRecord(cmd.OutOrStdout(), opts.outFormat, out)
		},
	}

	cmd.Flags().StringVar(&opts.existing, "existing", "", "Existing output record to map onto (same format as the input)")
	cmd.Flags().StringVar(&opts.inFormat, "in-format", formatJSON, "Input record format (json, avro)")
	cmd.Flags().StringVar(&opts.outFormat, "out-format", formatJSON, "Output record format (json, avro)")

	return cmd
}

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatAvro:
		return nil
	default:
		return fmt.Errorf("unknown record format %q (expected json or avro)", format)
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read input record %s: %w", args[0], err)
	}

	return data, nil
}

func decodeRecord(format string, s avro.Schema, data []byte) (*record.Record, error) {
	if format == formatAvro {
		return record.UnmarshalBinary(s, data)
	}

	return record.DecodeJSON(s, data)
}

func writeRecord(w io.Writer, format string, r *record.Record) error {
	var (
		data []byte
		err  error
	)

	if format == formatAvro {
		data, err = record.MarshalBinary(r)
	} else {
		data, err = r.MarshalJSON()
		data = append(data, '\n')
	}

	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output record: %w", err)
	}

	return nil
}
