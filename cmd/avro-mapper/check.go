package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"avro-mapper/internal/converter"
	"avro-mapper/internal/mapping"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check a mapping file against its input and output schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.load()
			if err != nil {
				return err
			}

			diags := mapping.Check(s.cfg, s.input, s.output)

			conv, err := converter.New(s.cfg, s.output)
			if err != nil {
				diags.AddError("required_fields", err.Error(), "", "")
			} else {
				for _, p := range conv.RequiredPaths() {
					diags.AddInfo("required_path", "output path must receive a value", "", p.String())
				}
			}

			out := cmd.OutOrStdout()
			for _, d := range diags.All() {
				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			if diags.HasErrors() {
				return fmt.Errorf("mapping check failed with %d error(s)", len(diags.Errors))
			}

			fmt.Fprintf(out, "ok: %d field(s) mapped\n", len(s.cfg))

			return nil
		},
	}
}
