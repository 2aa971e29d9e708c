package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"avro-mapper/internal/mapping"
)

func newFmtCmd(root *rootOptions) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite a mapping file in canonical form",
		Long: "Fmt validates every path of the mapping file and prints it with " +
			"fields sorted by key. Entries whose output path is their key use the " +
			"shorthand form.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if root.mappingPath == "" {
				return fmt.Errorf("--mapping is required")
			}

			mf, err := mapping.LoadFile(root.mappingPath)
			if err != nil {
				return err
			}

			cfg, err := mf.Configuration()
			if err != nil {
				return fmt.Errorf("mapping file %s: %w", root.mappingPath, err)
			}

			canonical := mapping.FromConfiguration(cfg)
			canonical.Version = mf.Version
			canonical.InputSchema, canonical.OutputSchema = mf.InputSchema, mf.OutputSchema

			if write {
				return mapping.WriteFile(canonical, root.mappingPath)
			}

			data, err := mapping.Marshal(canonical)
			if err != nil {
				return fmt.Errorf("failed to marshal mapping: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the mapping file")

	return cmd
}
