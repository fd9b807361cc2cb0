package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a note from a file",
	Long: `Import reads a note from any supported file (.xml, .json, .yaml, .md, .txt)
and adds it under a free name, which is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := openService(cmd.Context())
		if err != nil {
			return err
		}

		r, err := service.ImportEntityFromFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := service.SaveEntity(cmd.Context(), r.Name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
