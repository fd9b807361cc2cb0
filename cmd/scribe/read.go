package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/scribe/pkg/core"
)

var readJSON bool

var readCmd = &cobra.Command{
	Use:   "read [name]",
	Short: "Print a note",
	Long:  `Read a note by its name. Outputs the raw content by default, or a JSON object with --json.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := openService(cmd.Context())
		if err != nil {
			return err
		}

		r, ok := service.Entities().Get(args[0])
		if !ok {
			return fmt.Errorf("%w: %s", core.ErrNotFound, args[0])
		}

		out := cmd.OutOrStdout()
		if readJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(r)
		}
		fmt.Fprint(out, r.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
