package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	addContent string
	addStdin   bool
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a note",
	Long: `Create a new note. A name that is already taken gets a " (N)" suffix;
the final name is printed. Content comes from --content or, with --stdin,
from standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd, addContent, addStdin)
		if err != nil {
			return err
		}

		service, err := openService(cmd.Context())
		if err != nil {
			return err
		}

		var name string
		if len(args) == 1 {
			name = args[0]
		}
		r, err := service.AddEntity(name)
		if err != nil {
			return err
		}
		if err := service.UpdateEntityContent(r.Name, content); err != nil {
			return err
		}
		if err := service.Shutdown(cmd.Context()); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), r.Name)
		return nil
	},
}

func readContent(cmd *cobra.Command, flagValue string, fromStdin bool) (string, error) {
	if !fromStdin {
		return flagValue, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addContent, "content", "c", "", "Note content")
	addCmd.Flags().BoolVar(&addStdin, "stdin", false, "Read content from standard input")
}
