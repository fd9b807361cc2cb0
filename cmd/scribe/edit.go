package main

import (
	"github.com/spf13/cobra"
)

var (
	editContent string
	editStdin   bool
)

var editCmd = &cobra.Command{
	Use:   "edit [name]",
	Short: "Replace the content of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd, editContent, editStdin)
		if err != nil {
			return err
		}

		service, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		if err := service.UpdateEntityContent(args[0], content); err != nil {
			return err
		}
		return service.SaveEntity(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVarP(&editContent, "content", "c", "", "New content")
	editCmd.Flags().BoolVar(&editStdin, "stdin", false, "Read content from standard input")
}
