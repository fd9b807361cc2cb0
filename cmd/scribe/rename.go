package main

import (
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename [name] [new-name]",
	Short: "Rename a note",
	Long:  `Rename a note and move its file. Renaming onto an existing note fails.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		if err := service.RenameEntity(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		return service.SaveEntity(cmd.Context(), args[1])
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
