package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a note",
	Long: `Delete removes a note and its file (unless --keep-files is set).
The last notes of the workspace cannot be deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := openService(cmd.Context())
		if err != nil {
			return err
		}

		removed, err := service.DeleteEntity(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("refusing to delete %q: the help entry and the last note are kept", args[0])
		}
		slog.Debug("note deleted", "name", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
