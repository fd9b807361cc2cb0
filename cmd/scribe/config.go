package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write application settings",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a setting (empty when unset)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), settings.Store().Get(args[0]))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key=value]...",
	Short: "Set one or more settings in a single write",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make(map[string]string, len(args))
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			entries[key] = value
		}

		settings, err := openSettings()
		if err != nil {
			return err
		}
		return settings.Store().SetAll(entries)
	},
}

var configRenameCmd = &cobra.Command{
	Use:   "rename [key] [new-key]",
	Short: "Move a setting to a new key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings()
		if err != nil {
			return err
		}
		if !settings.Store().RenameKey(args[0], args[1]) {
			return fmt.Errorf("setting %q not found", args[0])
		}
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := openSettings()
		if err != nil {
			return err
		}
		for _, e := range settings.Store().List() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", e.Key, e.Value)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd, configSetCmd, configRenameCmd, configListCmd)
}
