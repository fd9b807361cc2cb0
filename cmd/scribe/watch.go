package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	scribelc "github.com/aretw0/scribe/pkg/adapters/lifecycle"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to note files by other programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runWatch(ctx, cmd)
	},
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	service, err := openService(ctx)
	if err != nil {
		return err
	}

	events, err := service.Watch(ctx, watchPattern)
	if err != nil {
		return err
	}

	source := scribelc.NewSource(events)
	if err := source.Start(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for e := range source.Events() {
		fmt.Fprintln(out, e)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Only report files matching this pattern")
}
