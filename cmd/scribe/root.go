package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aretw0/scribe"
	"github.com/aretw0/scribe/pkg/core"
)

const (
	cfgKeyDataDir   = "data_dir"
	cfgKeyKeepFiles = "keep_files"
	cfgKeyExtension = "extension"

	defaultDataDir = "data"
)

var (
	verbose bool
	v       = viper.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scribe",
	Short: "A small note keeper backed by plain files",
	Long: `Scribe keeps each note in its own file inside a data directory,
next to a config.properties file holding the application settings.

The data directory is resolved from --data-dir, then SCRIBE_DATA_DIR, then the
nearest parent directory holding config.properties, then ./data.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal("Error", err)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.String("data-dir", "", "Directory holding the notes and config.properties")
	flags.Bool("keep-files", false, "Keep note files on disk when deleting notes")
	flags.String("extension", "", "Extension of note files (default .xml)")

	_ = v.BindPFlag(cfgKeyDataDir, flags.Lookup("data-dir"))
	_ = v.BindPFlag(cfgKeyKeepFiles, flags.Lookup("keep-files"))
	_ = v.BindPFlag(cfgKeyExtension, flags.Lookup("extension"))
	v.SetEnvPrefix("scribe")
	v.AutomaticEnv()
}

// resolveDataDir picks the data directory: flag or environment first, then
// the nearest workspace above the working directory, then ./data.
func resolveDataDir() (string, error) {
	if dir := v.GetString(cfgKeyDataDir); dir != "" {
		return dir, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if root, err := scribe.FindRoot(wd); err == nil {
		return root, nil
	}
	return filepath.Join(wd, defaultDataDir), nil
}

func serviceOptions() []scribe.Option {
	opts := []scribe.Option{
		scribe.WithLogger(slog.Default()),
		scribe.WithKeepFilesOnDelete(v.GetBool(cfgKeyKeepFiles)),
	}
	if ext := v.GetString(cfgKeyExtension); ext != "" {
		opts = append(opts, scribe.WithExtension(ext))
	}
	return opts
}

// openService builds the service and loads every note, reporting unreadable
// files on stderr.
func openService(ctx context.Context) (*core.Service, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	service, err := scribe.New(dir, serviceOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scribe: %w", err)
	}
	res, err := service.LoadAllEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	for _, f := range res.Failures {
		slog.Warn("note skipped", "file", f.ID, "error", f.Err)
	}
	return service, nil
}

// openSettings opens only the settings file of the workspace.
func openSettings() (*scribe.Settings, error) {
	dir, err := resolveDataDir()
	if err != nil {
		return nil, err
	}
	return scribe.OpenSettings(dir, scribe.WithLogger(slog.Default()))
}
