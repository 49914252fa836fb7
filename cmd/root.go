package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdash/internal/config"
	"github.com/abhisek/prepdash/internal/progress"
	"github.com/abhisek/prepdash/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "prepdash",
	Short: "Interview prep progress dashboard",
	Long:  "prepdash tracks solved coding problems and systems-study topics, and re-surfaces solved problems for practice.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("data", "", "Path to progress.json (overrides PREPDASH_DATA)")
	rootCmd.PersistentFlags().String("editor", "", "Editor executable for solutions (overrides PREPDASH_EDITOR, VISUAL, EDITOR)")
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig merges the persistent flags with the environment, the
// config file, and the defaults.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	data, _ := cmd.Flags().GetString("data")
	editor, _ := cmd.Flags().GetString("editor")
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Overrides{DataPath: data, Editor: editor, ConfigPath: path})
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openProgress loads the progress document. A missing or unreadable file
// is fatal.
func openProgress(cfg config.Config) (*progress.Store, error) {
	st, err := progress.Open(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// openJournal opens the practice journal database.
func openJournal(cfg config.Config) (*store.Store, error) {
	if err := store.EnsureDir(cfg.JournalPath); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	st, err := store.Open(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return st, nil
}

// openJournalOptional opens the journal, logging and returning nil on failure.
func openJournalOptional(cfg config.Config, logger *slog.Logger) *store.Store {
	st, err := openJournal(cfg)
	if err != nil {
		logger.Warn("practice journal unavailable", slog.String("path", cfg.JournalPath), slog.String("error", err.Error()))
		return nil
	}
	return st
}
