package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdash/internal/app"
	"github.com/abhisek/prepdash/internal/editor"
	"github.com/abhisek/prepdash/internal/logging"
)

// runApp loads the progress document, opens the journal, and launches the TUI.
func runApp(cmd *cobra.Command, startInSolve bool) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog := logging.Open(cfg.LogPath, slog.LevelInfo)
	defer closeLog()

	st, err := openProgress(cfg)
	if err != nil {
		logger.Error("load progress", slog.String("path", cfg.DataPath), slog.String("error", err.Error()))
		return err
	}

	opts := app.Options{
		Progress:     st,
		Launcher:     editor.New(cfg.Editor),
		Logger:       logger,
		Extension:    cfg.Extension,
		StartInSolve: startInSolve,
	}
	if journal := openJournalOptional(cfg, logger); journal != nil {
		defer journal.Close()
		opts.Journal = journal.EventRepo()
	}

	logger.Info("starting", slog.String("data", cfg.DataPath), slog.String("editor", cfg.Editor))
	return app.Run(opts)
}
