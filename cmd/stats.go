package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdash/internal/logging"
	"github.com/abhisek/prepdash/internal/progress"
	"github.com/abhisek/prepdash/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and practice statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openProgress(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printProgress(out, st.Document())

		logger, closeLog := logging.Open(cfg.LogPath, slog.LevelInfo)
		defer closeLog()
		journal := openJournalOptional(cfg, logger)
		if journal == nil {
			return nil
		}
		defer journal.Close()

		totals, err := journal.EventRepo().Totals(cmd.Context())
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}
		printTotals(out, totals)
		return nil
	},
}

func printProgress(w io.Writer, doc *progress.Document) {
	lc := doc.LeetCode
	fmt.Fprintf(w, "Started %s, %d days active, %d day streak\n\n",
		doc.Meta.StartDate, doc.Meta.TotalDaysActive, doc.Meta.StreakDays)
	fmt.Fprintf(w, "LeetCode  %d/%d (%d%%)\n", lc.TotalSolved, lc.TotalTarget, progress.Percent(lc.TotalSolved, lc.TotalTarget))
	for _, p := range lc.Phases {
		fmt.Fprintf(w, "  Phase %d: %-24s %d/%d (%d%%)\n", p.ID, p.Name, p.Solved, p.Target, progress.Percent(p.Solved, p.Target))
	}

	fmt.Fprintln(w, "\nSystems")
	for _, m := range doc.Systems.Modules {
		fmt.Fprintf(w, "  %-33s %d/%d\n", m.Name, m.Completed(), len(m.Topics))
	}
}

func printTotals(w io.Writer, t store.Totals) {
	fmt.Fprintf(w, "\nPractice  %d sessions, %d problems drawn, %d solutions saved\n", t.Sessions, t.Draws, t.Saves)
}
