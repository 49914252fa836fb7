package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdash/internal/screens/history"
	"github.com/abhisek/prepdash/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent practice sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		journal, err := openJournal(cfg)
		if err != nil {
			return err
		}
		defer journal.Close()

		sessions, err := journal.EventRepo().QuerySessionSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No practice sessions yet.")
			return nil
		}
		for _, s := range sessions {
			line := history.FormatSummary(s)
			if !s.Ended {
				line += "  (unfinished)"
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of sessions to list (0 = all)")
}
