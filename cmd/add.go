package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepdash/internal/progress"
)

var addCmd = &cobra.Command{
	Use:   "add <phase> <topic> <problem>",
	Short: "Record a solved problem",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := progress.ParseAddInput(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openProgress(cfg)
		if err != nil {
			return err
		}

		added, err := st.AddProblem(in.PhaseID, in.Topic, in.Problem)
		if err != nil {
			return fmt.Errorf("save progress: %w", err)
		}

		out := cmd.OutOrStdout()
		doc := st.Document()
		phase := doc.LeetCode.Phase(in.PhaseID)
		switch {
		case phase == nil:
			fmt.Fprintf(out, "No phase %d; nothing added.\n", in.PhaseID)
		case phase.Topic(in.Topic) == nil:
			fmt.Fprintf(out, "No topic %q in phase %d; nothing added.\n", in.Topic, in.PhaseID)
		case !added:
			fmt.Fprintf(out, "%q is already recorded under %s.\n", in.Problem, in.Topic)
		default:
			t := phase.Topic(in.Topic)
			fmt.Fprintf(out, "Added %q to %s (%d/%d).\n", in.Problem, in.Topic, t.Solved, t.Target)
		}
		return nil
	},
}
