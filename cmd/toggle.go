package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <module> <topic>",
	Short: "Flip the completion state of a systems topic",
	Args:  cobra.ExactArgs(2),
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
		doc := st.Document()
		module := doc.Systems.Module(args[0])
		if module == nil || module.Topic(args[1]) == nil {
			fmt.Fprintf(out, "No topic %q in module %q; nothing changed.\n", args[1], args[0])
			return nil
		}

		completed, err := st.ToggleSystemsTopic(args[0], args[1])
		if err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		state := "not completed"
		if completed {
			state = "completed"
		}
		fmt.Fprintf(out, "%s / %s: %s\n", args[0], args[1], state)
		return nil
	},
}
