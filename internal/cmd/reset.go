package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset stored progress to 0%",
	Long: `Reset the stored progress to 0%. An open control panel picks the change up
when it is idle; a running task in another process keeps its own progress.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := rt.ctrl.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Progress reset to 0%")
	return nil
}
