package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log the stored session out",
	Long:  `Mark the stored session as logged out. Progress is kept.`,
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if _, err := rt.ctrl.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}
