package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Iron-Ham/elitectl/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Open the interactive control panel",
	Long: `Open the full-screen control panel. The login panel is shown unless the
stored session is already logged in. Progress resumes from the stored value.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().Bool("no-bell", false, "do not ring the terminal bell")
}

func runStart(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("start needs an interactive terminal; use 'elitectl run' from scripts")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	lock, err := rt.acquireLock()
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	bell := rt.cfg.TUI.Bell
	if noBell, _ := cmd.Flags().GetBool("no-bell"); noBell {
		bell = false
	}

	app := tui.New(rt.ctrl, tui.Options{
		Bell:           bell,
		ToastDuration:  rt.cfg.TUI.ToastDuration(),
		StatusLogLines: rt.cfg.TUI.StatusLogLines,
		Hint:           loginHint(rt),
		Logger:         rt.logger,
	}).WatchStore(rt.watchDir())

	return app.Run(ctx)
}

// loginHint is the text behind the hint toggle. A hashed password is never
// revealed.
func loginHint(rt *runtime) string {
	if rt.cfg.Auth.PasswordHash != "" {
		return fmt.Sprintf("Username: %s", rt.cfg.Auth.Username)
	}
	return fmt.Sprintf("Username: %s\nPassword: %s", rt.cfg.Auth.Username, rt.cfg.Auth.Password)
}
