package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Iron-Ham/elitectl/internal/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log the stored session in",
	Long: `Verify a username and password and persist the result.

The password is read from the terminal without echo, or from the first line
of stdin when stdin is not a terminal. A rejected pair logs the session out.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	in := bufio.NewReader(cmd.InOrStdin())

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "Username: ")
		if username, err = readLine(in); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	password, err := readPassword(cmd, in)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Verifying...")
	if _, err := rt.ctrl.Authenticate(ctx, strings.TrimSpace(username), strings.TrimSpace(password)); err != nil {
		if errors.Is(err, errors.ErrInvalidCredentials) {
			return fmt.Errorf("%s", errors.UserMessage(err))
		}
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ACCESS GRANTED")
	return nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	return readLine(in)
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
