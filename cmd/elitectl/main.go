// Command elitectl is a terminal control panel with a login gate and a
// simulated progress task.
package main

import (
	"os"

	"github.com/Iron-Ham/elitectl/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
