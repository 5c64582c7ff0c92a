package cmd

import (
	"os"
	"strings"

	"github.com/Iron-Ham/elitectl/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "elitectl",
	Short: "Terminal elite control panel",
	Long: `elitectl is a terminal control panel with a login gate and a simulated
"bug injection" task. Nothing is sent anywhere: progress is a counter that
ticks up to 100% and is persisted between runs.

Run 'elitectl start' for the interactive panel, or drive the same session
from scripts with login, run, status, reset and logout.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/elitectl/config.yaml)")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "keep session state in memory only")
}

func initConfig() {
	// .env values become process environment before viper reads ELITECTL_*.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		printWarning(rootCmd, "failed to load .env: %v", err)
	}

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("ELITECTL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., ELITECTL_AUTH_DELAY_MS for auth.delay_ms
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
