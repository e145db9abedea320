// Package cmd provides the CLI commands for repairdesk.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repairdesk/adapters/backend"
	"repairdesk/core/intake"
	"repairdesk/core/ui"
	"repairdesk/internal/config"
	"repairdesk/internal/logging"
)

const version = "0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool
	noColor bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "repairdesk",
	Short: "Price and submit repair intakes",
	Long: `repairdesk prices repair intakes against the repair shop backend.

It lists the issues of a device type, resolves the quality tiers of
part-based issues, computes the subtotal and creates the repair.

Examples:
  repairdesk issues --device-type smartphone
  repairdesk tiers 5
  repairdesk quote -f intake.hcl
  repairdesk submit -f intake.yaml
  repairdesk repair status 12 prete`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.repairdesk.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if err := config.LoadDotEnv(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", envFile, err)
		os.Exit(1)
	}

	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	// Initialize logging
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// newClient builds the backend client from the global configuration
func newClient() (*backend.Client, error) {
	return backend.FromConfig(config.Get().Backend)
}

// newSession builds an intake session over a fresh backend client
func newSession() (*intake.Session, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return intake.NewSession(client, intake.OptionsFromConfig(config.Get())), nil
}

// newWriter returns a terminal writer on the command output
func newWriter(cmd *cobra.Command) *ui.Writer {
	w := ui.NewWriter(cmd.OutOrStdout(), noColor)
	if verbose {
		w.SetVerbosity(2)
	}
	return w
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "repairdesk version %s\n", version)
	},
}
