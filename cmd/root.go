package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"argusglue/internal/config"
	"argusglue/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates clean shutdown or a successful probe.
	ExitCodeSuccess = 0
	// ExitCodeError indicates an unrecoverable store or configuration error.
	ExitCodeError = 1
)

// Persistent flags shared by every command. Flag values override whatever
// the config file supplies.
var (
	rootConfigPath string
	rootHost       string
	rootToken      string
	rootDebug      bool
)

// rootCmd represents the base command for the argusglue application.
var rootCmd = &cobra.Command{
	Use:   "argusglue",
	Short: "Glue services reporting external state to an Argus incident tracker",
	Long: `argusglue watches external signals (a pomodoro break timer, the moon
phase, a heartbeat schedule) and keeps an Argus incident tracker consistent
with them: at most one open incident per monitor, opened when a state begins
and resolved when it ends.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitFromDebugFlag(rootDebug)
	},
}

// SetVersion sets the version for the root command. Called from the main
// package to inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "argusglue version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", config.DefaultConfigPath(),
		"Path to the config file")
	rootCmd.PersistentFlags().StringVar(&rootHost, "host", "",
		"Argus API host URL with scheme (overrides config file)")
	rootCmd.PersistentFlags().StringVar(&rootToken, "token", "",
		"Token to authenticate with (overrides config file)")
	rootCmd.PersistentFlags().BoolVarP(&rootDebug, "debug", "d", false,
		"Print debug info")
}

// loadConfig loads the config file and applies flag overrides. Validation is
// left to the callers, who may force monitor-specific settings first.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(rootConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if rootHost != "" {
		cfg.Argus.Host = rootHost
	}
	if rootToken != "" {
		cfg.Argus.Token = rootToken
	}
	return cfg, nil
}

func validated(cfg config.Config) (config.Config, error) {
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
