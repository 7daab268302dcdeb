package cmd

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var checkQuiet bool

// checkCmd probes the incident API once and exits: the check-only mode of
// the originals. Exit code 0 means host and token are good.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check host and token by connecting to the incident API",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&checkQuiet, "quiet", "q", false,
		"Suppress non-essential output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg, err = validated(cfg)
	if err != nil {
		return err
	}

	store, err := newStoreClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	var s *spinner.Spinner
	if !checkQuiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Connecting to " + cfg.Argus.Host + "..."
		s.Start()
	}

	err = store.Ping(ctx)
	if s != nil {
		s.Stop()
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if !checkQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), text.FgGreen.Sprint("Checking: host and token ok"))
	}
	return nil
}
