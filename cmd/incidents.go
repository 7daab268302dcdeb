package cmd

import (
	"github.com/spf13/cobra"

	"argusglue/internal/formatting"
)

// incidentsCmd lists the caller's currently open incidents.
var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "List the caller's open incidents",
	RunE:  runIncidents,
}

func init() {
	rootCmd.AddCommand(incidentsCmd)
}

func runIncidents(cmd *cobra.Command, args []string) error {
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

	incidents, err := store.ListOpen(ctx)
	if err != nil {
		return err
	}

	formatting.RenderIncidents(cmd.OutOrStdout(), incidents)
	return nil
}
