package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"weathercron/internal/envsnap"
)

var exportPath string

var exportCmd = &cobra.Command{
	Use:   "export-env",
	Short: "Export the current environment to the snapshot file",
	Long: `Captures every current environment variable and replaces the snapshot
file with one NAME="value" line per variable. Scheduled job invocations
source this file so they run with the container's startup configuration.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportPath, "path", "", "snapshot file path (default from config)")
}

func runExport(cmd *cobra.Command, args []string) error {
	path := exportPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.SnapshotPath
	}

	snap := envsnap.Capture()
	if err := snap.Write(path); err != nil {
		return err
	}

	fmt.Printf("Exported %d variables to %s\n", snap.Len(), path)
	return nil
}
