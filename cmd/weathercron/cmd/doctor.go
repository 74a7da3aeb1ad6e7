package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"weathercron/internal/sysinfo"
)

var doctorOutput string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and host environment",
	Long: `Checks the notifier configuration, the snapshot and log paths, and
reports host resources. Run this inside the container to verify a deployment
before waiting for the first scheduled fire.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVarP(&doctorOutput, "output", "o", "text", "Output format: text, json, yaml")
}

// DoctorReport is the diagnosis result
type DoctorReport struct {
	ConfigOK     bool          `json:"config_ok" yaml:"config_ok"`
	ConfigError  string        `json:"config_error,omitempty" yaml:"config_error,omitempty"`
	SnapshotPath string        `json:"snapshot_path" yaml:"snapshot_path"`
	SnapshotOK   bool          `json:"snapshot_writable" yaml:"snapshot_writable"`
	JobLogPath   string        `json:"job_log_path" yaml:"job_log_path"`
	Schedule     string        `json:"schedule" yaml:"schedule"`
	Host         *sysinfo.Info `json:"host,omitempty" yaml:"host,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report := DoctorReport{
		SnapshotPath: cfg.SnapshotPath,
		JobLogPath:   cfg.JobLogPath,
		Schedule:     cfg.Schedule,
		ConfigOK:     true,
	}

	if err := cfg.ValidateNotifier(); err != nil {
		report.ConfigOK = false
		report.ConfigError = err.Error()
	}

	report.SnapshotOK = dirWritable(filepath.Dir(cfg.SnapshotPath))

	if host, err := sysinfo.Collect(); err == nil {
		report.Host = host
	}

	switch doctorOutput {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	default:
		printDoctorText(report)
	}

	if !report.ConfigOK {
		return fmt.Errorf("configuration check failed")
	}
	return nil
}

func printDoctorText(r DoctorReport) {
	status := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "FAIL"
	}

	fmt.Println("weathercron deployment check")
	fmt.Printf("  config:            %s\n", status(r.ConfigOK))
	if r.ConfigError != "" {
		fmt.Printf("    %s\n", r.ConfigError)
	}
	fmt.Printf("  snapshot path:     %s (%s)\n", r.SnapshotPath, status(r.SnapshotOK))
	fmt.Printf("  job log path:      %s\n", r.JobLogPath)
	fmt.Printf("  schedule:          %s\n", r.Schedule)
	if r.Host != nil {
		fmt.Printf("  host:              %s (%s/%s)\n", r.Host.Hostname, r.Host.OS, r.Host.Platform)
		fmt.Printf("  cpu:               %s (%d threads)\n", r.Host.CPUModel, r.Host.CPUThreads)
		fmt.Printf("  ram:               %s total, %s available\n", r.Host.RAMTotal, r.Host.RAMAvailable)
	}
}

func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".weathercron_probe")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}
