// Package sysinfo collects host facts for the doctor command.
package sysinfo

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Info describes the host the container runs on
type Info struct {
	Hostname      string `json:"hostname" yaml:"hostname"`
	OS            string `json:"os" yaml:"os"`
	Platform      string `json:"platform" yaml:"platform"`
	UptimeSeconds uint64 `json:"uptime_seconds" yaml:"uptime_seconds"`
	CPUModel      string `json:"cpu_model" yaml:"cpu_model"`
	CPUThreads    int    `json:"cpu_threads" yaml:"cpu_threads"`
	RAMTotal      string `json:"ram_total" yaml:"ram_total"`
	RAMAvailable  string `json:"ram_available" yaml:"ram_available"`
}

// Collect gathers host information
func Collect() (*Info, error) {
	info := &Info{}

	h, err := host.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to read host info: %w", err)
	}
	info.Hostname = h.Hostname
	info.OS = h.OS
	info.Platform = h.Platform
	info.UptimeSeconds = h.Uptime

	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if threads, err := cpu.Counts(true); err == nil {
		info.CPUThreads = threads
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to read memory info: %w", err)
	}
	info.RAMTotal = FormatBytes(vm.Total)
	info.RAMAvailable = FormatBytes(vm.Available)

	return info, nil
}

// FormatBytes renders a byte count in GB with one decimal
func FormatBytes(b uint64) string {
	gb := float64(b) / (1024 * 1024 * 1024)
	return fmt.Sprintf("%.1f GB", gb)
}
