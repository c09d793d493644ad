package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a snapshot of the machine the tool runs on
type HostStats struct {
	LogicalCPUs  int
	PhysicalCPUs int
	TotalMemory  uint64
	UsedPercent  float64
}

// CollectHostStats queries CPU and memory information
func CollectHostStats() (HostStats, error) {
	var hs HostStats

	logical, err := cpu.Counts(true)
	if err != nil {
		return hs, fmt.Errorf("cpu counts: %w", err)
	}
	hs.LogicalCPUs = logical

	// physical core count is unavailable on some platforms
	if physical, err := cpu.Counts(false); err == nil {
		hs.PhysicalCPUs = physical
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return hs, fmt.Errorf("virtual memory: %w", err)
	}
	hs.TotalMemory = vm.Total
	hs.UsedPercent = vm.UsedPercent

	return hs, nil
}

func (hs HostStats) String() string {
	return fmt.Sprintf("CPU: %d logical / %d physical | RAM: %.1f GiB (%.0f%% used)",
		hs.LogicalCPUs, hs.PhysicalCPUs, float64(hs.TotalMemory)/(1<<30), hs.UsedPercent)
}
