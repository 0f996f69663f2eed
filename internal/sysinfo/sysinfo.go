// Package sysinfo reports host resources for the banner and progress lines.
package sysinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/mem"
)

const gib = 1024 * 1024 * 1024

// Summary returns e.g. "8 cores, 15.5 GB RAM"
func Summary() string {
	v, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Sprintf("%d cores", runtime.NumCPU())
	}
	return fmt.Sprintf("%d cores, %.1f GB RAM", runtime.NumCPU(), float64(v.Total)/gib)
}

// MemoryUsedPercent returns the host memory usage, ok is false when it can't be read
func MemoryUsedPercent() (float64, bool) {
	v, err := mem.VirtualMemory()
	if err != nil || v.Total == 0 {
		return 0, false
	}
	return float64(v.Used) / float64(v.Total) * 100, true
}
