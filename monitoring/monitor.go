package monitoring

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type ResourceUsage struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryUsedMB  float64 `json:"memoryUsedMb"`
	MemoryTotalMB float64 `json:"memoryTotalMb"`
	MemoryPercent float64 `json:"memoryPercent"`
	NumGoroutines int     `json:"numGoroutines"`

	// Library disk usage
	LibraryPath        string  `json:"libraryPath"`
	LibraryDiskFreeGB  float64 `json:"libraryDiskFreeGb"`
	LibraryDiskTotalGB float64 `json:"libraryDiskTotalGb"`
	LibraryDiskPercent float64 `json:"libraryDiskPercent"`
}

// Monitor samples process and library-disk usage
type Monitor struct {
	libraryPath string
	proc        *process.Process
}

// NewMonitor creates a monitor for the current process and library path
func NewMonitor(libraryPath string) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("error getting process: %v", err)
	}
	return &Monitor{libraryPath: libraryPath, proc: proc}, nil
}

// Start logs resource usage on the given interval
func (m *Monitor) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			usage, err := m.Usage()
			if err != nil {
				log.Printf("Error getting resource usage: %v", err)
				continue
			}

			log.Printf("Resource Usage - CPU: %.2f%%, Memory: %.2f/%.2f MB (%.2f%%), Goroutines: %d, Library disk free: %.1f GB",
				usage.CPUPercent,
				usage.MemoryUsedMB,
				usage.MemoryTotalMB,
				usage.MemoryPercent,
				usage.NumGoroutines,
				usage.LibraryDiskFreeGB)
		}
	}()
}

// Usage returns a point-in-time resource sample
func (m *Monitor) Usage() (ResourceUsage, error) {
	var usage ResourceUsage

	// Get CPU usage
	cpuPercent, err := m.proc.CPUPercent()
	if err != nil {
		return usage, fmt.Errorf("error getting CPU usage: %v", err)
	}
	usage.CPUPercent = cpuPercent

	// Get memory usage
	virtualMem, err := mem.VirtualMemory()
	if err != nil {
		return usage, fmt.Errorf("error getting memory info: %v", err)
	}

	procMem, err := m.proc.MemoryInfo()
	if err != nil {
		return usage, fmt.Errorf("error getting process memory: %v", err)
	}

	usage.MemoryUsedMB = float64(procMem.RSS) / 1024 / 1024
	usage.MemoryTotalMB = float64(virtualMem.Total) / 1024 / 1024
	usage.MemoryPercent = float64(procMem.RSS) / float64(virtualMem.Total) * 100

	// Get number of goroutines
	usage.NumGoroutines = runtime.NumGoroutine()

	// Disk usage for the clip library; a missing path is not fatal
	usage.LibraryPath = m.libraryPath
	if diskUsage, err := disk.Usage(m.libraryPath); err == nil {
		usage.LibraryDiskFreeGB = float64(diskUsage.Free) / 1024 / 1024 / 1024
		usage.LibraryDiskTotalGB = float64(diskUsage.Total) / 1024 / 1024 / 1024
		usage.LibraryDiskPercent = diskUsage.UsedPercent
	}

	return usage, nil
}
