package invocation

import (
	"runtime"
)

const bytesPerMB = 1024 * 1024

// Memory is a snapshot of the process memory usage in megabytes.
type Memory struct {
	HeapAllocMB float64 `json:"heap_alloc_mb"`
	HeapSysMB   float64 `json:"heap_sys_mb"`
	SysMB       float64 `json:"sys_mb"`
}

// Host describes the platform the process runs on.
type Host struct {
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
	GoVersion string `json:"go_version"`
}

// MemoryUsage samples the current process memory usage.
func MemoryUsage() Memory {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return Memory{
		HeapAllocMB: float64(ms.HeapAlloc) / bytesPerMB,
		HeapSysMB:   float64(ms.HeapSys) / bytesPerMB,
		SysMB:       float64(ms.Sys) / bytesPerMB,
	}
}

// HostInfo returns static facts about the host platform.
func HostInfo() Host {
	return Host{
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}
