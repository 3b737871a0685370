package main

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

type SysInfo struct {
	Arch     string  `json:"arch"`
	Hostname string  `json:"hostname"`
	Platform string  `json:"platform"`
	CPUCount int     `json:"cpu"`
	CPUFreq  float64 `json:"freq"`
	RAM      float64 `json:"ram"`
}

// HostStat describes the machine the binaries run on. Probes that fail
// leave their fields empty.
func HostStat() SysInfo {
	info := SysInfo{Arch: runtime.GOARCH}
	if hostStat, err := host.Info(); err == nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	} else {
		Logger.Warnf("failed to read host info: %v", err)
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		totalFreq := 0.0
		for _, cpu := range cpuStat {
			totalFreq += cpu.Mhz
		}
		info.CPUCount = len(cpuStat)
		info.CPUFreq = totalFreq / float64(len(cpuStat)) * 1000
	} else if err != nil {
		Logger.Warnf("failed to read cpu info: %v", err)
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	} else {
		Logger.Warnf("failed to read memory info: %v", err)
	}
	return info
}

func (s SysInfo) Parameters() map[string]any {
	return map[string]any{
		"arch":     s.Arch,
		"hostname": s.Hostname,
		"platform": s.Platform,
		"ram":      s.RAM,
		"cpu":      s.CPUCount,
		"freq":     s.CPUFreq,
	}
}
