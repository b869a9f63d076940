package collector

import (
	"context"
	"runtime"
	"time"

	"github.com/prabalesh/brtop/internal/models"
	"github.com/shirou/gopsutil/v3/host"
)

// HostInfo reads static facts about the machine. Failures leave fields empty.
func HostInfo(ctx context.Context) models.HostInfo {
	info := models.HostInfo{Arch: runtime.GOARCH, OS: runtime.GOOS}

	hi, err := host.InfoWithContext(ctx)
	if err != nil || hi == nil {
		return info
	}

	info.Hostname = hi.Hostname
	info.Platform = hi.Platform
	if hi.PlatformVersion != "" {
		info.Platform += " " + hi.PlatformVersion
	}
	info.Kernel = hi.KernelVersion
	if hi.KernelArch != "" {
		info.Arch = hi.KernelArch
	}
	if hi.BootTime > 0 {
		info.BootTime = time.Unix(int64(hi.BootTime), 0)
	}
	return info
}
