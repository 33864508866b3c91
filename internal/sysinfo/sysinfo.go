// Package sysinfo collects host context for run metadata and diagnostics.
package sysinfo

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/ppiankov/oraspectre/internal/models"
)

// Collect returns host context for the current machine.
// Collection is best-effort: gopsutil failures fall back to runtime
// constants and leave the remaining fields empty.
func Collect() models.HostContext {
	ctx := models.HostContext{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if h, err := os.Hostname(); err == nil {
		ctx.Hostname = h
	}

	info, err := host.Info()
	if err != nil {
		return ctx
	}

	if info.Hostname != "" {
		ctx.Hostname = info.Hostname
	}
	ctx.Platform = info.Platform
	ctx.PlatformVersion = info.PlatformVersion
	ctx.KernelVersion = info.KernelVersion
	ctx.UptimeSeconds = info.Uptime

	return ctx
}
