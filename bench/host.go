package bench

import (
	"log/slog"
	"runtime"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/sys/cpu"
)

// HostInfo describes the machine a benchmark ran on.
type HostInfo struct {
	OS, Arch   string
	NumCPU     int
	GOMAXPROCS int
	// Features lists the SIMD extensions the CPU reports.
	Features []string
}

// Host probes the current machine.
func Host() HostInfo {
	feats := map[string]bool{
		"sse4.2":  cpu.X86.HasSSE42,
		"avx":     cpu.X86.HasAVX,
		"avx2":    cpu.X86.HasAVX2,
		"fma":     cpu.X86.HasFMA,
		"avx512f": cpu.X86.HasAVX512F,
		"asimd":   cpu.ARM64.HasASIMD,
		"sve":     cpu.ARM64.HasSVE,
		"sve2":    cpu.ARM64.HasSVE2,
		"asimddp": cpu.ARM64.HasASIMDDP,
		"vx":      cpu.S390X.HasVX,
		"isa3.00": cpu.PPC64.IsPOWER9,
		"isa2.07": cpu.PPC64.IsPOWER8,
	}
	names := lo.Keys(lo.PickBy(feats, func(_ string, ok bool) bool { return ok }))
	sort.Strings(names)

	return HostInfo{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Features:   names,
	}
}

// LogValue groups the host fields in structured logs.
func (h HostInfo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("os", h.OS),
		slog.String("arch", h.Arch),
		slog.Int("cpus", h.NumCPU),
		slog.Int("gomaxprocs", h.GOMAXPROCS),
		slog.Any("features", h.Features),
	)
}
