// benchmark.go
// A reusable benchmarking module
// Measures execution time and memory usage for any wrapped function

package benchmark

import (
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// Usage is the resource snapshot taken around one benchmarked call.
type Usage struct {
	Elapsed         time.Duration
	AllocDeltaMB    float64
	TotalAllocMB    float64
	HeapMB          float64
	GCCycles        uint32
	GoroutinesStart int
	GoroutinesEnd   int
}

// Run wraps any function to measure its runtime and memory usage.
// The wrapped function's error is returned unchanged.
func Run(log *zap.Logger, label string, f func() error) (Usage, error) {
	log = log.Named("benchmark")
	host, _ := os.Hostname()
	log.Info("running",
		zap.String("label", label),
		zap.String("host", host),
		zap.String("go", runtime.Version()),
		zap.String("os_arch", runtime.GOOS+"/"+runtime.GOARCH),
		zap.Int("cpus", runtime.NumCPU()),
	)

	// Prepare for benchmark
	runtime.GC()
	var memStart, memEnd runtime.MemStats
	runtime.ReadMemStats(&memStart)
	start := time.Now()
	startGoroutines := runtime.NumGoroutine()

	err := f()

	usage := Usage{Elapsed: time.Since(start), GoroutinesStart: startGoroutines}
	runtime.ReadMemStats(&memEnd)
	usage.GoroutinesEnd = runtime.NumGoroutine()
	usage.AllocDeltaMB = toMB(int64(memEnd.Alloc) - int64(memStart.Alloc))
	usage.TotalAllocMB = toMB(int64(memEnd.TotalAlloc - memStart.TotalAlloc))
	usage.HeapMB = toMB(int64(memEnd.HeapAlloc))
	usage.GCCycles = memEnd.NumGC - memStart.NumGC

	log.Info("finished",
		zap.String("label", label),
		zap.Duration("elapsed", usage.Elapsed),
		zap.Float64("memory_used_mb", usage.AllocDeltaMB),
		zap.Float64("total_allocated_mb", usage.TotalAllocMB),
		zap.Float64("heap_mb", usage.HeapMB),
		zap.Uint32("gc_cycles", usage.GCCycles),
		zap.Int("goroutines_start", usage.GoroutinesStart),
		zap.Int("goroutines_end", usage.GoroutinesEnd),
		zap.Bool("failed", err != nil),
	)
	return usage, err
}

func toMB(b int64) float64 {
	return float64(b) / 1024.0 / 1024.0
}
