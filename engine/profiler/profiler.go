package profiler

import (
	"runtime"
	"time"

	"github.com/A-Imbert/Ray-Tracer/log"
)

var logger = log.New("profiler")

// Stats is one reporting window of the profiler.
type Stats struct {
	// FPS is frames rendered per second over the window.
	FPS float64
	// FrameTime is the mean wall time per frame.
	FrameTime time.Duration
	// AccumulatedFrames is the renderer's accumulated frame count at the end of the window.
	AccumulatedFrames int
	// HeapMB is live heap memory.
	HeapMB float64
	// AllocRateMB is heap allocation per second over the window.
	AllocRateMB float64
	// GCCount is the total number of completed GC cycles.
	GCCount uint32
	// MaxPause is the longest GC pause within the window.
	MaxPause time.Duration
}

// Profiler tracks frame rate, progressive accumulation and memory statistics.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	readMem        bool
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler with the provided options.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		readMem:        true,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per rendered frame.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - accumulated: the renderer's accumulated frame count after this frame
//
// Returns:
//   - Stats: the stats of the window that just closed, zero if none closed
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(accumulated int) (Stats, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval || elapsed <= 0 {
		return Stats{}, false
	}

	s := Stats{
		FPS:               float64(p.frameCount) / elapsed.Seconds(),
		FrameTime:         elapsed / time.Duration(p.frameCount),
		AccumulatedFrames: accumulated,
	}

	if p.readMem {
		runtime.ReadMemStats(&p.memStats)
		s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
		s.AllocRateMB = float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()
		s.GCCount = p.memStats.NumGC

		// PauseNs is a circular buffer of the last 256 pauses.
		start := p.lastGCCount
		if s.GCCount-start > 256 {
			start = s.GCCount - 256
		}
		for i := start; i < s.GCCount; i++ {
			s.MaxPause = max(s.MaxPause, time.Duration(p.memStats.PauseNs[i%256]))
		}
		p.lastGCCount = s.GCCount
		p.lastTotalAlloc = p.memStats.TotalAlloc
	}

	logger.Infof("FPS: %.2f | Frame: %s | Accumulated: %d | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max pause: %s)",
		s.FPS, s.FrameTime, s.AccumulatedFrames, s.HeapMB, s.AllocRateMB, s.GCCount, s.MaxPause)

	p.frameCount = 0
	p.lastTime = currentTime
	p.last = s
	return s, true
}

// Last returns the most recently closed window.
//
// Returns:
//   - Stats: the last logged stats, zero before the first window closes
func (p *Profiler) Last() Stats {
	return p.last
}
