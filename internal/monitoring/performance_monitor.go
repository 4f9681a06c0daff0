package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"dungeonfloor/internal/render"
)

// DefaultSlowPassThreshold is the pass duration above which an alert fires.
const DefaultSlowPassThreshold = 16 * time.Millisecond

// FloorMonitor tracks materialization passes. It implements render.Counter
// and is safe to read from other goroutines while passes are reported.
type FloorMonitor struct {
	// Pass metrics
	passCount    atomic.Uint64
	lastPassTime atomic.Uint64 // nanoseconds
	totalTime    atomic.Uint64 // nanoseconds

	// Tile metrics from the most recent pass
	rooms    atomic.Int64
	hallways atomic.Int64
	overlaps atomic.Int64
	excluded atomic.Int64

	// Lifetime totals
	drawablesBuilt atomic.Uint64

	// Statistics
	mutex         sync.RWMutex
	avgPassTime   float64
	peakDrawables int64
	startTime     time.Time
	perSurface    map[render.SurfaceID]uint64

	// Configuration
	slowPassThreshold time.Duration
}

// NewFloorMonitor creates a monitor with the default slow-pass threshold.
func NewFloorMonitor() *FloorMonitor {
	return &FloorMonitor{
		startTime:         time.Now(),
		perSurface:        make(map[render.SurfaceID]uint64),
		slowPassThreshold: DefaultSlowPassThreshold,
	}
}

// SetSlowPassThreshold changes the duration that triggers a slow_pass alert.
func (fm *FloorMonitor) SetSlowPassThreshold(d time.Duration) {
	fm.mutex.Lock()
	defer fm.mutex.Unlock()
	fm.slowPassThreshold = d
}

// ObserveMaterialize records one pass.
func (fm *FloorMonitor) ObserveMaterialize(s render.Summary) {
	count := fm.passCount.Add(1)
	fm.lastPassTime.Store(uint64(s.Duration.Nanoseconds()))
	total := fm.totalTime.Add(uint64(s.Duration.Nanoseconds()))

	fm.rooms.Store(int64(s.Rooms))
	fm.hallways.Store(int64(s.Hallways))
	fm.overlaps.Store(int64(s.Overlaps))
	fm.excluded.Store(int64(s.Excluded))
	fm.drawablesBuilt.Add(uint64(s.Total()))

	fm.mutex.Lock()
	fm.avgPassTime = float64(total) / float64(count)
	if int64(s.Total()) > fm.peakDrawables {
		fm.peakDrawables = int64(s.Total())
	}
	fm.perSurface[s.Surface]++
	fm.mutex.Unlock()
}

// FloorMetrics is a snapshot of the monitor.
type FloorMetrics struct {
	Passes         uint64
	LastPass       time.Duration
	AveragePass    time.Duration
	Rooms          int64
	Hallways       int64
	Overlaps       int64
	Excluded       int64
	DrawablesBuilt uint64
	PeakDrawables  int64
	Surfaces       int
}

// GetCurrentMetrics returns the current metrics.
func (fm *FloorMonitor) GetCurrentMetrics() FloorMetrics {
	fm.mutex.RLock()
	defer fm.mutex.RUnlock()

	return FloorMetrics{
		Passes:         fm.passCount.Load(),
		LastPass:       time.Duration(fm.lastPassTime.Load()),
		AveragePass:    time.Duration(fm.avgPassTime),
		Rooms:          fm.rooms.Load(),
		Hallways:       fm.hallways.Load(),
		Overlaps:       fm.overlaps.Load(),
		Excluded:       fm.excluded.Load(),
		DrawablesBuilt: fm.drawablesBuilt.Load(),
		PeakDrawables:  fm.peakDrawables,
		Surfaces:       len(fm.perSurface),
	}
}

// PassesFor returns how many passes were reported for one surface.
func (fm *FloorMonitor) PassesFor(id render.SurfaceID) uint64 {
	fm.mutex.RLock()
	defer fm.mutex.RUnlock()
	return fm.perSurface[id]
}

// GetDetailedStats returns a flat map suitable for debug overlays and logs.
func (fm *FloorMonitor) GetDetailedStats() map[string]interface{} {
	m := fm.GetCurrentMetrics()
	fm.mutex.RLock()
	uptime := time.Since(fm.startTime).Seconds()
	fm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]interface{}{
		"uptime_seconds":  uptime,
		"passes":          m.Passes,
		"last_pass_ms":    float64(m.LastPass) / float64(time.Millisecond),
		"avg_pass_ms":     float64(m.AveragePass) / float64(time.Millisecond),
		"rooms":           m.Rooms,
		"hallways":        m.Hallways,
		"overlaps":        m.Overlaps,
		"excluded":        m.Excluded,
		"drawables_built": m.DrawablesBuilt,
		"peak_drawables":  m.PeakDrawables,
		"surfaces":        m.Surfaces,
		"memory_alloc_mb": memStats.Alloc / 1024 / 1024,
		"goroutines":      runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts reports slow passes and overlap-heavy floors.
func (fm *FloorMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	fm.mutex.RLock()
	threshold := fm.slowPassThreshold
	fm.mutex.RUnlock()

	last := time.Duration(fm.lastPassTime.Load())
	if fm.passCount.Load() > 0 && last > threshold {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_pass",
			Message:   "Last materialization pass exceeded the frame budget",
			Value:     float64(last) / float64(time.Millisecond),
			Threshold: float64(threshold) / float64(time.Millisecond),
			Timestamp: currentTime,
		})
	}

	// More than half the floor overlapping usually means a batch was
	// registered twice.
	total := fm.rooms.Load() + fm.hallways.Load() + fm.overlaps.Load()
	if total > 0 {
		ratio := float64(fm.overlaps.Load()) / float64(total)
		if ratio > 0.5 {
			alerts = append(alerts, PerformanceAlert{
				Type:      "overlap_heavy",
				Message:   "More than half of the visible tiles are overlaps",
				Value:     ratio,
				Threshold: 0.5,
				Timestamp: currentTime,
			})
		}
	}

	return alerts
}

// Reset resets all counters
func (fm *FloorMonitor) Reset() {
	fm.passCount.Store(0)
	fm.lastPassTime.Store(0)
	fm.totalTime.Store(0)
	fm.rooms.Store(0)
	fm.hallways.Store(0)
	fm.overlaps.Store(0)
	fm.excluded.Store(0)
	fm.drawablesBuilt.Store(0)

	fm.mutex.Lock()
	fm.avgPassTime = 0
	fm.peakDrawables = 0
	fm.perSurface = make(map[render.SurfaceID]uint64)
	fm.startTime = time.Now()
	fm.mutex.Unlock()
}
