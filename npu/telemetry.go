package npu

import (
	"math"
	"time"
)

// latencyWindow is how many recent samples the running average covers.
const latencyWindow = 1000

// latencyRing is a fixed circular buffer with a running sum, so recording
// a sample and reading the average are both O(1) no matter how long the
// device has been up.
type latencyRing struct {
	samples [latencyWindow]float64
	next    int
	count   int
	sum     float64
}

func (r *latencyRing) add(us float64) {
	if r.count == latencyWindow {
		r.sum -= r.samples[r.next]
	} else {
		r.count++
	}
	r.samples[r.next] = us
	r.sum += us
	r.next = (r.next + 1) % latencyWindow
}

func (r *latencyRing) average() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// ---------------------------------------------------------------------------
// Telemetry
// ---------------------------------------------------------------------------

// Telemetry counts device operations and tracks query and transformation
// latency over sliding windows of the most recent samples, one window per
// operation kind. When disabled it records nothing and reports zeroes.
type Telemetry struct {
	enabled       bool
	queries       uint64
	transforms    uint64
	navigations   uint64
	queryRing     latencyRing
	transformRing latencyRing
	started       time.Time
}

// NewTelemetry creates a telemetry collector. The uptime clock starts
// immediately.
func NewTelemetry(enabled bool) *Telemetry {
	return &Telemetry{enabled: enabled, started: time.Now()}
}

// Enabled reports whether the collector records anything.
func (t *Telemetry) Enabled() bool {
	return t.enabled
}

// RecordQuery counts one query and folds its latency into the query
// window.
func (t *Telemetry) RecordQuery(elapsed time.Duration) {
	if !t.enabled {
		return
	}
	t.queries++
	t.queryRing.add(float64(elapsed) / float64(time.Microsecond))
}

// RecordTransform counts one archetypal transformation and folds its
// latency into the transform window. The query window is untouched.
func (t *Telemetry) RecordTransform(elapsed time.Duration) {
	if !t.enabled {
		return
	}
	t.transforms++
	t.transformRing.add(float64(elapsed) / float64(time.Microsecond))
}

// RecordNavigation counts one connection walk.
func (t *Telemetry) RecordNavigation() {
	if !t.enabled {
		return
	}
	t.navigations++
}

// Queries returns the total query count.
func (t *Telemetry) Queries() uint64 { return t.queries }

// Transforms returns the total transformation count.
func (t *Telemetry) Transforms() uint64 { return t.transforms }

// Navigations returns the total navigation count.
func (t *Telemetry) Navigations() uint64 { return t.navigations }

// AverageQueryMicros returns the mean query latency in microseconds over
// the current window. Only query samples contribute.
func (t *Telemetry) AverageQueryMicros() float64 {
	return t.queryRing.average()
}

// AverageTransformMicros returns the mean transformation latency in
// microseconds over the current window.
func (t *Telemetry) AverageTransformMicros() float64 {
	return t.transformRing.average()
}

// TelemetryReport is the host-facing snapshot of device statistics.
type TelemetryReport struct {
	TotalQueries         uint64  `json:"total_queries"`
	TotalTransformations uint64  `json:"total_transformations"`
	TotalNavigations     uint64  `json:"total_navigations"`
	AvgQueryTimeUS       float64 `json:"avg_query_time_us"`
	CacheHits            uint64  `json:"cache_hits"`
	CacheMisses          uint64  `json:"cache_misses"`
	CacheHitRate         float64 `json:"cache_hit_rate"`
	UptimeSeconds        float64 `json:"uptime_seconds"`
}

// Snapshot merges the operation counters with the cache's statistics into
// a single report. Derived rates are rounded the way the host report
// format expects: latencies and uptime to 2 decimals, hit rate to 4.
func (t *Telemetry) Snapshot(cache *PatternCache) TelemetryReport {
	rep := TelemetryReport{
		UptimeSeconds: roundTo(time.Since(t.started).Seconds(), 2),
	}
	if t.enabled {
		rep.TotalQueries = t.queries
		rep.TotalTransformations = t.transforms
		rep.TotalNavigations = t.navigations
		rep.AvgQueryTimeUS = roundTo(t.queryRing.average(), 2)
	}
	if cache != nil {
		rep.CacheHits = cache.Hits
		rep.CacheMisses = cache.Misses
		rep.CacheHitRate = roundTo(cache.HitRate(), 4)
	}
	return rep
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
