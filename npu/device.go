package npu

import (
	"fmt"
	"strings"
	"time"
)

// Device is one NPU-253 instance: register file, shared host window,
// pattern store, cache, and telemetry, driven through commands or the
// high-level driver methods. A device is single-threaded by contract;
// callers needing concurrency serialize access externally.
type Device struct {
	config    Config
	rf        *RegisterFile
	window    *Window
	store     *PatternStore
	cache     *PatternCache
	telemetry *Telemetry
	loaded    bool
}

// NewDevice creates a device in the Unloaded state with power-on
// registers. Nothing is read from disk until Load.
func NewDevice(cfg Config) *Device {
	d := &Device{
		config:    cfg,
		rf:        NewRegisterFile(cfg.Trace),
		window:    NewWindow(cfg.WindowSize),
		cache:     NewPatternCache(cfg.cacheCapacity()),
		telemetry: NewTelemetry(cfg.EnableTelemetry),
	}
	log.Infof("driver initialized at REG_BASE=0x%08X", uint32(RegBase))
	return d
}

// ---------------------------------------------------------------------------
// MMIO surface
// ---------------------------------------------------------------------------

// Write32 stores a register value through the MMIO surface.
func (d *Device) Write32(off Reg, value uint32) { d.rf.Write32(off, value) }

// Read32 loads a register value through the MMIO surface.
func (d *Device) Read32(off Reg) uint32 { return d.rf.Read32(off) }

// Write64 stores a 64-bit value across two consecutive registers.
func (d *Device) Write64(off Reg, value uint64) { d.rf.Write64(off, value) }

// Read64 loads a 64-bit value from two consecutive registers.
func (d *Device) Read64(off Reg) uint64 { return d.rf.Read64(off) }

// Window returns the shared host window for staging query strings and
// reading result batches.
func (d *Device) Window() *Window { return d.window }

// Status returns the current status bitmask.
func (d *Device) Status() Status { return d.rf.Status() }

// ErrorCode returns the current error code register.
func (d *Device) ErrorCode() ErrorCode { return d.rf.Error() }

// Loaded reports whether the device holds a corpus.
func (d *Device) Loaded() bool { return d.loaded }

// ---------------------------------------------------------------------------
// Lifecycle
// ---------------------------------------------------------------------------

// Load reads the corpus documents and swaps the built store in. BUSY
// brackets the whole operation; on failure the previous store, if any,
// stays in place and ERR_MEMORY_ERROR is reported. A successful load
// flushes the cache, since cached records may belong to the replaced
// corpus.
func (d *Device) Load() bool {
	loadLog.Info("loading patterns into device memory")
	d.rf.SetStatus(StatusBusy)
	d.rf.ClearStatus(StatusIdle)
	defer func() {
		d.rf.ClearStatus(StatusBusy)
		d.rf.SetStatus(StatusIdle)
	}()

	store, err := LoadCorpus(d.config)
	if err != nil {
		loadLog.Errorf("load failed: %s", err.Error())
		d.rf.SetError(ErrMemoryError)
		return false
	}

	d.store = store
	d.loaded = true
	d.cache.Flush()
	d.rf.ClearStatus(StatusCacheHot)
	d.rf.Write32(RegPatternCount, uint32(store.Len()))
	d.rf.SetStatus(StatusPatternsLoaded)
	loadLog.Infof("loaded %d patterns, %d archetypes, %d sequences",
		store.Len(), store.ArchetypeCount(), store.SequenceCount())
	return true
}

// Initialize brings the device to full operation: load if needed, warm
// the cache with the first ten patterns, and run the self-test.
func (d *Device) Initialize() bool {
	if !d.loaded && !d.Load() {
		return false
	}

	if d.cache.Enabled() {
		for id := 1; id <= 10; id++ {
			if p, ok := d.store.ByID(id); ok {
				d.cache.Put(id, p)
			}
		}
		d.rf.SetStatus(StatusCacheHot)
	}

	return d.runSelfTest()
}

// Probe checks device presence with a register round-trip, then makes
// sure a corpus can be loaded.
func (d *Device) Probe() bool {
	spare := d.rf.Read32(RegPatternID)
	d.rf.Write32(RegPatternID, 0xDEADBEEF)
	ok := d.rf.Read32(RegPatternID) == 0xDEADBEEF
	d.rf.Write32(RegPatternID, spare)
	if !ok {
		return false
	}

	if !d.loaded {
		return d.Load()
	}
	return true
}

// Remove tears the device down: store, cache, window, telemetry, and
// registers all return to their power-on state and the device is Unloaded.
func (d *Device) Remove() bool {
	d.store = nil
	d.loaded = false
	d.cache.Flush()
	d.window.Reset()
	d.telemetry = NewTelemetry(d.config.EnableTelemetry)
	d.rf.Reset()
	log.Info("device removed")
	return true
}

// Reset clears the register file, cache, and telemetry. The pattern store
// survives: a loaded device stays Loaded, and PATTERNS_LOADED plus the
// pattern count are re-asserted so the registers keep describing the
// corpus that is still resident. The host window is host memory and is
// not touched.
func (d *Device) Reset() bool {
	d.rf.Reset()
	d.cache.Flush()
	d.telemetry = NewTelemetry(d.config.EnableTelemetry)
	if d.loaded {
		d.rf.Write32(RegPatternCount, uint32(d.store.Len()))
		d.rf.SetStatus(StatusPatternsLoaded)
	}
	return true
}

// WaitReady polls the status register until READY, an error, or the
// timeout. Timing out sets ERR_QUERY_TIMEOUT.
func (d *Device) WaitReady(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		status := Status(d.rf.Read32(RegStatus))
		if status&StatusReady != 0 {
			return true
		}
		if status&StatusError != 0 {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	d.rf.SetError(ErrQueryTimeout)
	return false
}

// ---------------------------------------------------------------------------
// Diagnostics
// ---------------------------------------------------------------------------

// StatusString renders the status bits, folding the error code into the
// ERROR marker.
func (d *Device) StatusString() string {
	status := d.rf.Status()
	errCode := d.rf.Error()

	var parts []string
	for _, b := range statusBitNames {
		if status&b.bit == 0 {
			continue
		}
		if b.bit == StatusError {
			parts = append(parts, fmt.Sprintf("ERROR(0x%02X)", uint32(errCode)))
			continue
		}
		parts = append(parts, b.name)
	}
	if len(parts) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(parts, " | ")
}

// Telemetry returns the current statistics snapshot.
func (d *Device) Telemetry() TelemetryReport {
	return d.telemetry.Snapshot(d.cache)
}

// Diagnostics renders the full hardware diagnostic block.
func (d *Device) Diagnostics() string {
	patterns, archetypes, sequences := 0, 0, 0
	if d.store != nil {
		patterns = d.store.Len()
		archetypes = d.store.ArchetypeCount()
		sequences = d.store.SequenceCount()
	}

	rep := d.Telemetry()
	lines := []string{
		"=== NPU-253 Hardware Diagnostics ===",
		fmt.Sprintf("Status: %s", d.StatusString()),
		fmt.Sprintf("Patterns Loaded: %d/253", patterns),
		fmt.Sprintf("Archetypal Patterns: %d", archetypes),
		fmt.Sprintf("Sequences: %d", sequences),
		fmt.Sprintf("Cache Size: %d/%d", d.cache.Len(), d.config.CacheSize),
		"",
		"=== Performance Metrics ===",
		fmt.Sprintf("total_queries: %d", rep.TotalQueries),
		fmt.Sprintf("total_transformations: %d", rep.TotalTransformations),
		fmt.Sprintf("total_navigations: %d", rep.TotalNavigations),
		fmt.Sprintf("avg_query_time_us: %g", rep.AvgQueryTimeUS),
		fmt.Sprintf("cache_hits: %d", rep.CacheHits),
		fmt.Sprintf("cache_misses: %d", rep.CacheMisses),
		fmt.Sprintf("cache_hit_rate: %g", rep.CacheHitRate),
		fmt.Sprintf("uptime_seconds: %g", rep.UptimeSeconds),
	}
	return strings.Join(lines, "\n")
}
