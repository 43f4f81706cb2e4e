package npu

// Config carries the device construction parameters. The core takes the
// struct as-is and owns no file format; loading configuration from disk is
// the config package's job.
type Config struct {
	// EnableCache turns the pattern cache on. CacheSize is the bounded
	// LRU capacity and is fixed for the device's lifetime.
	EnableCache bool
	CacheSize   int

	// EnableTelemetry turns operation counting and latency sampling on.
	EnableTelemetry bool

	// Trace logs every register access at debug level.
	Trace bool

	// WindowSize is the shared host window size in bytes. Zero means
	// DefaultWindowSize.
	WindowSize int

	// Corpus document paths. A missing file is tolerated at load time;
	// its tables stay empty.
	PatternDataPath    string
	ArchetypalDataPath string
	SequencesDataPath  string
}

// DefaultConfig returns the device defaults: caching on at 128 entries,
// telemetry on, tracing off, and the conventional corpus file names in the
// working directory.
func DefaultConfig() Config {
	return Config{
		EnableCache:        true,
		CacheSize:          128,
		EnableTelemetry:    true,
		WindowSize:         DefaultWindowSize,
		PatternDataPath:    "pattern_language_generated.json",
		ArchetypalDataPath: "archetypal_patterns.json",
		SequencesDataPath:  "pattern_sequences.json",
	}
}

// cacheCapacity folds EnableCache and CacheSize into the single capacity
// the cache constructor takes.
func (c Config) cacheCapacity() int {
	if !c.EnableCache {
		return 0
	}
	return c.CacheSize
}
