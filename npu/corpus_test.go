package npu

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTestCorpus writes the three corpus documents into a temp directory
// and returns a device config pointing at them. The records mirror the
// in-memory fixtures from store_test.go, so expectations line up across
// the store, device, and dispatch tests.
func writeTestCorpus(t testing.TB) Config {
	t.Helper()
	return writeCorpus(t, storePatterns(), storeArchetypes(), storeSequences())
}

// writeCorpus writes arbitrary corpus documents for a test or benchmark.
func writeCorpus(t testing.TB, patterns []Pattern, archetypes []Archetype, sequences []Sequence) Config {
	t.Helper()
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.CacheSize = 8
	cfg.PatternDataPath = filepath.Join(dir, "pattern_language_generated.json")
	cfg.ArchetypalDataPath = filepath.Join(dir, "archetypal_patterns.json")
	cfg.SequencesDataPath = filepath.Join(dir, "pattern_sequences.json")

	writeDocument(t, cfg.PatternDataPath, patternDocument{Patterns: patterns})
	writeDocument(t, cfg.ArchetypalDataPath, archetypeDocument{Patterns: archetypes})
	writeDocument(t, cfg.SequencesDataPath, sequenceDocument{Sequences: sequences})
	return cfg
}

func writeDocument(t testing.TB, path string, doc any) {
	t.Helper()
	if err := os.WriteFile(path, mustMarshal(t, doc), 0644); err != nil {
		t.Fatal(err)
	}
}

// newLoadedDevice builds a device over the test corpus and loads it.
func newLoadedDevice(t testing.TB) *Device {
	t.Helper()
	d := NewDevice(writeTestCorpus(t))
	if !d.Load() {
		t.Fatalf("Load failed: error code %s", d.ErrorCode())
	}
	return d
}
