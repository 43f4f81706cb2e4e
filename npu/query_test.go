package npu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQueryByID(t *testing.T) {
	d := newLoadedDevice(t)

	for _, id := range []int{1, 2, 3, 95, 150, 205, 206} {
		p, ok := d.QueryByID(id)
		if !ok {
			t.Fatalf("QueryByID(%d) failed: %s", id, d.ErrorCode())
		}
		if p.ID != id {
			t.Errorf("QueryByID(%d) returned id %d", id, p.ID)
		}
	}

	if got := d.Read32(RegPatternID); got != 206 {
		t.Errorf("PATTERN_ID = %d, want 206", got)
	}
	if got := d.Read32(RegResultCount); got != 1 {
		t.Errorf("RESULT_COUNT = %d, want 1", got)
	}
	if d.Status()&StatusReady == 0 {
		t.Error("Expected READY after successful query")
	}
}

func TestQueryByIDCacheHit(t *testing.T) {
	d := newLoadedDevice(t)

	// First lookup misses the cache and mirrors the perf registers.
	if _, ok := d.QueryByID(1); !ok {
		t.Fatal("query failed")
	}
	if got := d.Read32(RegPerfQueries); got != 1 {
		t.Fatalf("PERF_QUERIES = %d, want 1", got)
	}

	// The hit serves from the cache: telemetry counts it, but the result
	// registers are not touched again.
	d.Write32(RegPatternID, 0)
	if _, ok := d.QueryByID(1); !ok {
		t.Fatal("cached query failed")
	}
	if got := d.Read32(RegPerfQueries); got != 1 {
		t.Errorf("PERF_QUERIES = %d, want 1 after cache hit", got)
	}
	if got := d.Read32(RegPatternID); got != 0 {
		t.Errorf("PATTERN_ID = %d, want 0 after cache hit", got)
	}

	rep := d.Telemetry()
	if rep.TotalQueries != 2 {
		t.Errorf("TotalQueries = %d, want 2", rep.TotalQueries)
	}
	if rep.CacheHits != 1 || rep.CacheMisses != 1 {
		t.Errorf("cache counters = %d/%d, want 1/1", rep.CacheHits, rep.CacheMisses)
	}
}

func TestQueryByIDNotFound(t *testing.T) {
	d := newLoadedDevice(t)

	if _, ok := d.QueryByID(404); ok {
		t.Fatal("Expected miss for absent id")
	}
	if d.ErrorCode() != ErrPatternNotFound {
		t.Errorf("error code = %s, want PATTERN_NOT_FOUND", d.ErrorCode())
	}
	if d.Status()&StatusError == 0 {
		t.Error("Expected ERROR set")
	}
	if d.Status()&StatusReady != 0 {
		t.Error("Expected READY clear on failure")
	}
	if got := d.Read32(RegResultCount); got != 0 {
		t.Errorf("RESULT_COUNT = %d, want 0", got)
	}
	// Failed lookups never populate the cache.
	if rep := d.Telemetry(); rep.CacheHits != 0 {
		t.Errorf("CacheHits = %d, want 0", rep.CacheHits)
	}
}

func TestQueryErrorClearedByNextOperation(t *testing.T) {
	d := newLoadedDevice(t)

	d.QueryByID(404)
	if d.ErrorCode() != ErrPatternNotFound {
		t.Fatalf("error code = %s, want PATTERN_NOT_FOUND", d.ErrorCode())
	}

	if _, ok := d.QueryByID(1); !ok {
		t.Fatal("query failed")
	}
	if d.ErrorCode() != ErrNone {
		t.Errorf("error code = %s, want NONE after success", d.ErrorCode())
	}
	if d.Status()&StatusError != 0 {
		t.Error("Expected ERROR cleared by next operation")
	}
}

func TestQueryNotLoaded(t *testing.T) {
	d := NewDevice(writeTestCorpus(t))

	checks := []struct {
		name string
		run  func() bool
	}{
		{"QueryByID", func() bool { _, ok := d.QueryByID(1); return ok }},
		{"QueryByName", func() bool { _, ok := d.QueryByName("x"); return ok }},
		{"QueryByText", func() bool { _, ok := d.QueryByText("x"); return ok }},
		{"Transform", func() bool { _, ok := d.Transform("apl_001", DomainPhysical); return ok }},
		{"Preceding", func() bool { _, ok := d.Preceding(1); return ok }},
		{"Following", func() bool { _, ok := d.Following(1); return ok }},
		{"SequencePatterns", func() bool { _, ok := d.SequencePatterns(1); return ok }},
		{"CategoryPatterns", func() bool { _, ok := d.CategoryPatterns("towns"); return ok }},
	}
	for _, tc := range checks {
		if tc.run() {
			t.Errorf("%s succeeded on unloaded device", tc.name)
		}
		if d.ErrorCode() != ErrNotLoaded {
			t.Errorf("%s: error code = %s, want NOT_LOADED", tc.name, d.ErrorCode())
		}
	}
}

func TestQueryByName(t *testing.T) {
	d := newLoadedDevice(t)

	p, ok := d.QueryByName("a place to wait")
	if !ok {
		t.Fatalf("QueryByName failed: %s", d.ErrorCode())
	}
	if p.ID != 150 {
		t.Errorf("id = %d, want 150", p.ID)
	}
	if got := d.Read32(RegResultCount); got != 1 {
		t.Errorf("RESULT_COUNT = %d, want 1", got)
	}
	if d.Status()&StatusReady == 0 {
		t.Error("Expected READY set")
	}
	// By-name lookups do not touch the PATTERN_ID register.
	if got := d.Read32(RegPatternID); got != 0 {
		t.Errorf("PATTERN_ID = %d, want 0", got)
	}

	// Ids 2 and 206 share a name; the lowest id wins.
	p, ok = d.QueryByName("DISTRIBUTION OF TOWNS")
	if !ok {
		t.Fatal("QueryByName failed for duplicated name")
	}
	if p.ID != 2 {
		t.Errorf("id = %d, want 2", p.ID)
	}

	if _, ok := d.QueryByName("no such pattern"); ok {
		t.Fatal("Expected miss for unknown name")
	}
	if d.ErrorCode() != ErrPatternNotFound {
		t.Errorf("error code = %s, want PATTERN_NOT_FOUND", d.ErrorCode())
	}
}

func TestQueryByText(t *testing.T) {
	d := newLoadedDevice(t)

	results, ok := d.QueryByText("urban")
	if !ok {
		t.Fatalf("QueryByText failed: %s", d.ErrorCode())
	}
	if diff := cmp.Diff([]int{2, 3}, patternIDs(results)); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if got := d.Read32(RegResultCount); got != 2 {
		t.Errorf("RESULT_COUNT = %d, want 2", got)
	}
}

func TestQueryByTextNoMatches(t *testing.T) {
	d := newLoadedDevice(t)

	// An empty result is a successful query, not an error.
	results, ok := d.QueryByText("ziggurat")
	if !ok {
		t.Fatalf("QueryByText failed: %s", d.ErrorCode())
	}
	if len(results) != 0 {
		t.Errorf("Expected no matches, got %v", patternIDs(results))
	}
	if got := d.Read32(RegResultCount); got != 0 {
		t.Errorf("RESULT_COUNT = %d, want 0", got)
	}
	if d.Status()&StatusReady == 0 {
		t.Error("Expected READY set")
	}
	if d.ErrorCode() != ErrNone {
		t.Errorf("error code = %s, want NONE", d.ErrorCode())
	}
}

func TestTransform(t *testing.T) {
	d := newLoadedDevice(t)

	text, ok := d.Transform("apl_001", DomainPhysical)
	if !ok {
		t.Fatalf("Transform failed: %s", d.ErrorCode())
	}
	if text != "a town b" {
		t.Errorf("Transform = %q, want a town b", text)
	}
	if got := d.Read32(RegPerfTransform); got != 1 {
		t.Errorf("PERF_TRANSFORM = %d, want 1", got)
	}
	if d.Status()&StatusReady == 0 {
		t.Error("Expected READY set")
	}

	// Unmapped placeholders survive as literal tokens.
	text, ok = d.Transform("apl_002", DomainPhysical)
	if !ok {
		t.Fatal("Transform failed")
	}
	if text != "wall and wall around {{y}}" {
		t.Errorf("Transform = %q", text)
	}
	if got := d.Read32(RegPerfTransform); got != 2 {
		t.Errorf("PERF_TRANSFORM = %d, want 2", got)
	}
}

func TestTransformLeavesQueryPerfRegisters(t *testing.T) {
	d := newLoadedDevice(t)

	// PERF_QUERIES and PERF_AVG_TIME_US belong to the query path; a
	// transformation mirrors only its own counter.
	d.Write32(RegPerfQueries, 7)
	d.Write32(RegPerfAvgTimeUS, 42)

	text, ok := d.Transform("apl_001", DomainSocial)
	if !ok {
		t.Fatalf("Transform failed: %s", d.ErrorCode())
	}
	if text != "a circle b" {
		t.Errorf("Transform = %q, want a circle b", text)
	}

	if got := d.Read32(RegPerfQueries); got != 7 {
		t.Errorf("PERF_QUERIES = %d, want 7", got)
	}
	if got := d.Read32(RegPerfAvgTimeUS); got != 42 {
		t.Errorf("PERF_AVG_TIME_US = %d, want 42", got)
	}
	if got := d.Read32(RegPerfTransform); got != 1 {
		t.Errorf("PERF_TRANSFORM = %d, want 1", got)
	}
}

func TestTransformInvalidDomain(t *testing.T) {
	d := newLoadedDevice(t)

	for _, domain := range []Domain{DomainNone, Domain(5), Domain(99)} {
		if _, ok := d.Transform("apl_001", domain); ok {
			t.Fatalf("Transform succeeded for domain %d", domain)
		}
		if d.ErrorCode() != ErrInvalidDomain {
			t.Errorf("domain %d: error code = %s, want INVALID_DOMAIN", domain, d.ErrorCode())
		}
	}

	// The domain is validated before the id, so a bad domain wins even
	// when the archetype does not exist.
	if _, ok := d.Transform("apl_404", DomainNone); ok {
		t.Fatal("Transform succeeded for bad domain and bad id")
	}
	if d.ErrorCode() != ErrInvalidDomain {
		t.Errorf("error code = %s, want INVALID_DOMAIN", d.ErrorCode())
	}
}

func TestTransformUnknownArchetype(t *testing.T) {
	d := newLoadedDevice(t)

	if _, ok := d.Transform("apl_404", DomainPhysical); ok {
		t.Fatal("Expected miss for unknown archetype")
	}
	if d.ErrorCode() != ErrPatternNotFound {
		t.Errorf("error code = %s, want PATTERN_NOT_FOUND", d.ErrorCode())
	}
}

func TestNavigation(t *testing.T) {
	d := newLoadedDevice(t)

	prev, ok := d.Preceding(3)
	if !ok {
		t.Fatalf("Preceding failed: %s", d.ErrorCode())
	}
	if diff := cmp.Diff([]int{1}, patternIDs(prev)); diff != "" {
		t.Errorf("preceding mismatch (-want +got):\n%s", diff)
	}

	// The stored link to absent id 999 is skipped, not an error.
	next, ok := d.Following(3)
	if !ok {
		t.Fatalf("Following failed: %s", d.ErrorCode())
	}
	if diff := cmp.Diff([]int{2}, patternIDs(next)); diff != "" {
		t.Errorf("following mismatch (-want +got):\n%s", diff)
	}
	if got := d.Read32(RegResultCount); got != 1 {
		t.Errorf("RESULT_COUNT = %d, want 1", got)
	}

	if rep := d.Telemetry(); rep.TotalNavigations != 2 {
		t.Errorf("TotalNavigations = %d, want 2", rep.TotalNavigations)
	}

	if _, ok := d.Preceding(404); ok {
		t.Fatal("Expected miss for absent id")
	}
	if d.ErrorCode() != ErrPatternNotFound {
		t.Errorf("error code = %s, want PATTERN_NOT_FOUND", d.ErrorCode())
	}
}

func TestSequencePatternsDevice(t *testing.T) {
	d := newLoadedDevice(t)

	results, ok := d.SequencePatterns(1)
	if !ok {
		t.Fatalf("SequencePatterns failed: %s", d.ErrorCode())
	}
	if diff := cmp.Diff([]int{2, 3}, patternIDs(results)); diff != "" {
		t.Errorf("sequence mismatch (-want +got):\n%s", diff)
	}
	if got := d.Read32(RegSequenceID); got != 1 {
		t.Errorf("SEQUENCE_ID = %d, want 1", got)
	}
	if got := d.Read32(RegResultCount); got != 2 {
		t.Errorf("RESULT_COUNT = %d, want 2", got)
	}

	// Sequence retrieval is not a connection walk.
	if rep := d.Telemetry(); rep.TotalNavigations != 0 {
		t.Errorf("TotalNavigations = %d, want 0", rep.TotalNavigations)
	}

	if _, ok := d.SequencePatterns(9999); ok {
		t.Fatal("Expected miss for absent sequence")
	}
	if d.ErrorCode() != ErrPatternNotFound {
		t.Errorf("error code = %s, want PATTERN_NOT_FOUND", d.ErrorCode())
	}
}

func TestCategoryPatternsDevice(t *testing.T) {
	d := newLoadedDevice(t)

	results, ok := d.CategoryPatterns("towns")
	if !ok {
		t.Fatalf("CategoryPatterns failed: %s", d.ErrorCode())
	}
	if diff := cmp.Diff([]int{1, 2, 3}, patternIDs(results)); diff != "" {
		t.Errorf("category mismatch (-want +got):\n%s", diff)
	}
	if got := d.Read32(RegResultCount); got != 3 {
		t.Errorf("RESULT_COUNT = %d, want 3", got)
	}

	if _, ok := d.CategoryPatterns("gardens"); ok {
		t.Fatal("Expected miss for unknown category")
	}
	if d.ErrorCode() != ErrPatternNotFound {
		t.Errorf("error code = %s, want PATTERN_NOT_FOUND", d.ErrorCode())
	}
}
