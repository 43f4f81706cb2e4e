package npu

import "time"

// ---------------------------------------------------------------------------
// High-level driver operations
// ---------------------------------------------------------------------------

// begin gates an operation on the Loaded state and clears the previous
// error. The not-loaded rejection is the one path that sets the error
// register without clearing it first, since no operation executes.
func (d *Device) begin() bool {
	if !d.loaded {
		d.rf.SetError(ErrNotLoaded)
		return false
	}
	d.rf.ClearError()
	return true
}

// QueryByID returns the pattern with the given id. Cache hits record a
// hit and a latency sample and return immediately; only the store path
// populates the cache and mirrors the result registers.
func (d *Device) QueryByID(id int) (*Pattern, bool) {
	if !d.begin() {
		return nil, false
	}
	start := time.Now()

	if p, ok := d.cache.Get(id); ok {
		d.telemetry.RecordQuery(time.Since(start))
		return p, true
	}

	p, ok := d.store.ByID(id)
	if !ok {
		d.rf.SetError(ErrPatternNotFound)
		return nil, false
	}

	d.cache.Put(id, p)
	d.rf.Write32(RegPatternID, uint32(id))
	d.rf.Write32(RegResultCount, 1)
	d.rf.SetStatus(StatusReady)
	d.telemetry.RecordQuery(time.Since(start))
	d.mirrorQueryPerf()
	return p, true
}

// QueryByName returns the pattern whose name matches case-insensitively.
// Among same-named patterns the lowest id wins.
func (d *Device) QueryByName(name string) (*Pattern, bool) {
	if !d.begin() {
		return nil, false
	}
	start := time.Now()

	p, ok := d.store.ByName(name)
	if !ok {
		d.rf.SetError(ErrPatternNotFound)
		return nil, false
	}

	d.telemetry.RecordQuery(time.Since(start))
	d.rf.Write32(RegResultCount, 1)
	d.rf.SetStatus(StatusReady)
	return p, true
}

// QueryByText returns every pattern whose searchable text contains the
// given string, ordered by ascending id. An empty result is legal and
// reported as success with a non-nil empty slice.
func (d *Device) QueryByText(text string) ([]*Pattern, bool) {
	if !d.begin() {
		return nil, false
	}
	start := time.Now()

	results := d.store.Search(text)
	d.telemetry.RecordQuery(time.Since(start))
	d.rf.Write32(RegResultCount, uint32(len(results)))
	d.rf.SetStatus(StatusReady)
	return results, true
}

// Transform instantiates an archetypal pattern for a domain. The domain
// is validated before the id, so an invalid domain reports
// ERR_INVALID_DOMAIN whether or not the id exists. Placeholders without a
// value for the domain keep their literal {{name}} token.
func (d *Device) Transform(archetypalID string, domain Domain) (string, bool) {
	if !d.begin() {
		return "", false
	}
	start := time.Now()

	if domain < DomainPhysical || domain > DomainPsychic {
		d.rf.SetError(ErrInvalidDomain)
		return "", false
	}

	a, ok := d.store.Archetype(archetypalID)
	if !ok {
		d.rf.SetError(ErrPatternNotFound)
		return "", false
	}

	result := a.TransformTo(domain)
	d.telemetry.RecordTransform(time.Since(start))
	d.rf.Write32(RegPerfTransform, uint32(d.telemetry.Transforms()))
	d.rf.SetStatus(StatusReady)
	return result, true
}

// Preceding returns the records linked as preceding the given pattern,
// in stored order, skipping links that point outside the store.
func (d *Device) Preceding(id int) ([]*Pattern, bool) {
	return d.navigate(id, (*PatternStore).PrecedingOf)
}

// Following returns the records linked as following the given pattern.
func (d *Device) Following(id int) ([]*Pattern, bool) {
	return d.navigate(id, (*PatternStore).FollowingOf)
}

func (d *Device) navigate(id int, walk func(*PatternStore, int) ([]*Pattern, bool)) ([]*Pattern, bool) {
	if !d.begin() {
		return nil, false
	}

	results, ok := walk(d.store, id)
	if !ok {
		d.rf.SetError(ErrPatternNotFound)
		return nil, false
	}

	d.telemetry.RecordNavigation()
	d.rf.Write32(RegResultCount, uint32(len(results)))
	d.rf.SetStatus(StatusReady)
	return results, true
}

// SequencePatterns returns the member records of a sequence in definition
// order, skipping member ids absent from the store.
func (d *Device) SequencePatterns(id int) ([]*Pattern, bool) {
	if !d.begin() {
		return nil, false
	}

	results, ok := d.store.SequencePatterns(id)
	if !ok {
		d.rf.SetError(ErrPatternNotFound)
		return nil, false
	}

	d.rf.Write32(RegSequenceID, uint32(id))
	d.rf.Write32(RegResultCount, uint32(len(results)))
	d.rf.SetStatus(StatusReady)
	return results, true
}

// CategoryPatterns returns the records of a named category in ascending
// id order.
func (d *Device) CategoryPatterns(name string) ([]*Pattern, bool) {
	if !d.begin() {
		return nil, false
	}

	results, ok := d.store.CategoryPatterns(name)
	if !ok {
		d.rf.SetError(ErrPatternNotFound)
		return nil, false
	}

	d.rf.Write32(RegResultCount, uint32(len(results)))
	d.rf.SetStatus(StatusReady)
	return results, true
}

// mirrorQueryPerf copies the telemetry query counters into their
// performance registers.
func (d *Device) mirrorQueryPerf() {
	d.rf.Write32(RegPerfQueries, uint32(d.telemetry.Queries()))
	d.rf.Write32(RegPerfAvgTimeUS, uint32(d.telemetry.AverageQueryMicros()))
}
