package npu

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrCorpus reports a corpus document that could not be decoded.
var ErrCorpus = errors.New("npu: malformed corpus document")

// The three corpus documents all wrap their records in a single top-level
// key. Missing record fields decode to zero values, which is the defined
// default for optional corpus data.
type patternDocument struct {
	Patterns []Pattern `json:"patterns"`
}

type archetypeDocument struct {
	Patterns []Archetype `json:"patterns"`
}

type sequenceDocument struct {
	Sequences []Sequence `json:"sequences"`
}

// LoadCorpus reads the corpus documents named by cfg and builds a pattern
// store from them. A missing file is skipped and its tables stay empty; an
// unreadable or malformed document fails the whole load with no store, so
// a partially populated corpus can never masquerade as a successful one.
func LoadCorpus(cfg Config) (*PatternStore, error) {
	var pdoc patternDocument
	if ok, err := readDocument(cfg.PatternDataPath, &pdoc); err != nil {
		return nil, err
	} else if ok {
		loadLog.Debugf("read %d pattern records from %s", len(pdoc.Patterns), cfg.PatternDataPath)
	}

	var adoc archetypeDocument
	if ok, err := readDocument(cfg.ArchetypalDataPath, &adoc); err != nil {
		return nil, err
	} else if ok {
		loadLog.Debugf("read %d archetypal records from %s", len(adoc.Patterns), cfg.ArchetypalDataPath)
	}

	var sdoc sequenceDocument
	if ok, err := readDocument(cfg.SequencesDataPath, &sdoc); err != nil {
		return nil, err
	} else if ok {
		loadLog.Debugf("read %d sequence records from %s", len(sdoc.Sequences), cfg.SequencesDataPath)
	}

	return NewPatternStore(pdoc.Patterns, adoc.Patterns, sdoc.Sequences), nil
}

// readDocument decodes one JSON document into the given wrapper. A missing
// file reports false with no error; any other failure is the caller's to
// surface.
func readDocument(path string, into any) (bool, error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("npu: read corpus %s: %w", path, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorpus, path, err)
	}
	return true, nil
}
