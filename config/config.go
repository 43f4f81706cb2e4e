// Package config handles npu253.toml device configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/patternlang/npu253/npu"
)

// File is the on-disk shape of a device configuration.
type File struct {
	Device Settings `toml:"device"`
	Corpus Corpus   `toml:"corpus"`
}

// Settings holds the device tuning knobs.
type Settings struct {
	EnableCache     bool `toml:"enable-cache"`
	CacheSize       int  `toml:"cache-size"`
	EnableTelemetry bool `toml:"enable-telemetry"`
	Trace           bool `toml:"trace"`
	WindowSize      int  `toml:"window-size"`
}

// Corpus names the three corpus documents. Relative paths are resolved
// against the directory containing the configuration file.
type Corpus struct {
	Patterns   string `toml:"patterns"`
	Archetypal string `toml:"archetypal"`
	Sequences  string `toml:"sequences"`
}

// Load parses a device configuration file. Keys left out of the file keep
// their defaults.
func Load(path string) (npu.Config, error) {
	f := fromConfig(npu.DefaultConfig())

	data, err := os.ReadFile(path)
	if err != nil {
		return npu.Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return npu.Config{}, fmt.Errorf("parse error in %s: %w", path, err)
	}

	cfg := f.toConfig()
	dir := filepath.Dir(path)
	cfg.PatternDataPath = resolve(dir, cfg.PatternDataPath)
	cfg.ArchetypalDataPath = resolve(dir, cfg.ArchetypalDataPath)
	cfg.SequencesDataPath = resolve(dir, cfg.SequencesDataPath)
	return cfg, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func fromConfig(cfg npu.Config) File {
	return File{
		Device: Settings{
			EnableCache:     cfg.EnableCache,
			CacheSize:       cfg.CacheSize,
			EnableTelemetry: cfg.EnableTelemetry,
			Trace:           cfg.Trace,
			WindowSize:      cfg.WindowSize,
		},
		Corpus: Corpus{
			Patterns:   cfg.PatternDataPath,
			Archetypal: cfg.ArchetypalDataPath,
			Sequences:  cfg.SequencesDataPath,
		},
	}
}

func (f File) toConfig() npu.Config {
	return npu.Config{
		EnableCache:        f.Device.EnableCache,
		CacheSize:          f.Device.CacheSize,
		EnableTelemetry:    f.Device.EnableTelemetry,
		Trace:              f.Device.Trace,
		WindowSize:         f.Device.WindowSize,
		PatternDataPath:    f.Corpus.Patterns,
		ArchetypalDataPath: f.Corpus.Archetypal,
		SequencesDataPath:  f.Corpus.Sequences,
	}
}
