// Package config loads the configuration for the alphabet driver,
// translator, and server from TOML via github.com/BurntSushi/toml.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// DriverConfig controls the alphabet driver's fixed-point loop (section
// 4.8) and the n-parallel expander.
type DriverConfig struct {
	// IterationLimit bounds how many times the fixed-point loop may
	// recompute every equation's alphabet before giving up with
	// errs.AlphabetNotConverged. Zero means unbounded.
	IterationLimit int `toml:"iteration_limit"`

	// EnableNParallelExpansion toggles the n-parallel replication pattern
	// recognizer. Disabling it is useful for debugging a
	// suspected misclassification.
	EnableNParallelExpansion bool `toml:"enable_n_parallel_expansion"`
}

// TranslateConfig controls the modal-to-PBES translator.
type TranslateConfig struct {
	// Timed forces the timed translation variant even when neither the
	// formula nor the linear process use explicit timestamps.
	Timed bool `toml:"timed"`

	// NormalizeOutput runs the negation-pushing normalizer and parameter
	// elimination pass (translate/normalize.go, translate/parelm.go) over
	// the produced PBES before returning it.
	NormalizeOutput bool `toml:"normalize_output"`
}

// Config is the top-level configuration document, one TOML file covering
// both the driver and the translator.
type Config struct {
	Driver    DriverConfig    `toml:"driver"`
	Translate TranslateConfig `toml:"translate"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Driver: DriverConfig{
			IterationLimit:           10000,
			EnableNParallelExpansion: true,
		},
		Translate: TranslateConfig{
			Timed:           false,
			NormalizeOutput: true,
		},
	}
}

// Load reads and parses a TOML configuration file at path, filling in any
// field left unset in the file with the Default() value for that section.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var onDisk Config
	if err := toml.Unmarshal(data, &onDisk); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if onDisk.Driver.IterationLimit != 0 {
		cfg.Driver.IterationLimit = onDisk.Driver.IterationLimit
	}
	cfg.Driver.EnableNParallelExpansion = onDisk.Driver.EnableNParallelExpansion || cfg.Driver.EnableNParallelExpansion
	cfg.Translate.Timed = onDisk.Translate.Timed
	if onDisk.Translate.NormalizeOutput {
		cfg.Translate.NormalizeOutput = true
	}
	return cfg, nil
}
