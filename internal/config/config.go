// Package config loads the optional per-project check registry from
// .dokita.toml. The schema is strict: unknown keys are rejected so that
// typos in check codes or section names surface immediately.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"dokita/internal/diag"
)

// FileName is the configuration filename looked up in the project root.
const FileName = ".dokita.toml"

// Config is the parsed .dokita.toml. The zero value is the default
// configuration: every check enabled.
type Config struct {
	General GeneralConfig `toml:"general"`
	Checks  ChecksConfig  `toml:"checks"`
}

// GeneralConfig is reserved for future settings.
type GeneralConfig struct{}

// ChecksConfig maps check codes to enabled/disabled.
// Absence of a code means enabled.
type ChecksConfig struct {
	Enabled map[string]bool `toml:"enabled"`
}

// Load reads FileName from projectRoot. A missing file yields the default
// configuration; a present but unreadable or malformed file is an error the
// caller may degrade from.
func Load(projectRoot string) (Config, error) {
	var cfg Config
	path := filepath.Join(projectRoot, FileName)
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("%s: failed to parse config: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown config keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// IsCheckEnabled reports whether a check code is enabled.
// Codes not mentioned in the config default to enabled.
func (c Config) IsCheckEnabled(code diag.Code) bool {
	if v, ok := c.Checks.Enabled[string(code)]; ok {
		return v
	}
	return true
}
