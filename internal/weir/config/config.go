// Package config loads the compiler's TOML project file: which source
// files make up the grammar, which definitions are exported, and the
// default alphabet/substring options each export uses.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// ExportConfig is one [[export]] table: a named definition to compile and
// link, plus the options it should be linked with.
type ExportConfig struct {
	Definition string `toml:"definition"`
	Substring  bool   `toml:"substring"`
	Backend    string `toml:"backend"` // "go", "dot", or a second emitted language's name
	Params     string `toml:"params"`  // opaque pass-through for the emitted transit signature
}

// Config is the top-level shape of a weir project file.
type Config struct {
	Sources     []string       `toml:"sources"`
	MaxOrdinary int64          `toml:"max_ordinary"`
	OutDir      string         `toml:"out_dir"`
	Export      []ExportConfig `toml:"export"`
}

// Default returns the configuration used when no project file is given:
// byte alphabet, output alongside the invocation directory.
func Default() Config {
	return Config{MaxOrdinary: 255, OutDir: "."}
}

// Load reads and parses the TOML project file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("weir: config: reading %q: %w", path, err)
	}
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("weir: config: parsing %q: %w", path, err)
	}
	if len(cfg.Sources) == 0 {
		return Config{}, fmt.Errorf("weir: config: %q declares no sources", path)
	}
	for i, ex := range cfg.Export {
		if ex.Definition == "" {
			return Config{}, fmt.Errorf("weir: config: export entry %d is missing a definition name", i)
		}
		if ex.Backend == "" {
			cfg.Export[i].Backend = "go"
		}
	}
	return cfg, nil
}
