// Package config loads cmd/bpec's tuning parameters with the same layered
// precedence as calvinalkan-agent-task/config.go: defaults, then a global
// user config file, then a project config file, then CLI flags, each
// overriding only the fields it sets.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/bytepair/bpec/internal/bpeerr"
	"github.com/bytepair/bpec/internal/freqcount"
)

// FileName is the default project-level config file name.
const FileName = ".bpec.json"

// Config holds the tuning parameters spec.md §4.4 calls non-semantic:
// changing them changes performance, never the resulting dictionary.
type Config struct {
	Workers          int `json:"workers,omitempty"`
	ChunkSizeBytes   int `json:"chunk_size_bytes,omitempty"`
	DecoderCacheSize int `json:"decoder_cache_size,omitempty"`
}

// Default returns the tuning parameters internal/freqcount uses when no
// config file or flag overrides them.
func Default() Config {
	d := freqcount.DefaultOptions()
	return Config{
		Workers:          d.Workers,
		ChunkSizeBytes:   d.ChunkSize,
		DecoderCacheSize: 256,
	}
}

// ToCounterOptions projects Config onto the frequency counter's options.
func (c Config) ToCounterOptions() freqcount.Options {
	return freqcount.Options{Workers: c.Workers, ChunkSize: c.ChunkSizeBytes}
}

// globalPath returns $XDG_CONFIG_HOME/bpec/config.json, falling back to
// ~/.config/bpec/config.json, or "" if neither can be determined.
func globalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bpec", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bpec", "config.json")
}

// Load builds a Config from defaults, the global config file (if present),
// and then either an explicit configPath (if non-empty; it must exist) or,
// when configPath is empty, the project config file at workDir/.bpec.json
// (if present). The project file is not read when configPath is given.
// Later sources override only the fields they set; a zero field never
// overrides a prior value.
func Load(workDir, configPath string) (Config, error) {
	cfg := Default()

	if gp := globalPath(); gp != "" {
		if err := mergeFile(&cfg, gp, false); err != nil {
			return Config{}, err
		}
	}

	if configPath != "" {
		if !filepath.IsAbs(configPath) {
			configPath = filepath.Join(workDir, configPath)
		}
		if err := mergeFile(&cfg, configPath, true); err != nil {
			return Config{}, err
		}
	} else {
		if err := mergeFile(&cfg, filepath.Join(workDir, FileName), false); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func mergeFile(cfg *Config, path string, mustExist bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return nil
		}
		return bpeerr.Wrapf(bpeerr.ErrIO, "read config %s", path)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return bpeerr.Wrapf(bpeerr.ErrIO, "invalid JSONC in %s: %v", path, err)
	}

	var file Config
	if err := json.Unmarshal(standardized, &file); err != nil {
		return bpeerr.Wrapf(bpeerr.ErrIO, "invalid config %s: %v", path, err)
	}

	if file.Workers != 0 {
		cfg.Workers = file.Workers
	}
	if file.ChunkSizeBytes != 0 {
		cfg.ChunkSizeBytes = file.ChunkSizeBytes
	}
	if file.DecoderCacheSize != 0 {
		cfg.DecoderCacheSize = file.DecoderCacheSize
	}
	return nil
}

// String renders cfg for diagnostics.
func (c Config) String() string {
	return fmt.Sprintf("workers=%d chunk_size_bytes=%d decoder_cache_size=%d",
		c.Workers, c.ChunkSizeBytes, c.DecoderCacheSize)
}
