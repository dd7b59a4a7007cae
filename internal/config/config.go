package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/banshee-data/batchest/internal/dataset"
	"github.com/banshee-data/batchest/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/batchest.defaults.json"

// Defaults applied by the Get* accessors when a field is unset.
const (
	DefaultDataPath          = "data.mat"
	DefaultRotationTolerance = dataset.DefaultRotationTolerance
	maxFileSize              = 1 * 1024 * 1024 // 1MB
)

// Config is the command configuration. Pointer fields distinguish "unset"
// from zero values so partial files fall back to defaults.
type Config struct {
	// DataPath is the MATLAB container to load.
	DataPath *string `json:"data_path,omitempty"`
	// RotationTolerance bounds how far C_c_v may be from a proper rotation.
	RotationTolerance *float64 `json:"rotation_tolerance,omitempty"`
	// RequireMonotonicTime rejects datasets whose timestamps decrease.
	RequireMonotonicTime *bool `json:"require_monotonic_time,omitempty"`
	// Debug enables per-field logging during assembly.
	Debug *bool `json:"debug,omitempty"`
}

func ptrString(v string) *string    { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		DataPath:             ptrString(DefaultDataPath),
		RotationTolerance:    ptrFloat64(DefaultRotationTolerance),
		RequireMonotonicTime: ptrBool(true),
		Debug:                ptrBool(false),
	}
}

// LoadConfig loads a Config from a JSON file. Comments and trailing
// commas are accepted. The file must have a .json extension and be at
// most 1MB. Fields omitted from the file keep their defaults through the
// Get* accessors.
func LoadConfig(fsys fsutil.FileSystem, path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", cleanPath)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(std, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.DataPath != nil && *c.DataPath == "" {
		return fmt.Errorf("data_path must not be empty")
	}
	if c.RotationTolerance != nil {
		if tol := *c.RotationTolerance; tol <= 0 || tol >= 1 {
			return fmt.Errorf("rotation_tolerance must be in (0, 1), got %g", tol)
		}
	}
	return nil
}

// GetDataPath returns the data_path value or the default.
func (c *Config) GetDataPath() string {
	if c.DataPath == nil || *c.DataPath == "" {
		return DefaultDataPath
	}
	return *c.DataPath
}

// GetRotationTolerance returns the rotation_tolerance value or the default.
func (c *Config) GetRotationTolerance() float64 {
	if c.RotationTolerance == nil {
		return DefaultRotationTolerance
	}
	return *c.RotationTolerance
}

// GetRequireMonotonicTime returns the require_monotonic_time value or the default.
func (c *Config) GetRequireMonotonicTime() bool {
	if c.RequireMonotonicTime == nil {
		return true
	}
	return *c.RequireMonotonicTime
}

// GetDebug returns the debug value or the default.
func (c *Config) GetDebug() bool {
	if c.Debug == nil {
		return false
	}
	return *c.Debug
}

// SetDataPath overrides data_path, e.g. from a command-line flag.
func (c *Config) SetDataPath(path string) {
	c.DataPath = ptrString(path)
}
