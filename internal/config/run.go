// Package config holds the run configuration for a dark calibration pass.
// Configs are JSON with optional fields; omitted fields keep their defaults,
// so partial config files are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RunConfig is the configuration surface of one calibration run.
type RunConfig struct {
	// DataFolder holds the raw dark exposures; Keyword is the substring
	// filter applied to its file names.
	DataFolder *string `json:"data_folder,omitempty"`
	Keyword    *string `json:"keyword,omitempty"`

	// OutputPath receives every persisted artifact and figure. Created if
	// absent.
	OutputPath *string `json:"output_path,omitempty"`

	// FirstFile/LastFile bound the selected file list, [first, last).
	// Omitted bounds are open-ended.
	FirstFile *int `json:"first_file,omitempty"`
	LastFile  *int `json:"last_file,omitempty"`

	// EdgeMin/EdgeMax are the integer histogram bounds.
	EdgeMin *int `json:"edge_min,omitempty"`
	EdgeMax *int `json:"edge_max,omitempty"`

	// Save persists the superdark and monitoring artifacts; Monitor enables
	// the diagnostics pass; Plots renders the monitoring figures.
	Save    *bool `json:"save,omitempty"`
	Monitor *bool `json:"monitor,omitempty"`
	Plots   *bool `json:"plots,omitempty"`
}

// Helper functions to create pointers
func ptrString(v string) *string { return &v }
func ptrInt(v int) *int          { return &v }
func ptrBool(v bool) *bool       { return &v }

// Defaults returns the default run configuration.
func Defaults() *RunConfig {
	return &RunConfig{
		DataFolder: ptrString("."),
		Keyword:    ptrString("dark"),
		OutputPath: ptrString("output"),
		FirstFile:  ptrInt(-1),
		LastFile:   ptrInt(-1),
		EdgeMin:    ptrInt(-1000),
		EdgeMax:    ptrInt(1000),
		Save:       ptrBool(false),
		Monitor:    ptrBool(false),
		Plots:      ptrBool(false),
	}
}

// Load reads a RunConfig from a JSON file. The path must have a .json
// extension and the file is size-capped for safety.
func Load(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	raw, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &RunConfig{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Merge overlays set fields of other onto c.
func (c *RunConfig) Merge(other *RunConfig) {
	if other == nil {
		return
	}
	if other.DataFolder != nil {
		c.DataFolder = other.DataFolder
	}
	if other.Keyword != nil {
		c.Keyword = other.Keyword
	}
	if other.OutputPath != nil {
		c.OutputPath = other.OutputPath
	}
	if other.FirstFile != nil {
		c.FirstFile = other.FirstFile
	}
	if other.LastFile != nil {
		c.LastFile = other.LastFile
	}
	if other.EdgeMin != nil {
		c.EdgeMin = other.EdgeMin
	}
	if other.EdgeMax != nil {
		c.EdgeMax = other.EdgeMax
	}
	if other.Save != nil {
		c.Save = other.Save
	}
	if other.Monitor != nil {
		c.Monitor = other.Monitor
	}
	if other.Plots != nil {
		c.Plots = other.Plots
	}
}

// Validate checks that a merged configuration is runnable.
func (c *RunConfig) Validate() error {
	if c.DataFolder == nil || *c.DataFolder == "" {
		return fmt.Errorf("config: data_folder is required")
	}
	if c.OutputPath == nil || *c.OutputPath == "" {
		return fmt.Errorf("config: output_path is required")
	}
	if c.EdgeMin == nil || c.EdgeMax == nil || *c.EdgeMax <= *c.EdgeMin {
		return fmt.Errorf("config: histogram edges must be increasing")
	}
	return nil
}
