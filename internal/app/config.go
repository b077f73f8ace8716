package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/tilegrid/internal/nodeid"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths  []string // hcl files or directories
	SegmentsPath string
	// Catalogs maps a catalog name, as referenced by stages, to a YAML file.
	Catalogs map[string]string
	// OutPath is where the plan is written. "-" means the app's output writer.
	OutPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("ConfigPaths is a required configuration field and cannot be empty")
	}
	if cfg.SegmentsPath == "" {
		return nil, errors.New("SegmentsPath is a required configuration field and cannot be empty")
	}
	for name := range cfg.Catalogs {
		if !nodeid.ValidName(name) {
			return nil, fmt.Errorf("invalid catalog name %q", name)
		}
	}
	if cfg.OutPath == "" {
		cfg.OutPath = "-"
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	return &cfg, nil
}
