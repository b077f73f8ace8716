package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the on-disk layout of a catalog:
//
//	artifacts:
//	  - id: H1-FRAMES-0
//	    owner: H1
//	    start: 1000000000
//	    end: 1000004096
//	    tags: [RAW]
type fileFormat struct {
	Artifacts []Artifact `yaml:"artifacts"`
}

// Decode reads a YAML catalog.
func Decode(r io.Reader) (*Memory, error) {
	var f fileFormat
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return NewMemory(f.Artifacts...)
}

// Load reads a YAML catalog file.
func Load(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
