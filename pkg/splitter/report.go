// Copyright © 2018 One Concern

package splitter

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Report is the YAML description of a split
type Report struct {
	Source       string          `json:"source" yaml:"source"`
	Target       string          `json:"target" yaml:"target"`
	MaxObjects   int             `json:"maxObjects" yaml:"maxObjects"`
	Outcome      string          `json:"outcome" yaml:"outcome"`
	Objects      int             `json:"objects" yaml:"objects"`
	FilesCopied  int             `json:"filesCopied" yaml:"filesCopied"`
	FilesSkipped int             `json:"filesSkipped" yaml:"filesSkipped"`
	BytesCopied  int64           `json:"bytesCopied" yaml:"bytesCopied"`
	Packages     []PackageReport `json:"packages,omitempty" yaml:"packages,omitempty"`
}

// PackageReport describes one target package
type PackageReport struct {
	Name           string   `json:"name" yaml:"name"`
	Path           string   `json:"path" yaml:"path"`
	MetadataRows   int      `json:"metadataRows" yaml:"metadataRows"`
	Objects        []string `json:"objects" yaml:"objects"`
	MissingObjects []string `json:"missingMetadata,omitempty" yaml:"missingMetadata,omitempty"`
}

// Report builds the description of the result of a split
func (s *Splitter) Report(result *Result) Report {
	r := Report{
		Source:     s.source.Root,
		Target:     s.targetDir,
		MaxObjects: s.maxObjects,
	}
	if result == nil {
		return r
	}
	r.Outcome = result.Outcome.String()
	r.Objects = result.Objects
	r.FilesCopied = result.Stats.Files
	r.FilesSkipped = result.Stats.Skipped
	r.BytesCopied = result.Stats.Bytes
	for _, pkg := range result.Packages {
		r.Packages = append(r.Packages, PackageReport{
			Name:           pkg.Name,
			Path:           pkg.Path,
			MetadataRows:   pkg.MetadataRows,
			Objects:        pkg.Objects,
			MissingObjects: pkg.Missing,
		})
	}
	return r
}

// WriteFile marshals the report as YAML to path
func (r Report) WriteFile(fs afero.Fs, path string) error {
	b, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}
	if err = afero.WriteFile(fs, path, b, 0o644); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}
	return nil
}
