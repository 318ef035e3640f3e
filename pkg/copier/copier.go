// Copyright © 2018 One Concern

// Package copier defines the capability to mirror a directory tree.
//
// Implementations behave like "rsync --archive": the content of the source
// directory is copied into the destination directory, permissions and
// modification times are preserved, and files already identical at the
// destination are skipped. Files present only at the destination are left
// untouched. Copying the same tree twice is therefore safe.
//
// This package supports the following implementations:
//   - localfs: a walk and copy over an afero.Fs
//   - rsync: the rsync command line utility
package copier

import (
	"context"
	"fmt"

	units "github.com/docker/go-units"
)

// TreeCopier copies the content of the src directory into the dst directory
type TreeCopier interface {
	String() string
	CopyTree(ctx context.Context, src, dst string) (Stats, error)
}

// Stats summarize what a copy did
type Stats struct {
	Files   int   // files transferred
	Skipped int   // files found up to date at the destination
	Bytes   int64 // bytes transferred
}

// Add other stats to these
func (s *Stats) Add(o Stats) {
	s.Files += o.Files
	s.Skipped += o.Skipped
	s.Bytes += o.Bytes
}

func (s Stats) String() string {
	return fmt.Sprintf("%d files copied (%s), %d up to date", s.Files, units.HumanSize(float64(s.Bytes)), s.Skipped)
}
