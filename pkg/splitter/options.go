// Copyright © 2018 One Concern

package splitter

import (
	"io"

	"github.com/oneconcern/splitsip/pkg/copier"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultMaxObjects is the maximum number of objects per package, when not specified
const DefaultMaxObjects = 100

// Option defines an option for a Splitter
type Option func(*Splitter)

// MaxObjects sets the maximum number of objects held by a target package
func MaxObjects(n int) Option {
	return func(s *Splitter) {
		s.maxObjects = n
	}
}

// Prefix sets the prefix of target package folder names.
//
// Without a prefix, all target packages are named "package".
func Prefix(prefix string) Option {
	return func(s *Splitter) {
		s.prefix = prefix
	}
}

// FS sets the file system target packages are written to
func FS(fs afero.Fs) Option {
	return func(s *Splitter) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// TreeCopier sets the implementation used to copy folders into target packages
func TreeCopier(c copier.TreeCopier) Option {
	return func(s *Splitter) {
		if c != nil {
			s.copier = c
		}
	}
}

// OutputDelimiter sets the field delimiter of the metadata.csv files written to target packages
func OutputDelimiter(r rune) Option {
	return func(s *Splitter) {
		s.outputDelimiter = r
	}
}

// Output sets the writer progress lines are printed to
func Output(w io.Writer) Option {
	return func(s *Splitter) {
		if w != nil {
			s.out = w
		}
	}
}

// Logger sets a logger on the splitter
func Logger(l *zap.Logger) Option {
	return func(s *Splitter) {
		if l != nil {
			s.l = l
		}
	}
}
