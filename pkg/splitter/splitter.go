// Copyright © 2018 One Concern

package splitter

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/oneconcern/splitsip/pkg/copier"
	"github.com/oneconcern/splitsip/pkg/copier/localfs"
	"github.com/oneconcern/splitsip/pkg/errors"
	"github.com/oneconcern/splitsip/pkg/metadata"
	mstatus "github.com/oneconcern/splitsip/pkg/metadata/status"
	"github.com/oneconcern/splitsip/pkg/sip"
	"github.com/oneconcern/splitsip/pkg/splitter/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Splitter partitions a source package into target packages
type Splitter struct {
	source          *sip.Source
	targetDir       string
	index           *metadata.Index
	maxObjects      int
	prefix          string
	outputDelimiter rune

	fs       afero.Fs
	copier   copier.TreeCopier
	appender *metadata.Appender
	out      io.Writer
	l        *zap.Logger
	success  *color.Color
}

// PackageResult describes a target package produced by a split
type PackageResult struct {
	Name         string
	Path         string
	Objects      []string
	MetadataRows int
	Missing      []string // objects without metadata
}

// Result of a split
type Result struct {
	Outcome  Outcome
	Objects  int
	Packages []PackageResult
	Stats    copier.Stats
}

// New builds a splitter of the source package into targetDir.
//
// The metadata index is built by the caller, usually with metadata.Load on
// the metadata.csv of the source package.
func New(source *sip.Source, targetDir string, index *metadata.Index, opts ...Option) (*Splitter, error) {
	s := &Splitter{
		source:          source,
		targetDir:       targetDir,
		index:           index,
		maxObjects:      DefaultMaxObjects,
		outputDelimiter: metadata.DefaultDelimiter,
		fs:              afero.NewOsFs(),
		out:             io.Discard,
		l:               zap.NewNop(),
		success:         color.New(color.FgHiGreen),
	}
	for _, apply := range opts {
		apply(s)
	}

	if s.maxObjects < 1 {
		return nil, status.ErrInvalidMaxObjects.Wrap(fmt.Errorf("got %d", s.maxObjects))
	}
	if s.targetDir == "" {
		return nil, status.ErrInvalidTarget
	}
	if s.index == nil {
		return nil, status.ErrMissingIndex
	}
	if s.copier == nil {
		s.copier = localfs.New(s.fs, localfs.Logger(s.l))
	}
	s.appender = metadata.NewAppender(s.fs, s.outputDelimiter)
	return s, nil
}

func (s *Splitter) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}

// Plan lists the objects of the source package and assigns them to target packages
func (s *Splitter) Plan() (Plan, error) {
	edited, err := s.source.EditedObjects()
	if err != nil {
		return Plan{}, err
	}
	// the unedited tree is expected to mirror the edited one
	unedited, err := s.source.UneditedObjects()
	if err != nil {
		return Plan{}, err
	}
	s.l.Debug("listed objects",
		zap.String("source", s.source.Root),
		zap.Int("edited", len(edited)),
		zap.Int("unedited", len(unedited)),
	)
	return MakePlan(edited, s.maxObjects, s.prefix)
}

// Run the split
func (s *Splitter) Run(ctx context.Context) (*Result, error) {
	plan, err := s.Plan()
	if err != nil {
		return nil, err
	}
	result := &Result{Outcome: plan.Outcome, Objects: plan.Objects}

	switch plan.Outcome {
	case OutcomeEmpty:
		s.printf("Edited object directory is empty: %s", sip.GetPathToEditedObjects(s.source.Root))
		return result, nil
	case OutcomeNoSplit:
		s.printf("Not over max object limit. No need to split!")
		return result, nil
	}

	s.printf("Transfer will be split into %d packages:", len(plan.Packages))
	if plan.Collisions() {
		s.l.Warn("target packages share the same folder name: set a prefix to get one folder per package",
			zap.String("name", plan.Packages[0].Name),
			zap.Int("packages", len(plan.Packages)),
		)
	}

	targets := make([]*sip.Target, len(plan.Packages))
	for i, pkg := range plan.Packages {
		if err = ctx.Err(); err != nil {
			return result, err
		}
		target := sip.NewTarget(s.targetDir, pkg.Name)
		if err = s.provision(ctx, target, result); err != nil {
			return result, err
		}
		targets[i] = target
	}

	for i, pkg := range plan.Packages {
		target := targets[i]
		pr := PackageResult{
			Name:    target.Name,
			Path:    target.Root,
			Objects: make([]string, 0, len(pkg.Objects)),
		}
		for _, object := range pkg.Objects {
			if err = ctx.Err(); err != nil {
				return result, err
			}
			if err = s.packObject(ctx, target, object, &pr, result); err != nil {
				result.Packages = append(result.Packages, pr)
				return result, err
			}
		}
		result.Packages = append(result.Packages, pr)
		s.l.Info("package complete",
			zap.String("package", pr.Name),
			zap.Int("objects", len(pr.Objects)),
			zap.Int("metadata rows", pr.MetadataRows),
		)
	}
	return result, nil
}

// provision creates the folder of a target package and copies the submission documentation into it
func (s *Splitter) provision(ctx context.Context, target *sip.Target, result *Result) error {
	s.printf("make %s", target.Root)

	sdoc := target.SubmissionDocumentation()
	if err := s.ensureDir(sdoc); err != nil {
		return err
	}
	if err := s.copyTree(ctx, s.source.SubmissionDocumentation(), sdoc, result); err != nil {
		return err
	}
	_, _ = s.success.Fprintf(s.out, "%s: %s\n", "submissionDocumentation should be available at", sdoc)
	return nil
}

func (s *Splitter) packObject(ctx context.Context, target *sip.Target, object string, pr *PackageResult, result *Result) error {
	s.printf("- %s", object)

	dstEdited := target.EditedObject(object)
	dstUnedited := target.UneditedObject(object)
	for _, dir := range []string{dstEdited, dstUnedited, target.MetadataDir()} {
		if err := s.ensureDir(dir); err != nil {
			return err
		}
	}

	if err := s.copyTree(ctx, s.source.EditedObject(object), dstEdited, result); err != nil {
		return err
	}
	if err := s.copyTree(ctx, s.source.UneditedObject(object), dstUnedited, result); err != nil {
		return err
	}
	pr.Objects = append(pr.Objects, object)

	headers, row, err := s.index.Lookup(sip.GetMetadataKey(object))
	if err != nil {
		if !errors.Is(err, mstatus.ErrNotFound) {
			return err
		}
		s.printf("No metadata for %s", object)
		s.l.Info("object has no metadata", zap.String("object", object), zap.String("package", target.Name))
		pr.Missing = append(pr.Missing, object)
		return nil
	}

	s.printf("Writing metadata...")
	if _, err = s.appender.Append(target.MetadataCSV(), headers, row); err != nil {
		return fmt.Errorf("writing metadata for %q in %q: %w", object, target.Name, err)
	}
	pr.MetadataRows++
	return nil
}

func (s *Splitter) ensureDir(dir string) error {
	created, err := sip.EnsureDir(s.fs, dir)
	if err != nil {
		return err
	}
	if created {
		s.printf("make %s", dir)
	}
	return nil
}

func (s *Splitter) copyTree(ctx context.Context, src, dst string, result *Result) error {
	s.printf("Copying objects... [src=%s] [dst=%s]", src, dst)
	stats, err := s.copier.CopyTree(ctx, src, dst)
	result.Stats.Add(stats)
	if err != nil {
		return fmt.Errorf("copying with %s: %w", s.copier, err)
	}
	return nil
}
