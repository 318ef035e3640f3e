// Copyright © 2018 One Concern

package sip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Source is a read-only source package
type Source struct {
	fs   afero.Fs
	Root string
}

// NewSource builds a source package rooted at root.
// When fs is nil, the OS file system is used.
func NewSource(fs afero.Fs, root string) *Source {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Source{fs: fs, Root: filepath.Clean(root)}
}

// MetadataCSV path
func (s *Source) MetadataCSV() string { return GetPathToMetadataCSV(s.Root) }

// SubmissionDocumentation path
func (s *Source) SubmissionDocumentation() string { return GetPathToSubmissionDocumentation(s.Root) }

// EditedObject path
func (s *Source) EditedObject(name string) string { return GetPathToEditedObject(s.Root, name) }

// UneditedObject path
func (s *Source) UneditedObject(name string) string { return GetPathToUneditedObject(s.Root, name) }

// EditedObjects lists the object names under objects/edited.
//
// This listing is authoritative for the set of objects. Names are sorted,
// since afero.ReadDir sorts its result by file name. Plain files are ignored,
// symbolic links to directories are listed.
func (s *Source) EditedObjects() ([]string, error) {
	return listDirs(s.fs, GetPathToEditedObjects(s.Root))
}

// UneditedObjects lists the object names under objects/unedited
func (s *Source) UneditedObjects() ([]string, error) {
	return listDirs(s.fs, GetPathToUneditedObjects(s.Root))
}

func listDirs(fs afero.Fs, dir string) ([]string, error) {
	infos, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", dir, err)
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		if !fi.IsDir() && !linksToDir(fs, filepath.Join(dir, fi.Name()), fi) {
			continue
		}
		names = append(names, fi.Name())
	}
	return names, nil
}

// linksToDir tells whether a directory entry is a symbolic link resolving to a directory
func linksToDir(fs afero.Fs, path string, fi os.FileInfo) bool {
	if fi.Mode()&os.ModeSymlink == 0 {
		return false
	}
	resolved, err := fs.Stat(path)
	return err == nil && resolved.IsDir()
}

// Target is one of the packages produced by a split
type Target struct {
	Name string
	Root string
}

// NewTarget builds a target package, as folder name in parent dir
func NewTarget(dir, name string) *Target {
	return &Target{Name: name, Root: filepath.Join(dir, name)}
}

// MetadataDir path
func (t *Target) MetadataDir() string { return GetPathToMetadataDir(t.Root) }

// MetadataCSV path
func (t *Target) MetadataCSV() string { return GetPathToMetadataCSV(t.Root) }

// SubmissionDocumentation path
func (t *Target) SubmissionDocumentation() string { return GetPathToSubmissionDocumentation(t.Root) }

// EditedObject path
func (t *Target) EditedObject(name string) string { return GetPathToEditedObject(t.Root, name) }

// UneditedObject path
func (t *Target) UneditedObject(name string) string { return GetPathToUneditedObject(t.Root, name) }

// EnsureDir creates dir (and parents) unless it exists already.
//
// It returns true when the directory has been created by this call.
func EnsureDir(fs afero.Fs, dir string) (bool, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return false, fmt.Errorf("checking %q: %w", dir, err)
	}
	if exists {
		return false, nil
	}
	if err := fs.MkdirAll(dir, os.ModePerm); err != nil {
		return false, fmt.Errorf("creating %q: %w", dir, err)
	}
	return true, nil
}
