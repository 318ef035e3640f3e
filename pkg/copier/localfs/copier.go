// Copyright © 2018 One Concern

// Package localfs implements copier.TreeCopier over an afero.Fs.
package localfs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oneconcern/splitsip/pkg/copier"
	"github.com/oneconcern/splitsip/pkg/copier/status"
	"github.com/oneconcern/splitsip/pkg/fingerprint"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var _ copier.TreeCopier = &Copier{}

// Copier mirrors directory trees within a single file system
type Copier struct {
	fs       afero.Fs
	checksum bool
	digester *fingerprint.Maker
	l        *zap.Logger
}

// New creates a tree copier working on fs.
// When fs is nil, the OS file system is used.
func New(fs afero.Fs, opts ...Option) *Copier {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	c := &Copier{
		fs:       fs,
		digester: fingerprint.New(fingerprint.FS(fs)),
		l:        zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

func (c *Copier) String() string {
	const localfs = "localfs"
	if c.checksum {
		return localfs + "+checksum"
	}
	return localfs
}

type dirAttrs struct {
	path    string
	perm    os.FileMode
	modTime time.Time
}

// CopyTree copies the content of src into dst
func (c *Copier) CopyTree(ctx context.Context, src, dst string) (copier.Stats, error) {
	var (
		stats copier.Stats
		dirs  []dirAttrs
	)
	src, dst = filepath.Clean(src), filepath.Clean(dst)

	// the content of a symlinked source directory is copied, like "rsync --archive src/ dst/"
	src, root, err := c.resolveRoot(src)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, status.ErrSourceMissing.Wrap(err)
		}
		return stats, status.ErrCopy.Wrap(err)
	}
	if !root.IsDir() {
		return stats, status.ErrNotDirectory.Wrap(fmt.Errorf("%q", src))
	}

	err = afero.Walk(c.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch mode := info.Mode(); {
		case mode.IsDir():
			if err = c.copyDir(target, info); err != nil {
				return err
			}
			dirs = append(dirs, dirAttrs{path: target, perm: info.Mode().Perm(), modTime: info.ModTime()})

		case mode&os.ModeSymlink != 0:
			copied, err := c.copySymlink(path, target)
			if err != nil {
				return err
			}
			if copied {
				stats.Files++
			} else {
				stats.Skipped++
			}

		case mode.IsRegular():
			upToDate, err := c.isUpToDate(path, target, info)
			if err != nil {
				return err
			}
			if upToDate {
				stats.Skipped++
				return c.fixAttrs(target, info)
			}
			if err = c.copyFile(path, target, info); err != nil {
				return err
			}
			stats.Files++
			stats.Bytes += info.Size()

		default:
			c.l.Warn("skipping non-regular file", zap.String("path", path), zap.Stringer("mode", mode))
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return stats, err
		}
		return stats, status.ErrCopy.Wrap(fmt.Errorf("copying %q to %q: %w", src, dst, err))
	}

	// directory attributes are set last, deepest first: populating a directory
	// updates its mtime and may require more permissive bits
	for i := len(dirs) - 1; i >= 0; i-- {
		d := dirs[i]
		if err = c.fs.Chmod(d.path, d.perm); err != nil {
			return stats, status.ErrCopy.Wrap(err)
		}
		if err = c.fs.Chtimes(d.path, d.modTime, d.modTime); err != nil {
			return stats, status.ErrCopy.Wrap(err)
		}
	}

	c.l.Debug("copied tree",
		zap.String("src", src),
		zap.String("dst", dst),
		zap.Int("files", stats.Files),
		zap.Int("skipped", stats.Skipped),
		zap.Int64("bytes", stats.Bytes),
	)
	return stats, nil
}

func (c *Copier) lstat(path string) (os.FileInfo, error) {
	if lst, ok := c.fs.(afero.Lstater); ok {
		fi, _, err := lst.LstatIfPossible(path)
		return fi, err
	}
	return c.fs.Stat(path)
}

const maxLinks = 40

func (c *Copier) resolveRoot(src string) (string, os.FileInfo, error) {
	for i := 0; i < maxLinks; i++ {
		fi, err := c.lstat(src)
		if err != nil || fi.Mode()&os.ModeSymlink == 0 {
			return src, fi, err
		}
		linker, ok := c.fs.(afero.Symlinker)
		if !ok {
			return src, fi, nil
		}
		link, err := linker.ReadlinkIfPossible(src)
		if err != nil {
			return src, nil, err
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(src), link)
		}
		src = filepath.Clean(link)
	}
	return src, nil, fmt.Errorf("too many levels of symbolic links: %q", src)
}

func (c *Copier) copyDir(target string, info os.FileInfo) error {
	existing, err := c.lstat(target)
	switch {
	case err == nil && !existing.IsDir():
		return status.ErrNotDirectory.Wrap(fmt.Errorf("%q exists at destination", target))
	case err == nil:
	case os.IsNotExist(err):
		if err = c.fs.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
			return err
		}
	default:
		return err
	}
	return c.fs.Chmod(target, info.Mode().Perm()|0o700)
}

// fixAttrs aligns permissions and modification time of a file found up to date
func (c *Copier) fixAttrs(target string, info os.FileInfo) error {
	existing, err := c.lstat(target)
	if err != nil {
		return err
	}
	if existing.Mode().Perm() != info.Mode().Perm() {
		if err = c.fs.Chmod(target, info.Mode().Perm()); err != nil {
			return err
		}
	}
	if !existing.ModTime().Equal(info.ModTime()) {
		return c.fs.Chtimes(target, info.ModTime(), info.ModTime())
	}
	return nil
}

func (c *Copier) isUpToDate(path, target string, info os.FileInfo) (bool, error) {
	existing, err := c.lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !existing.Mode().IsRegular() || existing.Size() != info.Size() {
		return false, nil
	}
	if !c.checksum {
		return existing.ModTime().Equal(info.ModTime()), nil
	}

	want, err := c.digester.Process(path)
	if err != nil {
		return false, err
	}
	got, err := c.digester.Process(target)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

// copyFile writes to a temporary file next to the target, then renames it into place
func (c *Copier) copyFile(path, target string, info os.FileInfo) (err error) {
	source, err := c.fs.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, source.Close())
	}()

	tmp, err := afero.TempFile(c.fs, filepath.Dir(target), "."+filepath.Base(target)+".")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = io.Copy(tmp, source)
	err = multierr.Append(err, tmp.Close())
	if err == nil {
		err = c.fs.Chmod(tmpName, info.Mode().Perm())
	}
	if err == nil {
		err = c.fs.Chtimes(tmpName, info.ModTime(), info.ModTime())
	}
	if err == nil {
		err = c.fs.Rename(tmpName, target)
	}
	if err != nil {
		_ = c.fs.Remove(tmpName)
		return fmt.Errorf("copying %q: %w", path, err)
	}
	return nil
}

func (c *Copier) copySymlink(path, target string) (bool, error) {
	linker, ok := c.fs.(afero.Symlinker)
	if !ok {
		return false, status.ErrNotSupported.Wrap(fmt.Errorf("symbolic link %q", path))
	}
	link, err := linker.ReadlinkIfPossible(path)
	if err != nil {
		return false, err
	}
	existing, err := c.lstat(target)
	switch {
	case err == nil && existing.Mode()&os.ModeSymlink != 0:
		current, err := linker.ReadlinkIfPossible(target)
		if err == nil && current == link {
			return false, nil
		}
		if err = c.fs.Remove(target); err != nil {
			return false, err
		}
	case err == nil:
		if err = c.fs.Remove(target); err != nil {
			return false, err
		}
	case !os.IsNotExist(err):
		return false, err
	}
	return true, linker.SymlinkIfPossible(link, target)
}
