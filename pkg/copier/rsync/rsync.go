// Copyright © 2018 One Concern

// Package rsync implements copier.TreeCopier with the rsync utility.
//
// Trees are copied with "rsync --archive --stats <src>/ <dst>/". rsync must be
// available on the PATH, or configured with the Binary option.
package rsync

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/oneconcern/splitsip/pkg/copier"
	"github.com/oneconcern/splitsip/pkg/copier/status"
	"go.uber.org/zap"
)

const defaultBinary = "rsync"

var (
	_ copier.TreeCopier = &Copier{}

	// rsync 3.x prints "regular files", older versions do not
	filesRe   = regexp.MustCompile(`(?m)^Number of (?:regular )?files transferred: ([\d,.]+)`)
	bytesRe   = regexp.MustCompile(`(?m)^Total transferred file size: ([\d,.]+) bytes`)
	totalRe   = regexp.MustCompile(`(?m)^Number of files: ([\d,.]+)(?: \(reg: ([\d,.]+))?`)
	digitsSep = strings.NewReplacer(",", "", ".", "")
)

// Option for the rsync copier
type Option func(*Copier)

// Binary sets the path to the rsync executable
func Binary(path string) Option {
	return func(c *Copier) {
		if path != "" {
			c.binary = path
		}
	}
}

// Checksum makes rsync compare file checksums instead of size and modification time
func Checksum(enabled bool) Option {
	return func(c *Copier) {
		c.checksum = enabled
	}
}

// Logger sets a logger on the copier
func Logger(l *zap.Logger) Option {
	return func(c *Copier) {
		if l != nil {
			c.l = l
		}
	}
}

// Copier runs rsync to copy trees on the local file system
type Copier struct {
	binary   string
	checksum bool
	l        *zap.Logger
}

// New rsync tree copier
func New(opts ...Option) *Copier {
	c := &Copier{
		binary: defaultBinary,
		l:      zap.NewNop(),
	}
	for _, apply := range opts {
		apply(c)
	}
	return c
}

func (c *Copier) String() string {
	return "rsync@" + c.binary
}

// Available checks that the rsync executable can be found
func (c *Copier) Available() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return status.ErrCopyTool.Wrap(err)
	}
	return nil
}

func (c *Copier) args(src, dst string) []string {
	args := []string{"--archive", "--stats"}
	if c.checksum {
		args = append(args, "--checksum")
	}
	// trailing separators: copy the content of src, not src itself
	return append(args, withTrailingSep(src), withTrailingSep(dst))
}

// CopyTree copies the content of src into dst
func (c *Copier) CopyTree(ctx context.Context, src, dst string) (copier.Stats, error) {
	fi, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return copier.Stats{}, status.ErrSourceMissing.Wrap(err)
		}
		return copier.Stats{}, status.ErrCopy.Wrap(err)
	}
	if !fi.IsDir() {
		return copier.Stats{}, status.ErrNotDirectory.Wrap(fmt.Errorf("%q", src))
	}

	args := c.args(src, dst)
	c.l.Debug("running rsync", zap.String("binary", c.binary), zap.Strings("args", args))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err = cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return copier.Stats{}, ctx.Err()
		}
		return copier.Stats{}, status.ErrCopyTool.Wrap(
			fmt.Errorf("%s %s: %w: %s", c.binary, strings.Join(args, " "), err, strings.TrimSpace(stderr.String())),
		)
	}

	return parseStats(stdout.String()), nil
}

// parseStats reads the summary printed by "rsync --stats".
// Missing figures are left to zero.
func parseStats(out string) copier.Stats {
	var stats copier.Stats
	if m := filesRe.FindStringSubmatch(out); m != nil {
		stats.Files = int(parseNumber(m[1]))
	}
	if m := bytesRe.FindStringSubmatch(out); m != nil {
		stats.Bytes = parseNumber(m[1])
	}
	if m := totalRe.FindStringSubmatch(out); m != nil && m[2] != "" {
		if regular := int(parseNumber(m[2])); regular > stats.Files {
			stats.Skipped = regular - stats.Files
		}
	}
	return stats
}

func parseNumber(s string) int64 {
	n, err := strconv.ParseInt(digitsSep.Replace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func withTrailingSep(dir string) string {
	dir = filepath.Clean(dir)
	if strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + string(filepath.Separator)
}
