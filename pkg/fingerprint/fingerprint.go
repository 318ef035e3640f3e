// Package fingerprint computes blake2b tree digests of files.
//
// Files are cut into leaves of a fixed size. Each leaf is hashed as a node of
// depth 0, then the concatenated leaf digests are hashed as the root node.
package fingerprint

import (
	"bytes"
	"fmt"
	"io"

	units "github.com/docker/go-units"
	blake2b "github.com/minio/blake2b-simd"
	"github.com/spf13/afero"
)

// DefaultLeafSize is the size of a leaf when not specified
const DefaultLeafSize = 5 * units.MiB

// Option for a Maker
type Option func(*Maker)

// LeafSize sets the size of the leaves
func LeafSize(sz int64) Option {
	return func(m *Maker) {
		if sz > 0 {
			m.leafSize = uint32(sz)
		}
	}
}

// Size sets the size in bytes of the inner digests
func Size(sz uint8) Option {
	return func(m *Maker) {
		if sz > 0 && sz <= blake2b.Size {
			m.size = sz
		}
	}
}

// FS sets the file system files are read from
func FS(fs afero.Fs) Option {
	return func(m *Maker) {
		if fs != nil {
			m.fs = fs
		}
	}
}

// New fingerprint Maker
func New(opts ...Option) *Maker {
	m := &Maker{
		leafSize: uint32(DefaultLeafSize),
		size:     blake2b.Size,
		fs:       afero.NewOsFs(),
	}

	for _, apply := range opts {
		apply(m)
	}
	return m
}

// Maker computes digests
type Maker struct {
	size     uint8
	leafSize uint32
	fs       afero.Fs
}

// Process yields the digest of the file at path
func (m *Maker) Process(path string) ([]byte, error) {
	f, err := m.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return m.Digest(f, fi.Size())
}

// Digest yields the digest of size bytes read from r
func (m *Maker) Digest(r io.Reader, size int64) ([]byte, error) {
	var (
		leaves     bytes.Buffer
		totalSize  int64
		partBuffer = make([]byte, m.leafSize)
	)

	for part := 0; ; part++ {
		n, err := io.ReadFull(r, partBuffer)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, fmt.Errorf("reading leaf %d: %w", part, err)
		}
		totalSize += int64(n)
		lastChunk := uint32(n) < m.leafSize || totalSize >= size

		digest, err := m.leaf(part, partBuffer[:n], lastChunk)
		if err != nil {
			return nil, err
		}
		leaves.Write(digest)

		if lastChunk {
			break
		}
	}

	root, err := blake2b.New(&blake2b.Config{
		Size: blake2b.Size,
		Tree: &blake2b.Tree{
			MaxDepth:      2,
			LeafSize:      m.leafSize,
			NodeDepth:     1,
			InnerHashSize: m.size,
			IsLastNode:    true,
		},
	})
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(root, &leaves); err != nil {
		return nil, err
	}
	return root.Sum(nil), nil
}

func (m *Maker) leaf(part int, data []byte, last bool) ([]byte, error) {
	h, err := blake2b.New(&blake2b.Config{
		Size: m.size,
		Tree: &blake2b.Tree{
			MaxDepth:      2,
			LeafSize:      m.leafSize,
			NodeOffset:    uint64(part),
			InnerHashSize: m.size,
			IsLastNode:    last,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("leaf hasher: %w", err)
	}
	_, _ = h.Write(data)
	return h.Sum(nil), nil
}
