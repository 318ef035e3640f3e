// Copyright © 2018 One Concern

package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/oneconcern/splitsip/pkg/metadata/status"
	"github.com/spf13/afero"
)

// Index maps object paths to their metadata row.
//
// An Index is built once by Load and is never mutated afterwards.
type Index struct {
	headers []string
	rows    map[string][]string
}

// Load reads a delimited metadata file and indexes its rows on their first column.
//
// Rows are not validated: a row with an unexpected number of columns is kept
// as is. When two rows share the same key, the last one wins.
func Load(fs afero.Fs, csvPath string, delimiter rune) (*Index, error) {
	if !validDelimiter(delimiter) {
		return nil, status.ErrInvalidDelimiter.Wrap(fmt.Errorf("%q", delimiter))
	}
	f, err := fs.Open(csvPath)
	if err != nil {
		return nil, status.ErrRead.Wrap(err)
	}
	defer func() { _ = f.Close() }()

	idx, err := Read(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", csvPath, err)
	}
	return idx, nil
}

// Read builds an Index from a CSV stream
func Read(r io.Reader, delimiter rune) (*Index, error) {
	rdr := csv.NewReader(r)
	rdr.Comma = delimiter
	rdr.FieldsPerRecord = -1
	rdr.LazyQuotes = true

	idx := &Index{rows: make(map[string][]string)}
	for i := 0; ; i++ {
		row, err := rdr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, status.ErrRead.Wrap(err)
		}
		if i == 0 {
			idx.headers = row
			continue
		}
		idx.rows[row[0]] = row
	}
	if idx.headers == nil {
		return nil, status.ErrNoHeader
	}
	return idx, nil
}

// Headers of the metadata file
func (x *Index) Headers() []string {
	return clone(x.headers)
}

// Len yields the number of indexed rows
func (x *Index) Len() int {
	return len(x.rows)
}

// Lookup returns the headers and the row indexed for the object path.
//
// When no row is indexed for this path, it returns status.ErrNotFound.
func (x *Index) Lookup(objectPath string) ([]string, []string, error) {
	row, ok := x.rows[objectPath]
	if !ok {
		return nil, nil, status.ErrNotFound.Wrap(fmt.Errorf("key %q", objectPath))
	}
	return clone(x.headers), clone(row), nil
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
