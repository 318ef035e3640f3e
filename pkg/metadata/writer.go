// Copyright © 2018 One Concern

package metadata

import (
	"os"
	"strings"

	"github.com/oneconcern/splitsip/pkg/metadata/status"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Appender appends metadata rows to the metadata.csv of target packages
type Appender struct {
	fs        afero.Fs
	delimiter rune
}

// NewAppender builds an Appender writing fields separated by delimiter.
//
// Lines are terminated with CRLF.
// Fields are quoted only when required, so rows read from the source
// metadata are written back unchanged.
func NewAppender(fs afero.Fs, delimiter rune) *Appender {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if !validDelimiter(delimiter) {
		delimiter = DefaultDelimiter
	}
	return &Appender{fs: fs, delimiter: delimiter}
}

// Append writes row at the end of the CSV file at csvPath.
//
// The headers are written first only when the file does not exist yet.
// Rows are never deduplicated: appending the same row twice writes it twice.
// It returns true when the headers have been written.
func (a *Appender) Append(csvPath string, headers, row []string) (headerWritten bool, err error) {
	exists, err := afero.Exists(a.fs, csvPath)
	if err != nil {
		return false, status.ErrWrite.Wrap(err)
	}

	f, err := a.fs.OpenFile(csvPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, status.ErrWrite.Wrap(err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	var b strings.Builder
	if !exists {
		a.writeRecord(&b, headers)
		headerWritten = true
	}
	a.writeRecord(&b, row)
	if _, err = f.WriteString(b.String()); err != nil {
		return false, status.ErrWrite.Wrap(err)
	}
	return headerWritten, nil
}

// writeRecord formats fields with minimal quoting: a field is quoted only when it holds
// the delimiter, a double quote or a line break. Leading spaces are kept verbatim.
func (a *Appender) writeRecord(b *strings.Builder, fields []string) {
	if len(fields) == 1 && fields[0] == "" {
		// a lone empty field is quoted, or the row would read back as a blank line
		b.WriteString(`""`)
		b.WriteString("\r\n")
		return
	}
	for i, field := range fields {
		if i > 0 {
			b.WriteRune(a.delimiter)
		}
		if !a.needsQuotes(field) {
			b.WriteString(field)
			continue
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
}

func (a *Appender) needsQuotes(field string) bool {
	return strings.ContainsRune(field, a.delimiter) || strings.ContainsAny(field, "\"\r\n")
}
