// Copyright © 2018 One Concern

package metadata

import (
	"fmt"
	"unicode/utf8"

	"github.com/oneconcern/splitsip/pkg/metadata/status"
)

// DefaultDelimiter is used when none is specified
const DefaultDelimiter = ','

// ParseDelimiter converts a user-supplied delimiter to a rune.
//
// The delimiter must be exactly one character. The escape sequence `\t` is
// understood as a tab.
func ParseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, status.ErrInvalidDelimiter.Wrap(fmt.Errorf("%q must be a single character", s))
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !validDelimiter(r) {
		return 0, status.ErrInvalidDelimiter.Wrap(fmt.Errorf("%q cannot be used as a delimiter", s))
	}
	return r, nil
}

// same rules as encoding/csv
func validDelimiter(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}
