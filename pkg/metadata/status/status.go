// Copyright © 2018 One Concern

// Package status declares error constants returned by the metadata package.
package status

import "github.com/oneconcern/splitsip/pkg/errors"

var (
	// ErrNotFound indicates that no metadata row is indexed for an object
	ErrNotFound = errors.New("no metadata for object")

	// ErrNoHeader indicates that the metadata CSV does not even hold a header row
	ErrNoHeader = errors.New("metadata csv has no header row")

	// ErrInvalidDelimiter indicates that a CSV delimiter is not a single valid character
	ErrInvalidDelimiter = errors.New("invalid csv delimiter")

	// ErrRead indicates that the metadata CSV could not be read or parsed
	ErrRead = errors.New("cannot read metadata csv")

	// ErrWrite indicates that a metadata row could not be appended to a target package
	ErrWrite = errors.New("cannot write metadata csv")
)
