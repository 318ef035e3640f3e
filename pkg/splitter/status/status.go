// Copyright © 2018 One Concern

// Package status exports errors produced by the splitter package.
package status

import "github.com/oneconcern/splitsip/pkg/errors"

var (
	// ErrInvalidMaxObjects indicates that the maximum number of objects per package is not positive
	ErrInvalidMaxObjects = errors.New("max objects per package must be at least 1")

	// ErrInvalidTarget indicates that no target directory was given
	ErrInvalidTarget = errors.New("invalid target directory")

	// ErrMissingIndex indicates that the splitter was built without a metadata index
	ErrMissingIndex = errors.New("metadata index is required")
)
