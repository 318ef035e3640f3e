// Copyright © 2018 One Concern

// Package status declares error constants returned by
// implementations of the TreeCopier interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/copier and one
// of its implementations.
package status

import "github.com/oneconcern/splitsip/pkg/errors"

var (
	// ErrSourceMissing indicates that the tree to copy does not exist
	ErrSourceMissing = errors.New("source tree does not exist")

	// ErrNotDirectory indicates that a tree root is not a directory
	ErrNotDirectory = errors.New("not a directory")

	// ErrCopy indicates a failure while copying an entry of the tree
	ErrCopy = errors.New("copy failed")

	// ErrCopyTool indicates that an external copy tool exited with an error
	ErrCopyTool = errors.New("copy tool failed")

	// ErrNotSupported indicates that the file system does not support some operation
	ErrNotSupported = errors.New("not supported")
)
