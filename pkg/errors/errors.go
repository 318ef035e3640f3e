// Copyright © 2018 One Concern

// Package errors provides sentinel errors which may carry a nested cause.
//
// Sentinels are declared by the status subpackages of splitsip. A sentinel
// is returned wrapped around the error that triggered it, so callers may
// test with Is() against the sentinel and still report the root cause.
package errors

import (
	stderr "errors"
)

var _ error = New("")

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error is a sentinel error, optionally wrapping a cause.
type Error struct {
	msg  string
	err  error
	root *Error
}

// Error message, followed by the message of the wrapped cause if any
func (e *Error) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error.
//
// Wrap returns a copy: the sentinel itself is never mutated, so that
// package-level sentinels remain safe to compare against.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, root: e.rootOf()}
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e == t || e.rootOf() == t
}

func (e *Error) rootOf() *Error {
	if e.root != nil {
		return e.root
	}
	return e
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
