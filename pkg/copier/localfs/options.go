// Copyright © 2018 One Concern

package localfs

import "go.uber.org/zap"

// Option for the local copier
type Option func(*Copier)

// Checksum compares the content of files rather than their size and modification time
// to decide whether a file is up to date at the destination.
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
