// Copyright © 2018 One Concern

// Package splitter partitions a submission information package into several
// smaller packages, each holding at most a fixed number of objects.
//
// Objects are the folders found under objects/edited in the source package.
// They are assigned to target packages in listing order, filling each package
// before moving to the next one. Every target package receives a copy of the
// submission documentation, the edited and unedited folders of its objects,
// and the metadata rows of its objects.
//
// Copies are idempotent, but metadata rows are appended without checking for
// duplicates: running a split twice on the same target duplicates rows in the
// metadata.csv of target packages.
package splitter
