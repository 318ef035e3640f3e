// Copyright © 2018 One Concern

// Package metadata indexes the metadata.csv file of a source package and
// appends per-object rows to the metadata.csv files of target packages.
//
// The first column of every row is the path of the object relative to the
// package root (e.g. "objects/edited/box-001"). The first row holds the headers.
package metadata
