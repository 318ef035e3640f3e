// Copyright © 2018 One Concern

// Package sip describes the on-disk layout of a submission information package (SIP).
//
// A SIP is a directory with the following structure:
//
//	metadata/metadata.csv
//	metadata/submissionDocumentation/...
//	objects/edited/<object>/...
//	objects/unedited/<object>/...
//
// Source packages are only read. Target packages are produced by the splitter
// and share the same layout.
package sip
