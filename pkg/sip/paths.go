// Copyright © 2018 One Concern

package sip

import (
	"fmt"
	"path"
	"path/filepath"
)

const (
	metadataDir              = "metadata"
	metadataFile             = "metadata.csv"
	submissionDocumentation  = "submissionDocumentation"
	objectsDir               = "objects"
	editedDir                = "edited"
	uneditedDir              = "unedited"
	defaultPackageFolderName = "package"
)

// GetPathToMetadataDir yields the metadata directory of a package rooted at root
func GetPathToMetadataDir(root string) string {
	return filepath.Join(root, metadataDir)
}

// GetPathToMetadataCSV yields the metadata index of a package rooted at root
func GetPathToMetadataCSV(root string) string {
	return filepath.Join(root, metadataDir, metadataFile)
}

// GetPathToSubmissionDocumentation yields the submission documentation folder of a package
func GetPathToSubmissionDocumentation(root string) string {
	return filepath.Join(root, metadataDir, submissionDocumentation)
}

// GetPathToEditedObjects yields the folder holding edited objects
func GetPathToEditedObjects(root string) string {
	return filepath.Join(root, objectsDir, editedDir)
}

// GetPathToUneditedObjects yields the folder holding unedited objects
func GetPathToUneditedObjects(root string) string {
	return filepath.Join(root, objectsDir, uneditedDir)
}

// GetPathToEditedObject yields the folder of a single edited object
func GetPathToEditedObject(root, name string) string {
	return filepath.Join(GetPathToEditedObjects(root), name)
}

// GetPathToUneditedObject yields the folder of a single unedited object
func GetPathToUneditedObject(root, name string) string {
	return filepath.Join(GetPathToUneditedObjects(root), name)
}

// GetMetadataKey yields the key under which an edited object is indexed in metadata.csv.
//
// Keys always use forward slashes, regardless of the platform.
func GetMetadataKey(name string) string {
	return path.Join(objectsDir, editedDir, name)
}

// PackageName yields the folder name of the num-th (1-based) target package.
//
// With an empty prefix, every package is named "package".
func PackageName(prefix string, num int) string {
	if prefix == "" {
		return defaultPackageFolderName
	}
	return fmt.Sprintf("%s%02d", prefix, num)
}
