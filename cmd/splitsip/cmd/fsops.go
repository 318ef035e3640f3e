// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

func sanitizePath(path string) (string, error) {
	return filepath.Abs(filepath.Clean(path))
}

// requireDirectory checks that path is an accessible directory
func requireDirectory(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("couldn't stat %q: %w", path, err)
	}
	if !fileInfo.IsDir() {
		return fmt.Errorf("%q is not a directory", path)
	}
	return nil
}
