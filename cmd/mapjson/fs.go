package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// InputFileNotFoundError denotes a missing input file.
type InputFileNotFoundError struct {
	path string
}

// Error returns the formatted error.
func (e InputFileNotFoundError) Error() string {
	return fmt.Sprintf("input file %q not found", e.path)
}

// exists reports whether path names a regular file.
func exists(fs afero.Fs, path string) (bool, error) {
	stat, err := fs.Stat(path)
	if err == nil {
		return !stat.IsDir(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
