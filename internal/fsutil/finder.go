// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// FindFiles walks root and returns the files whose extension matches one of
// exts, ignoring case. Hidden directories below root are skipped. Results
// are in lexical walk order.
func FindFiles(root string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		return nil, errors.New("fsutil: no extensions given")
	}
	want := make([]string, len(exts))
	for i, e := range exts {
		want[i] = strings.ToLower(e)
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(want, strings.ToLower(filepath.Ext(d.Name()))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
