// Package paths locates the data directories that binaries and tests read
// from when no path is passed explicitly.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// possibleDirs lists where a data directory shipped with this repository may
// live, in order of preference.
func possibleDirs(dirName string) []string {
	return []string{
		dirName,
		filepath.Join("datafiles", dirName),
		filepath.Join(os.Getenv("GOPATH"), "src", "badc0de.net", "pkg", "go-pieces", "datafiles", dirName),
		filepath.Join(os.Getenv("TEST_SRCDIR"), "go_pieces", "datafiles", dirName),
		os.Args[0] + ".runfiles/go_pieces/datafiles/" + dirName,
	}
}

// FindDir locates the passed data directory shortname and returns an
// absolute or relative path to it, or an empty string if it is nowhere to be
// found.
//
// For example, for "precomputed" it may return "datafiles/precomputed".
func FindDir(dirName string) string {
	for _, path := range possibleDirs(dirName) {
		if st, err := os.Stat(path); err == nil && st.IsDir() {
			glog.V(1).Infof("paths.FindDir(%q)=%s", dirName, path)
			return path
		}
	}
	return ""
}
