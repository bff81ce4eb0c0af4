package paths

import (
	"flag"
)

// SetupDirFlag creates a new string flag with the passed name defaulting to
// the data directory found by FindDir, or to an empty string.
func SetupDirFlag(dirName, flagName string, flagPtr *string) {
	flag.StringVar(flagPtr, flagName, FindDir(dirName), "Path to the "+dirName+" data directory")
}
