package files

import (
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// Find expands each glob pattern (supporting **) and returns the regular
// files matched, in pattern order. Directories and special files are skipped.
func Find(patterns ...string) ([]string, error) {
	var found []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, err
		}
		for _, name := range matches {
			info, err := os.Lstat(name)
			if err != nil {
				continue
			}
			if info.Mode().IsRegular() {
				found = append(found, name)
			}
		}
	}
	return found, nil
}
