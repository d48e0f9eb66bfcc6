package pkg

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// CanonicalPath returns the absolute, symlink-resolved form of path. Trailing components which don't exist
// yet (like a fresh build directory) are appended unresolved to their closest existing parent.
func CanonicalPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to make %s absolute", path)
	}

	missing := []string{}
	current := absPath
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{resolved}, missing...)...), nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrapf(err, "Error ocurred while resolving %s", absPath)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return absPath, nil
		}

		missing = append([]string{filepath.Base(current)}, missing...)
		current = parent
	}
}

// RemoveTree deletes path and everything below it. A missing path is not an error.
func RemoveTree(path string) error {
	err := os.RemoveAll(path)
	if err != nil && !eris.Is(err, os.ErrNotExist) {
		return eris.Wrapf(err, "Could not delete %s", path)
	}

	return nil
}

func PrintTask(msg string) {
	colorstring.Printf("[blue][bold]==>[default] %s\n", msg)
}

func PrintSubtask(msg string) {
	colorstring.Printf("[green][bold]  ->[reset] %s\n", msg)
}
