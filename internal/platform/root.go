package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/scribe/pkg/adapters/propfile"
)

// FindRoot looks upwards from startDir for a workspace, i.e. a directory
// holding the settings file. It returns the absolute path of that directory.
func FindRoot(startDir string) (string, error) {
	return findRoot(startDir, propfile.DefaultFileName)
}

func findRoot(startDir, marker string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, marker) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}
