package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidatePath resolves a relative path against a base directory and
// ensures the result does not escape it.
func ValidatePath(path string, baseDir string) (string, error) {
	filePath := filepath.Clean(filepath.Join(baseDir, path))

	if !strings.HasPrefix(filePath, filepath.Clean(baseDir)+string(filepath.Separator)) {
		return "", fmt.Errorf("file path escapes base directory: %s", filePath)
	}
	return filePath, nil
}
