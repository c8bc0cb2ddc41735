package utils

import (
	"path/filepath"
	"strings"
)

// OutputPath swaps the extension of inPath for ext, or appends ext when
// inPath has none.
func OutputPath(inPath, ext string) string {
	cur := filepath.Ext(inPath)
	if cur == "" {
		return inPath + ext
	}
	return strings.TrimSuffix(inPath, cur) + ext
}

// DefaultOutputPath is the absolute path next to inPath carrying ext instead
// of the source extension.
func DefaultOutputPath(inPath, ext string) (string, error) {
	fullPath, err := filepath.Abs(inPath)
	if err != nil {
		return "", err
	}
	return OutputPath(fullPath, ext), nil
}
