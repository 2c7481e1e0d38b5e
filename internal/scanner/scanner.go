package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codequery/pkg/types"
)

// denyDirs is the fixed set of directory names pruned during traversal.
// These hold dependencies, build products, or caches, never project source.
var denyDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".idea":        true,
	".vscode":      true,
	".cache":       true,
	"tmp":          true,
}

// sourceExtensions lists file extensions considered project source
var sourceExtensions = map[string]bool{
	".go":   true,
	".py":   true,
	".rb":   true,
	".js":   true,
	".ts":   true,
	".java": true,
	".rs":   true,
	".c":    true,
	".h":    true,
	".cpp":  true,
}

// docExtensions lists documentation extensions worth indexing alongside source
var docExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".rst":      true,
}

// Scanner walks a source tree and collects files eligible for segmentation
type Scanner struct{}

// New creates a new Scanner
func New() *Scanner {
	return &Scanner{}
}

// Discover enumerates eligible files under root in walk order. Traversal is
// pruned at denied and hidden directories. A missing or unreadable root is a
// fatal error for the call.
func (s *Scanner) Discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", types.ErrMissingRoot, root)
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if path != root && (denyDirs[name] || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}

		if Eligible(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}

// Eligible reports whether a file path has a source or documentation extension
func Eligible(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return sourceExtensions[ext] || docExtensions[ext]
}

// IsGoSource reports whether the path is a Go file the segmenter can parse
func IsGoSource(path string) bool {
	return strings.HasSuffix(path, ".go")
}
