// discovery.go - Finding the HTML documents to process
package sitegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// DiscoverDocuments walks root and returns the regular files whose path
// relative to root matches pattern. Hidden entries and directories named in
// excludeDirs are skipped without descending. Paths are returned joined with
// root, in lexical order.
func DiscoverDocuments(root, pattern string, excludeDirs []string) ([]string, error) {
	if pattern == "" {
		pattern = "*.html"
	}
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory does not exist: %s", root)
		}
		return nil, fmt.Errorf("error checking directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	excluded := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		excluded[strings.ToLower(strings.Trim(d, `/\`))] = true
	}

	var docs []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if isHiddenFile(relPath) || (info.IsDir() && excluded[strings.ToLower(info.Name())]) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		ok, err := doublestar.PathMatch(pattern, relPath)
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			docs = append(docs, filepath.Join(root, relPath))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}
	return docs, nil
}

// isHiddenFile checks if any segment of relPath starts with a dot.
func isHiddenFile(relPath string) bool {
	if relPath == "." {
		return false
	}
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for _, part := range parts {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
