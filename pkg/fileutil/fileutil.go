// Package fileutil provides path validation and filesystem helpers shared by
// the repository cache and source detection.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/githubnext/argolint/pkg/logger"
)

var log = logger.New("fileutil:fileutil")

// ValidateAbsolutePath cleans path and verifies it is absolute.
//
// Example:
//
//	root, err := fileutil.ValidateAbsolutePath(cacheDir)
//	if err != nil {
//		return fmt.Errorf("invalid cache directory: %w", err)
//	}
func ValidateAbsolutePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return "", fmt.Errorf("path must be absolute, got: %s", path)
	}

	return cleanPath, nil
}

// JoinWithin joins rel onto root and returns the cleaned result, or ok=false when
// the result is not root itself or a descendant of it. The check is lexical and
// does not touch the filesystem, so a traversal is rejected whether or not its
// target exists.
func JoinWithin(root, rel string) (joined string, ok bool) {
	root = filepath.Clean(root)
	if filepath.IsAbs(rel) {
		log.Printf("Rejecting absolute relative path: %s", rel)
		return "", false
	}

	joined = filepath.Join(root, rel)
	if !IsWithin(root, joined) {
		log.Printf("Path escapes root: root=%s, rel=%s", root, rel)
		return "", false
	}
	return joined, true
}

// IsWithin reports whether path is root or lies beneath it.
func IsWithin(root, path string) bool {
	relative, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if relative == "." {
		return true
	}
	return relative != ".." && !strings.HasPrefix(relative, ".."+string(filepath.Separator)) && !filepath.IsAbs(relative)
}

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists checks if a directory exists.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListNames returns the names of the entries in dir.
func ListNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	log.Printf("Listed directory: path=%s, entries=%d", dir, len(names))
	return names, nil
}
