// Package source reads workspace files line by line for symbol scanning.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of files kept when no size is configured.
const DefaultCacheSize = 128

type entry struct {
	modTime time.Time
	size    int64
	lines   []string
}

// Reader resolves tag file paths against a workspace root and caches split file
// contents. A cached entry is reused only while the file's size and
// modification time are unchanged.
type Reader struct {
	root  string
	cache *lru.Cache[string, entry]
}

// NewReader creates a reader rooted at root.
func NewReader(root string, cacheSize int) (*Reader, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, entry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create line cache: %w", err)
	}
	return &Reader{root: root, cache: cache}, nil
}

// Root returns the workspace root.
func (r *Reader) Root() string {
	return r.root
}

// Resolve maps a path recorded in the tag table to a filesystem path.
// Absolute paths are used verbatim.
func (r *Reader) Resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(r.root, file)
}

// Exists reports whether the tag file path refers to a regular file.
func (r *Reader) Exists(file string) bool {
	info, err := os.Stat(r.Resolve(file))
	return err == nil && !info.IsDir()
}

// Lines returns the content of file split on "\n".
func (r *Reader) Lines(file string) ([]string, error) {
	path := r.Resolve(file)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if e, ok := r.cache.Get(path); ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		return e.lines, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := SplitLines(string(data))
	r.cache.Add(path, entry{modTime: info.ModTime(), size: info.Size(), lines: lines})
	return lines, nil
}

// ReadFresh reads file bypassing the cache.
func (r *Reader) ReadFresh(file string) (string, os.FileMode, error) {
	path := r.Resolve(file)
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	return string(data), info.Mode().Perm(), nil
}

// Write overwrites file and drops its cached lines.
func (r *Reader) Write(file, content string, perm os.FileMode) error {
	path := r.Resolve(file)
	r.cache.Remove(path)
	return os.WriteFile(path, []byte(content), perm)
}

// SplitLines splits content on "\n". A trailing newline yields a final empty
// element so that joining with "\n" restores the original content.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
