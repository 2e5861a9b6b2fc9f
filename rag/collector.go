package rag

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultExtensions is the allow-set of file extensions that get indexed.
var DefaultExtensions = []string{".js", ".ts", ".json", ".md"}

// DefaultExcludeDirs names directories whose contents are never indexed.
var DefaultExcludeDirs = []string{"node_modules", "dist", "build", ".git", "__pycache__", "coverage"}

// Filter decides which files under a root take part in the index.
type Filter struct {
	Extensions  []string
	ExcludeDirs []string
}

// DefaultFilter returns the stock allow-set and exclude-set.
func DefaultFilter() Filter {
	return Filter{
		Extensions:  append([]string(nil), DefaultExtensions...),
		ExcludeDirs: append([]string(nil), DefaultExcludeDirs...),
	}
}

// Match reports whether rel, a slash or OS separated path relative to the
// collection root, passes the filter.
func (f Filter) Match(rel string) bool {
	if !f.allowsExt(filepath.Ext(rel)) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if f.excludes(part) {
			return false
		}
	}
	return true
}

func (f Filter) allowsExt(ext string) bool {
	if ext == "" {
		return false
	}
	for _, e := range f.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (f Filter) excludes(name string) bool {
	for _, d := range f.ExcludeDirs {
		if d == name {
			return true
		}
	}
	return false
}

// Collect walks root and returns the paths of every file that passes f, in
// lexical walk order. Only a failure to read root itself is reported;
// unreadable subtrees are skipped.
func Collect(root string, f Filter) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && f.excludes(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if f.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
