// Package store archives extracted records as YAML files laid out as
// <dir>/<source>/<slug>.yaml.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"bookmeta/src/internal/record"
)

// DefaultDir is the archive root used when none is given.
const DefaultDir = "data/records"

// segment maps a record source to its subdirectory. Records without a known
// source land in "other".
func segment(s record.Source) string {
	switch s {
	case record.Goodreads, record.Amazon, record.Audible, record.GoogleBooks:
		return string(s)
	default:
		return "other"
	}
}

// Path returns where Write puts r under dir.
func Path(dir string, r record.Record) string {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	slug := r.Slug()
	if slug == "" {
		slug = "untitled"
	}
	return filepath.Join(dir, segment(r.Source), slug+".yaml")
}

// Write validates r and writes it to Path(dir, r), replacing any earlier
// extraction of the same title.
func Write(dir string, r record.Record) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	path := Path(dir, r)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	buf, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Read loads and validates one archived record.
func Read(path string) (record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return record.Record{}, err
	}
	var r record.Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return record.Record{}, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := r.Validate(); err != nil {
		return record.Record{}, fmt.Errorf("invalid record in %s: %w", path, err)
	}
	return r, nil
}

// ReadAll loads every record under dir, ordered by path. A missing dir is an
// empty archive.
func ReadAll(dir string) ([]record.Record, error) {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir
	}
	var paths []string
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".yaml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	out := make([]record.Record, 0, len(paths))
	for _, p := range paths {
		r, err := Read(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
