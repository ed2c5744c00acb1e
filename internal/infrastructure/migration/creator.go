package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// File is one migration as found on disk
type File struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// BaseName returns the file name without the direction suffix, e.g. 000003_create_leasing
func (f File) BaseName() string {
	return fmt.Sprintf("%06d_%s", f.Version, f.Name)
}

var fileRe = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// List returns the migrations in dir ordered by version. A missing dir yields none.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[uint]*File)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := fileRe.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		v, err := strconv.ParseUint(match[1], 10, 32)
		if err != nil {
			continue
		}
		f, ok := byVersion[uint(v)]
		if !ok {
			f = &File{Version: uint(v), Name: match[2]}
			byVersion[uint(v)] = f
		}
		path := filepath.Join(dir, e.Name())
		if match[3] == "up" {
			f.UpPath = path
		} else {
			f.DownPath = path
		}
	}

	files := make([]File, 0, len(byVersion))
	for _, f := range byVersion {
		files = append(files, *f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// Create writes an empty up/down pair numbered one past the highest existing version
func Create(dir, name string) (File, error) {
	slug := Slug(name)
	if slug == "" {
		return File{}, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return File{}, fmt.Errorf("failed to create migrations directory: %w", err)
	}
	existing, err := List(dir)
	if err != nil {
		return File{}, err
	}

	f := File{Version: 1, Name: slug}
	if n := len(existing); n > 0 {
		f.Version = existing[n-1].Version + 1
	}
	f.UpPath = filepath.Join(dir, f.BaseName()+".up.sql")
	f.DownPath = filepath.Join(dir, f.BaseName()+".down.sql")

	header := fmt.Sprintf("-- %s\n-- Created: %s\n\n", slug, time.Now().UTC().Format(time.RFC3339))
	if err := os.WriteFile(f.UpPath, []byte(header), 0o644); err != nil {
		return File{}, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := os.WriteFile(f.DownPath, []byte(header), 0o644); err != nil {
		_ = os.Remove(f.UpPath)
		return File{}, fmt.Errorf("failed to create down migration: %w", err)
	}
	return f, nil
}

// Slug lowercases name and collapses separators to single underscores
func Slug(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
