// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package asset reads shaders, images and models from a directory, an
// embedded packr box, a kar archive or memory, and turns them into render
// objects.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobuffalo/packr"
	"golang.org/x/exp/mmap"

	"github.com/devblok/korufx/utility/kar"
)

// ErrNotFound is returned when a source holds no file of the given name.
var ErrNotFound = errors.New("asset not found")

// Source is a read only collection of named files. Names use forward
// slashes on every platform.
type Source interface {
	ReadFile(name string) ([]byte, error)
	List() ([]string, error)
}

func notFound(name string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// DirSource reads files below a directory.
type DirSource string

// ReadFile implements Source
func (d DirSource) ReadFile(name string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Join(string(d), filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(name)
	}
	return contents, err
}

// List implements Source
func (d DirSource) List() ([]string, error) {
	var names []string
	err := filepath.Walk(string(d), func(p string, f os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if f.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(string(d), p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	return names, err
}

// BoxSource reads files from a packr box, embedded in the binary or
// resolved on disk during development.
type BoxSource struct {
	Box packr.Box
}

// ReadFile implements Source
func (b BoxSource) ReadFile(name string) ([]byte, error) {
	if !b.Box.Has(name) {
		return nil, notFound(name)
	}
	return b.Box.Find(name)
}

// List implements Source
func (b BoxSource) List() ([]string, error) {
	names := b.Box.List()
	for i := range names {
		names[i] = filepath.ToSlash(names[i])
	}
	sort.Strings(names)
	return names, nil
}

// ArchiveSource reads files from a kar archive.
type ArchiveSource struct {
	Archive *kar.Archive
	closer  func() error
}

// OpenArchive memory maps the kar archive at path.
func OpenArchive(path string) (*ArchiveSource, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	ar, err := kar.Open(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &ArchiveSource{Archive: ar, closer: r.Close}, nil
}

// ReadFile implements Source
func (a *ArchiveSource) ReadFile(name string) ([]byte, error) {
	contents, err := a.Archive.ReadAll(name)
	if errors.Is(err, kar.ErrNotFound) {
		return nil, notFound(name)
	}
	return contents, err
}

// List implements Source
func (a *ArchiveSource) List() ([]string, error) {
	return a.Archive.Names(), nil
}

// Close unmaps the archive if it was opened by OpenArchive.
func (a *ArchiveSource) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer()
	a.closer = nil
	return err
}

// MapSource holds files in memory.
type MapSource map[string][]byte

// ReadFile implements Source
func (m MapSource) ReadFile(name string) ([]byte, error) {
	contents, ok := m[path.Clean(name)]
	if !ok {
		return nil, notFound(name)
	}
	return contents, nil
}

// List implements Source
func (m MapSource) List() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Open picks the source for a location: a kar archive when path ends in
// .kar, the directory otherwise. An empty path selects fallback.
func Open(path string, fallback Source) (Source, error) {
	switch {
	case path == "":
		return fallback, nil
	case strings.HasSuffix(path, ".kar"):
		return OpenArchive(path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset: %s is neither a directory nor a kar archive", path)
	}
	return DirSource(path), nil
}

// Close closes src if it holds open files.
func Close(src Source) error {
	if a, ok := src.(*ArchiveSource); ok {
		return a.Close()
	}
	return nil
}
