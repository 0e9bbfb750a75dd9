// Package loader provides document sources that read configuration files.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"golang-netdef/internal/pkg/logging"
	"golang-netdef/internal/port"
)

// DefaultDirectories are scanned, in this order, below the root directory.
var DefaultDirectories = []string{"lib/netplan", "etc/netplan", "run/netplan"}

// DirectoryLoader implements the DocumentSource port by enumerating the
// *.yaml files of a list of configuration directories.
//
// A file shadows any file with the same base name in an earlier directory.
// The surviving files are returned in lexical order of their base names.
type DirectoryLoader struct {
	files       port.FileManager
	root        string
	directories []string
}

// Ensure DirectoryLoader implements the DocumentSource port
var _ port.DocumentSource = (*DirectoryLoader)(nil)

// NewDirectoryLoader creates a loader for directories below root. An empty
// directory list selects DefaultDirectories.
func NewDirectoryLoader(files port.FileManager, root string, directories []string) *DirectoryLoader {
	if len(directories) == 0 {
		directories = DefaultDirectories
	}
	if root == "" {
		root = "/"
	}
	return &DirectoryLoader{
		files:       files,
		root:        root,
		directories: directories,
	}
}

// Documents returns the contents of every surviving configuration file.
func (l *DirectoryLoader) Documents(ctx context.Context) ([]port.RawDocument, error) {
	logger := logging.WithComponent("loader")

	paths := make(map[string]string)
	for _, dir := range l.directories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pattern := filepath.Join(l.root, dir, "*.yaml")
		matches, err := l.files.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", filepath.Join(l.root, dir), err)
		}
		for _, path := range matches {
			name := filepath.Base(path)
			if previous, ok := paths[name]; ok {
				logging.WithDocument("loader", path).WithField("shadowed", previous).Debug("Shadowing configuration file")
			}
			paths[name] = path
		}
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]string, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, paths[name])
	}
	logger.WithField("files", len(ordered)).Debug("Enumerated configuration files")
	return readAll(ctx, l.files, ordered)
}

// FileLoader implements the DocumentSource port for an explicit list of
// files, returned in the given order.
type FileLoader struct {
	files port.FileManager
	paths []string
}

// Ensure FileLoader implements the DocumentSource port
var _ port.DocumentSource = (*FileLoader)(nil)

// NewFileLoader creates a loader for the given files.
func NewFileLoader(files port.FileManager, paths []string) *FileLoader {
	return &FileLoader{files: files, paths: paths}
}

// Documents returns the contents of every file.
func (l *FileLoader) Documents(ctx context.Context) ([]port.RawDocument, error) {
	for _, path := range l.paths {
		if !l.files.FileExists(path) {
			return nil, fmt.Errorf("configuration file %s does not exist", path)
		}
	}
	return readAll(ctx, l.files, l.paths)
}

func readAll(ctx context.Context, files port.FileManager, paths []string) ([]port.RawDocument, error) {
	docs := make([]port.RawDocument, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := files.ReadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, port.RawDocument{Name: path, Data: data})
	}
	return docs, nil
}
