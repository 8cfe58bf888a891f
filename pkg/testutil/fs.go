// Package testutil provides test helpers, most notably an in-memory
// implementation of types.FS for exercising discovery and file listing
// without touching the real filesystem.
package testutil

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

// MemFS is an in-memory types.FS. Directories exist implicitly: a file at
// /p/src/main.c makes /p and /p/src directories. Stat failures can be
// injected per path to exercise the error-absorption behavior of callers.
type MemFS struct {
	files    map[string]*memFile
	statErrs map[string]struct{}
	reads    map[string]int
}

type memFile struct {
	data  []byte
	mtime time.Time
}

// NewMemFS creates an empty in-memory filesystem
func NewMemFS() *MemFS {
	return &MemFS{
		files:    make(map[string]*memFile),
		statErrs: make(map[string]struct{}),
		reads:    make(map[string]int),
	}
}

// WriteFile adds a file with the given content and modification time
func (m *MemFS) WriteFile(name string, data []byte, mtime time.Time) {
	m.files[clean(name)] = &memFile{data: data, mtime: mtime}
}

// FailStat makes every Stat/Lstat on name fail with a permission error
func (m *MemFS) FailStat(name string) {
	m.statErrs[clean(name)] = struct{}{}
}

// ReadCount returns how many times name was read through ReadFile
func (m *MemFS) ReadCount(name string) int {
	return m.reads[clean(name)]
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	name = clean(name)
	if _, ok := m.statErrs[name]; ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrPermission}
	}
	if f, ok := m.files[name]; ok {
		return &fileInfo{name: path.Base(name), size: int64(len(f.data)), mtime: f.mtime}, nil
	}
	if m.isDir(name) {
		return &fileInfo{name: path.Base(name), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	name = clean(name)
	m.reads[name]++
	if f, ok := m.files[name]; ok {
		return append([]byte(nil), f.data...), nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

func (m *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	name = clean(name)
	if !m.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	children := make(map[string]bool) // name -> isDir
	prefix := name + "/"
	for file := range m.files {
		if !strings.HasPrefix(file, prefix) {
			continue
		}
		rest := strings.TrimPrefix(file, prefix)
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			children[rest[:i]] = true
		} else if !children[rest] {
			children[rest] = false
		}
	}

	names := make([]string, 0, len(children))
	for child := range children {
		names = append(names, child)
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, len(names))
	for i, child := range names {
		entries[i] = &dirEntry{name: child, dir: children[child]}
	}
	return entries, nil
}

func (m *MemFS) isDir(name string) bool {
	if name == "/" {
		return true
	}
	prefix := name + "/"
	for file := range m.files {
		if strings.HasPrefix(file, prefix) {
			return true
		}
	}
	return false
}

func clean(name string) string {
	return path.Clean(name)
}

type fileInfo struct {
	name  string
	size  int64
	mtime time.Time
	dir   bool
}

func (f *fileInfo) Name() string { return f.name }
func (f *fileInfo) Size() int64  { return f.size }
func (f *fileInfo) Mode() fs.FileMode {
	if f.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}
func (f *fileInfo) ModTime() time.Time { return f.mtime }
func (f *fileInfo) IsDir() bool        { return f.dir }
func (f *fileInfo) Sys() interface{}   { return nil }

type dirEntry struct {
	name string
	dir  bool
}

func (d *dirEntry) Name() string { return d.name }
func (d *dirEntry) IsDir() bool  { return d.dir }
func (d *dirEntry) Type() fs.FileMode {
	if d.dir {
		return fs.ModeDir
	}
	return 0
}
func (d *dirEntry) Info() (fs.FileInfo, error) {
	return &fileInfo{name: d.name, dir: d.dir}, nil
}
