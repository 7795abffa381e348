// Package content discovers the entries of a flat content directory and maps
// percent-encoded identifiers back to files without leaving that directory.
//
// Nothing is cached: every call goes back to the filesystem.
package content

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jamoo-dev/curtain/pkg/percent"
	"github.com/pkg/errors"
)

const (
	URLPrefix       = "/posts/"
	untitled        = "Untitled"
	pathSeparators  = "/" + string(filepath.Separator)
	parentDirectory = ".."
)

var (
	ErrPathResolution = errors.New("path resolution failed")
	ErrFilesystem     = errors.New("filesystem error")
)

// PathResolutionError means the requested entry does not exist or names
// something outside the content root.
type PathResolutionError struct {
	Name   []byte
	Reason string
}

func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("%s: %q %s", ErrPathResolution, e.Name, e.Reason)
}

func (e *PathResolutionError) Is(target error) bool { return target == ErrPathResolution }

// FilesystemError wraps I/O failures on the content root.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s: %s %s: %s", ErrFilesystem, e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Is(target error) bool { return target == ErrFilesystem }
func (e *FilesystemError) Unwrap() error        { return e.Err }

// Entry is one file below the content root.
type Entry struct {
	Identifier []byte
	Title      string
	Path       string
	ModTime    time.Time
}

// URLPath is the path under which the entry is served.
func (e Entry) URLPath() string {
	return URLPrefix + percent.Encode(e.Identifier)
}

// Title derives a display title from a filename: everything before the
// first dot.
func Title(name []byte) string {
	if i := bytes.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	if len(name) == 0 {
		return untitled
	}
	return string(name)
}

type Store struct {
	root  string
	lstat func(string) (os.FileInfo, error)
}

func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root), lstat: os.Lstat}
}

func (s *Store) Root() string { return s.root }

func (s *Store) modTime(path string) (time.Time, error) {
	info, err := s.lstat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// regularFile stats path without following symlinks and accepts only
// regular files.
func (s *Store) regularFile(name []byte, path string) (os.FileInfo, error) {
	info, err := s.lstat(path)
	switch {
	case os.IsNotExist(err):
		return nil, &PathResolutionError{Name: name, Reason: "does not exist"}
	case err != nil:
		return nil, &FilesystemError{Op: "stat", Path: path, Err: err}
	case !info.Mode().IsRegular():
		return nil, &PathResolutionError{Name: name, Reason: "is not a regular file"}
	}
	return info, nil
}

func (s *Store) entry(name string, modTime time.Time) Entry {
	return Entry{
		Identifier: []byte(name),
		Title:      Title([]byte(name)),
		Path:       filepath.Join(s.root, name),
		ModTime:    modTime,
	}
}

// List returns at most limit regular files modified after the given time,
// newest first. Entries with identical modification times keep the order in
// which the directory was read, which is sorted by filename. Files whose
// metadata can't be read are dated to the Unix epoch.
func (s *Store) List(limit int, after time.Time) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, &FilesystemError{Op: "reading directory", Path: s.root, Err: err}
	}

	entries := []Entry{}
	for _, dirEntry := range dirEntries {
		if !dirEntry.Type().IsRegular() {
			continue
		}

		name := dirEntry.Name()
		modTime, err := s.modTime(filepath.Join(s.root, name))
		if err != nil {
			modTime = time.Unix(0, 0)
		}

		if !modTime.After(after) {
			continue
		}
		entries = append(entries, s.entry(name, modTime))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})

	if limit < 0 {
		limit = 0
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Resolve decodes segment into a single filename and returns the entry for
// it. The decoded name must not contain separators or parent references.
func (s *Store) Resolve(segment string) (Entry, error) {
	name, err := percent.Decode(segment)
	if err != nil {
		return Entry{}, err
	}

	if err := validName(name); err != nil {
		return Entry{}, err
	}

	path := filepath.Join(s.root, string(name))
	if err := s.contains(path); err != nil {
		return Entry{}, &PathResolutionError{Name: name, Reason: err.Error()}
	}

	info, err := s.regularFile(name, path)
	if err != nil {
		return Entry{}, err
	}

	return s.entry(string(name), info.ModTime()), nil
}

func validName(name []byte) error {
	switch {
	case len(name) == 0:
		return &PathResolutionError{Name: name, Reason: "is empty"}
	case string(name) == "." || string(name) == parentDirectory:
		return &PathResolutionError{Name: name, Reason: "refers to a directory"}
	case bytes.ContainsAny(name, pathSeparators):
		return &PathResolutionError{Name: name, Reason: "contains a path separator"}
	case bytes.IndexByte(name, 0) >= 0:
		return &PathResolutionError{Name: name, Reason: "contains a NUL byte"}
	}
	return nil
}

func (s *Store) contains(path string) error {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return err
	}
	if rel == "." || rel == parentDirectory || strings.HasPrefix(rel, parentDirectory+string(filepath.Separator)) {
		return errors.Errorf("escapes the content root %s", s.root)
	}
	if strings.ContainsRune(rel, filepath.Separator) {
		return errors.Errorf("is not directly inside the content root %s", s.root)
	}
	return nil
}

// Read returns the raw bytes of an entry. The path is checked again with
// Lstat and the opened file must be that same regular file, so a symlink
// swapped in after Resolve is never followed.
func (s *Store) Read(entry Entry) ([]byte, error) {
	if err := s.contains(entry.Path); err != nil {
		return nil, &PathResolutionError{Name: entry.Identifier, Reason: err.Error()}
	}

	info, err := s.regularFile(entry.Identifier, entry.Path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(entry.Path)
	if err != nil {
		return nil, &FilesystemError{Op: "opening", Path: entry.Path, Err: err}
	}
	defer f.Close()

	opened, err := f.Stat()
	if err != nil {
		return nil, &FilesystemError{Op: "stat", Path: entry.Path, Err: err}
	}
	if !os.SameFile(info, opened) {
		return nil, &PathResolutionError{Name: entry.Identifier, Reason: "changed while opening"}
	}

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, &FilesystemError{Op: "reading", Path: entry.Path, Err: err}
	}
	return raw, nil
}
