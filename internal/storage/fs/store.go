// Package fs persists image files under a single uploads root with
// atomic, all-or-nothing writes.
package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsafeName = errors.New("unsafe file name")

// Store writes image bytes below root and addresses them relative to a
// public URL prefix. Filenames are generated unique by the caller, so
// concurrent Puts need no locking.
type Store struct {
	root      string
	publicURL string
}

func NewStore(root, publicURL string) (*Store, error) {
	if root == "" {
		return nil, errors.New("uploads root required")
	}
	if err := os.MkdirAll(filepath.Join(root, "images"), 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Put writes data to images/<name>. The file appears fully written or
// not at all: bytes go to a temp file first, which is fsynced and then
// renamed into place.
func (s *Store) Put(data []byte, name string) (string, string, error) {
	if err := checkName(name); err != nil {
		return "", "", err
	}
	full := filepath.Join(s.root, "images", name)
	if err := writeAtomic(full, data, 0o644); err != nil {
		return "", "", err
	}
	rel := "images/" + name
	return s.publicURL + "/" + rel, rel, nil
}

// Root returns the directory files are written under, for serving.
func (s *Store) Root() string { return s.root }

func checkName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrUnsafeName
	}
	if strings.ContainsAny(name, "/\\") || strings.ContainsRune(name, 0) {
		return ErrUnsafeName
	}
	if strings.HasPrefix(name, ".") {
		return ErrUnsafeName
	}
	return nil
}

func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp.%s.%d", filepath.Base(path), os.Getpid()))

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	if dirf, err := os.Open(dir); err == nil {
		_ = dirf.Sync()
		_ = dirf.Close()
	}
	return nil
}
