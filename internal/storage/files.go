// Package storage handles the on-disk side of file uploads and app
// bundles: uuid-prefixed upload names and zip extraction with a
// traversal guard.
package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore writes uploads into a single directory. Stored names are
// prefixed with a fresh uuid so uploads never collide or overwrite.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir}, nil
}

// Save streams the content to disk under a uuid-prefixed name and
// returns the stored name.
func (s *FileStore) Save(originalName string, content io.Reader) (string, error) {
	name := uuid.New().String() + "_" + filepath.Base(originalName)
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

// List returns the stored file names.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Open opens a stored file by name. Path separators in the name are
// rejected so callers cannot escape the store directory.
func (s *FileStore) Open(name string) (*os.File, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid file name %q", name)
	}
	return os.Open(filepath.Join(s.Dir, name))
}

// ExtractZip unpacks an archive under destDir, refusing any member
// whose resolved path would land outside destDir (zip slip).
func ExtractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	for _, member := range zr.File {
		target := filepath.Join(root, member.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("unsafe zip member %q", member.Name)
		}
		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractMember(member, target); err != nil {
			return err
		}
	}
	return nil
}

func extractMember(member *zip.File, target string) error {
	rc, err := member.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, rc)
	return err
}
