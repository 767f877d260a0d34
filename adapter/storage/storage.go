// Package storage contains the default [domain.Storage] implementation.
package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dolmen-go/contextio"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// TempSuffix is appended to the database file name while a new version is
// being written.
const TempSuffix = "~"

var (
	osSpecificEnsureDir = func(o osOps, dir string, mode os.FileMode) error {
		return o.MkdirAll(dir, mode)
	}

	osSpecificSync = func(f *os.File, _ bool) error {
		return f.Sync()
	}
)

// Storage implements domain.Storage.
type Storage struct {
	os osOps
}

// NewStorage returns a new implementation of domain.Storage.
func NewStorage() domain.Storage {
	return &Storage{os: &osImpl{}}
}

// ReadFile implements domain.Storage.
func (s *Storage) ReadFile(ctx context.Context, name string) ([]byte, error) {
	f, err := s.os.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(contextio.NewReader(ctx, f))
}

// WriteFile implements domain.Storage. The new content is written to a
// temporary file that replaces the original one only after being synced, so
// an interrupted write never leaves a half written database behind.
func (s *Storage) WriteFile(ctx context.Context, name string, data []byte, dirMode os.FileMode, fileMode os.FileMode) error {
	exists, err := s.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrNotExist}
	}

	tempName := name + TempSuffix
	if err := s.writeFile(ctx, tempName, data, fileMode); err != nil {
		return errors.Join(err, s.removeIfExists(tempName))
	}

	if err := s.os.Rename(tempName, name); err != nil {
		return errors.Join(err, s.removeIfExists(tempName))
	}

	return s.flushToStorage(filepath.Dir(name), true, dirMode)
}

func (s *Storage) writeFile(ctx context.Context, name string, data []byte, mode os.FileMode) error {
	f, err := s.os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := contextio.NewWriter(ctx, f).Write(data); err != nil {
		f.Close()
		return err
	}

	if err := osSpecificSync(f, false); err != nil {
		f.Close()
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}

	if err := f.Close(); err != nil {
		return domain.ErrFlushToStorage{ErrorOnClose: err}
	}
	return nil
}

func (s *Storage) flushToStorage(name string, isDir bool, mode os.FileMode) error {
	flags := os.O_RDWR
	if isDir {
		flags = os.O_RDONLY
	}

	f, err := s.os.OpenFile(name, flags, mode)
	if err != nil {
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}

	if err := osSpecificSync(f, isDir); err != nil {
		f.Close()
		return domain.ErrFlushToStorage{ErrorOnFsync: err}
	}

	if err := f.Close(); err != nil {
		return domain.ErrFlushToStorage{ErrorOnClose: err}
	}

	return nil
}

// EnsureFile implements domain.Storage. If the file is missing but the
// temporary file of an interrupted write is present, the temporary file is
// promoted instead of creating an empty database.
func (s *Storage) EnsureFile(name string, dirMode os.FileMode, fileMode os.FileMode) error {
	dir, err := filepath.Abs(filepath.Dir(name))
	if err != nil {
		return err
	}
	if err := osSpecificEnsureDir(s.os, dir, dirMode); err != nil {
		return err
	}

	exists, err := s.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	tempExists, err := s.Exists(name + TempSuffix)
	if err != nil {
		return err
	}
	if tempExists {
		return s.os.Rename(name+TempSuffix, name)
	}

	f, err := s.os.OpenFile(name, os.O_WRONLY|os.O_CREATE, fileMode)
	if err != nil {
		return err
	}
	return f.Close()
}

// Exists implements domain.Storage.
func (s *Storage) Exists(name string) (bool, error) {
	_, err := s.os.Stat(name)
	if err != nil {
		if s.os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove implements domain.Storage.
func (s *Storage) Remove(name string) error {
	if err := s.os.Remove(name); err != nil {
		return err
	}
	return s.removeIfExists(name + TempSuffix)
}

func (s *Storage) removeIfExists(name string) error {
	if err := s.os.Remove(name); err != nil && !s.os.IsNotExist(err) {
		return err
	}
	return nil
}
