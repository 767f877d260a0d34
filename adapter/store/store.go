// Package store contains the default [domain.Store] implementations: one
// backed by database files and one kept in memory.
package store

import (
	"context"
	"os"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/storage"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"go.uber.org/zap"
)

const (
	DefaultDirMode  os.FileMode = 0o755
	DefaultFileMode os.FileMode = 0o644
)

// FileStore implements domain.Store over a [domain.Storage].
type FileStore struct {
	storage      domain.Storage
	serializer   domain.Serializer
	deserializer domain.Deserializer
	fileMode     os.FileMode
	dirMode      os.FileMode
	logger       *zap.Logger
}

// NewFileStore returns a new file backed implementation of domain.Store.
func NewFileStore(options ...Option) domain.Store {
	o := config{
		storage:      storage.NewStorage(),
		serializer:   serializer.NewSerializer(),
		deserializer: deserializer.NewDeserializer(),
		fileMode:     DefaultFileMode,
		dirMode:      DefaultDirMode,
		logger:       zap.NewNop(),
	}
	for _, option := range options {
		option(&o)
	}
	return &FileStore{
		storage:      o.storage,
		serializer:   o.serializer,
		deserializer: o.deserializer,
		fileMode:     o.fileMode,
		dirMode:      o.dirMode,
		logger:       o.logger,
	}
}

// Read implements domain.Store.
func (s *FileStore) Read(ctx context.Context, path string) (domain.Data, error) {
	b, err := s.storage.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.deserializer.Deserialize(ctx, b)
}

// Write implements domain.Store. Failures are logged and returned as
// [domain.ErrWrite].
func (s *FileStore) Write(ctx context.Context, path string, data domain.Data) error {
	b, err := s.serializer.Serialize(ctx, data)
	if err != nil {
		return writeError(s.logger, path, err)
	}

	if err := s.storage.WriteFile(ctx, path, b, s.dirMode, s.fileMode); err != nil {
		return writeError(s.logger, path, err)
	}

	s.logger.Debug("database written", zap.String("path", path), zap.Int("bytes", len(b)))
	return nil
}

func writeError(logger *zap.Logger, path string, err error) error {
	logger.Error("cannot persist database", zap.String("path", path), zap.Error(err))
	return domain.ErrWrite{Path: path, Err: err}
}
