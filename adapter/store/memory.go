package store

import (
	"context"
	"io/fs"
	"sync"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"go.uber.org/zap"
)

// MemoryStore implements domain.Store keeping each database as serialized
// bytes in memory. It follows the same rules as [FileStore]: a path must be
// created with [MemoryStore.Touch] before it can be read or written.
type MemoryStore struct {
	mu           sync.Mutex
	files        map[string][]byte
	serializer   domain.Serializer
	deserializer domain.Deserializer
	logger       *zap.Logger
}

// NewMemoryStore returns a new in-memory implementation of domain.Store.
// Options related to files are ignored.
func NewMemoryStore(options ...Option) *MemoryStore {
	o := config{
		serializer:   serializer.NewSerializer(),
		deserializer: deserializer.NewDeserializer(),
		logger:       zap.NewNop(),
	}
	for _, option := range options {
		option(&o)
	}
	return &MemoryStore{
		files:        make(map[string][]byte),
		serializer:   o.serializer,
		deserializer: o.deserializer,
		logger:       o.logger,
	}
}

// Touch creates an empty database under path if there is none.
func (s *MemoryStore) Touch(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		s.files[path] = nil
	}
}

// Content returns the serialized database stored under path.
func (s *MemoryStore) Content(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path]
	return b, ok
}

// Read implements domain.Store.
func (s *MemoryStore) Read(ctx context.Context, path string) (domain.Data, error) {
	b, ok := s.Content(path)
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
	}
	return s.deserializer.Deserialize(ctx, b)
}

// Write implements domain.Store.
func (s *MemoryStore) Write(ctx context.Context, path string, data domain.Data) error {
	b, err := s.serializer.Serialize(ctx, data)
	if err != nil {
		return writeError(s.logger, path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		err := &fs.PathError{Op: "write", Path: path, Err: fs.ErrNotExist}
		return writeError(s.logger, path, err)
	}
	s.files[path] = b
	return nil
}
