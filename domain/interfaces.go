// Package domain contains domain-specific interfaces, entities and errors for
// jsondb.
//
// This package defines the contracts that must be implemented by adapters.
// Every behavior of a collection goes through one of them, so each can be
// replaced, for example to back a database with something other than a file or
// to mock time and ids in tests.
package domain

import (
	"context"
	"os"
	"time"
)

// Storage provides low-level file operations over the database file.
type Storage interface {
	// ReadFile reads the whole content of an existing file.
	ReadFile(ctx context.Context, name string) ([]byte, error)
	// WriteFile replaces the whole content of an existing file. It never
	// creates the file, returning an error wrapping [os.ErrNotExist]
	// instead.
	WriteFile(ctx context.Context, name string, data []byte, dirMode os.FileMode, fileMode os.FileMode) error
	// EnsureFile creates the file and its parent directories if they do
	// not exist yet. Existing content is left untouched.
	EnsureFile(name string, dirMode os.FileMode, fileMode os.FileMode) error
	// Exists checks if a file exists.
	Exists(name string) (bool, error)
	// Remove deletes a file.
	Remove(name string) error
}

// Serializer converts the database content to bytes for storage.
type Serializer interface {
	// Serialize converts the whole database to bytes.
	Serialize(ctx context.Context, data Data) ([]byte, error)
}

// Deserializer converts bytes back to the database content.
type Deserializer interface {
	// Deserialize parses the whole database from bytes.
	Deserialize(ctx context.Context, b []byte) (Data, error)
}

// Store is the only path touching the persisted database. Each call is a
// complete read or a complete overwrite, and no state is kept between calls.
type Store interface {
	// Read loads the whole database stored under path. It fails if path
	// does not exist, returns [ErrEmptyFile] for empty content and
	// [ErrCorruptData] for content that is not a valid database.
	Read(ctx context.Context, path string) (Data, error)
	// Write replaces the whole database stored under path. It fails if
	// path does not exist yet.
	Write(ctx context.Context, path string, data Data) error
}

// Decoder converts between user payloads and raw documents.
type Decoder interface {
	// Decode copies a raw value into target, which must be a non-nil
	// pointer.
	Decode(source any, target any) error
	// Encode converts a user value into a raw document with the same
	// representation it would have once persisted.
	Encode(source any) (Document, error)
}

// Matcher evaluates whether documents satisfy a filter.
type Matcher interface {
	// Match reports whether every key of filter is present in doc with an
	// equal value. Filter must be already normalized by [Decoder.Encode].
	Match(doc Document, filter Document) bool
}

// Locker provides exclusive access to a key, usually a file path, for the
// duration of a read-modify-write cycle.
type Locker interface {
	// Lock blocks until the key is free or ctx is done. The returned
	// function releases the lock and must be called exactly once.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// TimeGetter provides current time for timestamping operations.
type TimeGetter interface {
	// GetTime returns the current time.
	GetTime() time.Time
}

// IDGenerator is used to create unique IDs for new documents.
type IDGenerator interface {
	// GenerateID returns a new random identifier.
	GenerateID() (string, error)
}
