package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFilterRequired is returned by update and delete operations called
	// without a filter.
	ErrFilterRequired = errors.New("filter must be assigned")
	// ErrEmptyFile is returned by [Store.Read] when the database file has no
	// content yet.
	ErrEmptyFile = errors.New("database file is empty")
	// ErrNotFound is returned when a document handle tries to update a
	// document that is no longer persisted.
	ErrNotFound = errors.New("document not found")
	// ErrTargetNil is returned when user provides a nil value as a target to
	// decode data.
	ErrTargetNil = errors.New("target interface is nil")
	// ErrNonPointer is returned when user provides a non-pointer value as a
	// target to decode data.
	ErrNonPointer = errors.New("target should be a pointer")
	// ErrCollectionName is returned when a collection is requested with an
	// empty name.
	ErrCollectionName = errors.New("collection name cannot be empty")
)

// ErrSystemField is returned when a payload contains a field that is managed
// by the database.
type ErrSystemField struct {
	Field string
}

// Error implements [error].
func (e ErrSystemField) Error() string {
	return fmt.Sprintf("%s is automatically managed and cannot be set", e.Field)
}

// ErrDocumentType is returned when an user passes a value that cannot be
// represented as a document.
type ErrDocumentType struct {
	Value any
}

// Error implements [error].
func (e ErrDocumentType) Error() string {
	return fmt.Sprintf("cannot use value of type %T as document", e.Value)
}

// ErrDatabaseName is returned when the user specifies an invalid name for a
// database.
type ErrDatabaseName struct {
	Name   string
	Reason string
}

// Error implements [error].
func (e ErrDatabaseName) Error() string {
	return fmt.Sprintf("invalid database name %q: %s", e.Name, e.Reason)
}

// ErrCorruptData is returned when the database file content cannot be read as
// a mapping of collection names to arrays of documents.
type ErrCorruptData struct {
	Collection string
	Reason     string
	Err        error
}

// Error implements [error].
func (e ErrCorruptData) Error() string {
	msg := "corrupt database file"
	if e.Collection != "" {
		msg += fmt.Sprintf(" (collection %q)", e.Collection)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the parsing error, if any.
func (e ErrCorruptData) Unwrap() error { return e.Err }

// ErrWrite is returned when the database could not be persisted. Nothing from
// the failing operation is considered saved.
type ErrWrite struct {
	Path string
	Err  error
}

// Error implements [error].
func (e ErrWrite) Error() string {
	return fmt.Sprintf("cannot persist %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ErrWrite) Unwrap() error { return e.Err }

// ErrTimestamp is returned when a stored timestamp cannot be read.
type ErrTimestamp struct {
	Value any
	Err   error
}

// Error implements [error].
func (e ErrTimestamp) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid timestamp %v: %s", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid timestamp of type %T", e.Value)
}

// Unwrap returns the parsing error, if any.
func (e ErrTimestamp) Unwrap() error { return e.Err }

// ErrDecode is returned by [Decoder.Decode] to easily wrap third party decoding
// errors.
type ErrDecode struct {
	Source any
	Target any
}

// Error implements [error].
func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %T into %T", e.Source, e.Target)
}

// ErrFlushToStorage is returned when a file or directory could not be synced
// to disk.
type ErrFlushToStorage struct {
	ErrorOnFsync error
	ErrorOnClose error
}

// Error implements [error].
func (e ErrFlushToStorage) Error() string {
	return fmt.Sprint("storage flush error: ", e.Unwrap())
}

// Unwrap returns the first failing step.
func (e ErrFlushToStorage) Unwrap() error {
	if e.ErrorOnFsync != nil {
		return e.ErrorOnFsync
	}
	return e.ErrorOnClose
}
