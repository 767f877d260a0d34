// Package jsondb provides an embedded document database stored in plain JSON
// files.
//
// Each database is a single file holding named collections of schema-less
// documents. Every operation reads the file, and every change rewrites it
// before returning, so nothing is cached between calls and the file can be
// inspected or edited by hand while the program is not running.
//
// The basic usage starts with creating a [Client], which can be done by
// calling [NewClient], and opening a [Database] and its collections:
//
//	client := jsondb.NewClient("data")
//	db, err := client.Database(ctx, "library")
//	books, err := jsondb.Open[Book](ctx, db, "books")
//	doc, err := books.InsertOne(ctx, Book{Title: "Dune"})
package jsondb

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/collection"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/database"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
)

// FileSuffix is appended to a database name to get its file name.
const FileSuffix = ".db.json"

var (
	// ErrFilterRequired is returned by update and delete operations called
	// without a filter.
	ErrFilterRequired = domain.ErrFilterRequired
	// ErrEmptyFile is returned when reading a database file with no content.
	ErrEmptyFile = domain.ErrEmptyFile
	// ErrNotFound is returned by [Document.Update] when the document is no
	// longer stored.
	ErrNotFound = domain.ErrNotFound
	// ErrTargetNil is returned when decoding into a nil target.
	ErrTargetNil = domain.ErrTargetNil
	// ErrNonPointer is returned when decoding into a non-pointer target.
	ErrNonPointer = domain.ErrNonPointer
	// ErrCollectionName is returned when a collection is requested with an
	// empty name.
	ErrCollectionName = domain.ErrCollectionName
)

// ErrSystemField is returned when a payload sets a field managed by the
// database: id, createdAt or updatedAt.
type ErrSystemField = domain.ErrSystemField

// ErrDocumentType is returned when a value cannot be stored as a document, as
// it happens with numbers, strings and slices.
type ErrDocumentType = domain.ErrDocumentType

// ErrDatabaseName is returned by [Client.Database] for names that are empty or
// not a single path element.
type ErrDatabaseName = domain.ErrDatabaseName

// ErrCorruptData is returned when a database file is not an object of arrays
// of documents.
type ErrCorruptData = domain.ErrCorruptData

// ErrWrite is returned when a change could not be persisted.
type ErrWrite = domain.ErrWrite

// ErrTimestamp is returned when a stored timestamp cannot be read.
type ErrTimestamp = domain.ErrTimestamp

// ErrDecode is returned by [Decoder.Decode] to easily wrap third party decoding
// errors.
type ErrDecode = domain.ErrDecode

// M is a schema-less document payload.
type M = domain.M

// Filter is a conjunction of equality constraints. A nil Filter is absent,
// while an empty Filter matches every document.
type Filter = domain.Filter

// Data is the whole content of a database file.
type Data = domain.Data

// Database is a handle to a single database file.
type Database = database.Database

// Collection binds a collection of a database to payloads of type T.
type Collection[T any] = collection.Collection[T]

// Document is a snapshot of a stored document with a payload of type T.
type Document[T any] = collection.Document[T]

// Storage provides low-level file operations with crash-safety guarantees.
type Storage = domain.Storage

// Store reads and writes whole databases.
type Store = domain.Store

// Serializer converts a database to bytes.
type Serializer = domain.Serializer

// Deserializer converts bytes back to a database.
type Deserializer = domain.Deserializer

// Decoder converts payloads to documents and back.
type Decoder = domain.Decoder

// Matcher evaluates whether documents match a filter.
type Matcher = domain.Matcher

// Locker provides exclusive access to a database file.
type Locker = domain.Locker

// TimeGetter provides current time for timestamping operations.
type TimeGetter = domain.TimeGetter

// IDGenerator is used to create unique ids for new documents.
type IDGenerator = domain.IDGenerator

// Client opens the databases kept in a directory. Databases and collections
// created by the same Client share a [Locker], so they can be used from
// multiple goroutines.
type Client struct {
	dir     string
	options []database.Option
}

// NewClient creates a client for the databases in dir. The directory is
// created when the first database is opened. The following options can be
// used:
//
// - [WithFileMode]: sets the file permissions for database files.
//
// - [WithDirMode]: sets the directory permissions for database directories.
//
// - [WithStorage]: sets the storage implementation for file operations.
//
// - [WithStore]: sets the store implementation for reading and writing data.
//
// - [WithSerializer]: sets the serializer for converting data to bytes.
//
// - [WithDeserializer]: sets the deserializer for converting bytes to data.
//
// - [WithIndent]: sets the indentation of database files.
//
// - [WithLocker]: sets the locker guarding database files.
//
// - [WithMatcher]: sets the matcher implementation for filter evaluation.
//
// - [WithDecoder]: sets the decoder for payload conversions.
//
// - [WithIDGenerator]: sets the idgenerator to create new document ids.
//
// - [WithRandomReader]: sets the reader to be used by the IDGenerator.
//
// - [WithTimeGetter]: sets the time getter for timestamping operations.
//
// - [WithLogger]: sets the logger for operations and write failures.
func NewClient(dir string, options ...Option) *Client {
	cfg := newConfig(options...)
	return &Client{dir: dir, options: cfg.databaseOptions()}
}

// Dir returns the directory holding the databases.
func (c *Client) Dir() string { return c.dir }

// Database opens the database called name, creating its file if needed. A
// file left behind by an interrupted write is recovered.
func (c *Client) Database(ctx context.Context, name string) (*Database, error) {
	db, err := c.database(name)
	if err != nil {
		return nil, err
	}
	if err := db.Ensure(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// DropDatabase removes the file of the database called name.
func (c *Client) DropDatabase(ctx context.Context, name string) error {
	db, err := c.database(name)
	if err != nil {
		return err
	}
	return db.Drop(ctx)
}

func (c *Client) database(name string) (*Database, error) {
	if err := checkDatabaseName(name); err != nil {
		return nil, err
	}
	path := filepath.Join(c.dir, name+FileSuffix)
	return database.New(path, c.options...), nil
}

func checkDatabaseName(name string) error {
	switch {
	case name == "":
		return ErrDatabaseName{Name: name, Reason: "must not be empty"}
	case strings.ContainsAny(name, `/\`) || name != filepath.Base(name):
		return ErrDatabaseName{Name: name, Reason: "must not contain path separators"}
	case name == "." || name == "..":
		return ErrDatabaseName{Name: name, Reason: "must not be a relative path"}
	}
	return nil
}

// Open binds the collection called name in db with payloads of type T,
// creating the collection if needed.
func Open[T any](ctx context.Context, db *Database, name string) (*Collection[T], error) {
	return database.Open[T](ctx, db, name)
}
