// Package database manages a single database file and the collections stored
// in it.
package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/collection"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/decoder"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/locker"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/matcher"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/storage"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/store"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/timegetter"
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"go.uber.org/zap"
)

// Database is a handle to a database file. Like collections, it holds no
// content in memory.
type Database struct {
	path        string
	storage     domain.Storage
	store       domain.Store
	locker      domain.Locker
	matcher     domain.Matcher
	decoder     domain.Decoder
	idGenerator domain.IDGenerator
	timeGetter  domain.TimeGetter
	fileMode    os.FileMode
	dirMode     os.FileMode
	logger      *zap.Logger
}

// New returns a handle to the database file at path. The file is not touched
// until [Database.Ensure] or any collection operation is called.
func New(path string, options ...Option) *Database {
	cfg := config{
		storage:     storage.NewStorage(),
		locker:      locker.NewLocker(),
		matcher:     matcher.NewMatcher(),
		decoder:     decoder.NewDecoder(),
		idGenerator: idgenerator.NewIDGenerator(),
		timeGetter:  timegetter.NewTimeGetter(),
		fileMode:    store.DefaultFileMode,
		dirMode:     store.DefaultDirMode,
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(&cfg)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if cfg.store == nil {
		cfg.store = store.NewFileStore(
			store.WithStorage(cfg.storage),
			store.WithFileMode(cfg.fileMode),
			store.WithDirMode(cfg.dirMode),
			store.WithLogger(cfg.logger),
		)
	}

	return &Database{
		path:        path,
		storage:     cfg.storage,
		store:       cfg.store,
		locker:      cfg.locker,
		matcher:     cfg.matcher,
		decoder:     cfg.decoder,
		idGenerator: cfg.idGenerator,
		timeGetter:  cfg.timeGetter,
		fileMode:    cfg.fileMode,
		dirMode:     cfg.dirMode,
		logger:      cfg.logger,
	}
}

// Path returns the absolute path of the database file.
func (d *Database) Path() string { return d.path }

// Ensure creates the database file and its parent directories if they do not
// exist. A file left behind by an interrupted write is recovered.
func (d *Database) Ensure(ctx context.Context) error {
	unlock, err := d.locker.Lock(ctx, d.path)
	if err != nil {
		return err
	}
	defer unlock()

	if err := d.storage.EnsureFile(d.path, d.dirMode, d.fileMode); err != nil {
		return err
	}
	d.logger.Debug("database ensured", zap.String("path", d.path))
	return nil
}

// Drop removes the database file. Dropping a missing database does nothing.
func (d *Database) Drop(ctx context.Context) error {
	unlock, err := d.locker.Lock(ctx, d.path)
	if err != nil {
		return err
	}
	defer unlock()

	exists, err := d.storage.Exists(d.path)
	if err != nil || !exists {
		return err
	}
	if err := d.storage.Remove(d.path); err != nil {
		return err
	}
	d.logger.Debug("database dropped", zap.String("path", d.path))
	return nil
}

// EnsureCollection adds an empty collection named name unless the database
// already has one. An empty database file is initialized first.
func (d *Database) EnsureCollection(ctx context.Context, name string) error {
	if name == "" {
		return domain.ErrCollectionName
	}

	unlock, err := d.locker.Lock(ctx, d.path)
	if err != nil {
		return err
	}
	defer unlock()

	data, err := d.read(ctx)
	if err != nil {
		return err
	}
	if _, ok := data[name]; ok {
		return nil
	}

	data[name] = make([]domain.Document, 0)
	if err := d.store.Write(ctx, d.path, data); err != nil {
		return err
	}
	d.logger.Debug("collection created", zap.String("path", d.path), zap.String("collection", name))
	return nil
}

// Collection ensures the collection exists and binds it with schema-less
// payloads.
func (d *Database) Collection(ctx context.Context, name string) (*collection.Collection[domain.M], error) {
	return Open[domain.M](ctx, d, name)
}

// Open ensures the collection exists and binds it with payloads of type T.
func Open[T any](ctx context.Context, d *Database, name string) (*collection.Collection[T], error) {
	if err := d.EnsureCollection(ctx, name); err != nil {
		return nil, err
	}
	return collection.New[T](name, d.path,
		collection.WithStore(d.store),
		collection.WithLocker(d.locker),
		collection.WithMatcher(d.matcher),
		collection.WithDecoder(d.decoder),
		collection.WithIDGenerator(d.idGenerator),
		collection.WithTimeGetter(d.timeGetter),
		collection.WithLogger(d.logger),
	), nil
}

// Collections returns the names of every collection in the database, sorted.
func (d *Database) Collections(ctx context.Context) ([]string, error) {
	unlock, err := d.locker.Lock(ctx, d.path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := d.read(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// read reads the database, considering an empty file as an empty database.
func (d *Database) read(ctx context.Context) (domain.Data, error) {
	data, err := d.store.Read(ctx, d.path)
	if errors.Is(err, domain.ErrEmptyFile) {
		return domain.Data{}, nil
	}
	return data, err
}
