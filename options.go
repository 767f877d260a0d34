package jsondb

import (
	"io"
	"os"

	"github.com/vinicius-lino-figueiredo/jsondb/adapter/database"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/deserializer"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/idgenerator"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/locker"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/serializer"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/storage"
	"github.com/vinicius-lino-figueiredo/jsondb/adapter/store"
	"go.uber.org/zap"
)

type config struct {
	fileMode     os.FileMode
	dirMode      os.FileMode
	storage      Storage
	store        Store
	serializer   Serializer
	deserializer Deserializer
	indent       *string
	locker       Locker
	matcher      Matcher
	decoder      Decoder
	idGenerator  IDGenerator
	randomReader io.Reader
	timeGetter   TimeGetter
	logger       *zap.Logger
}

func newConfig(options ...Option) config {
	cfg := config{
		fileMode: store.DefaultFileMode,
		dirMode:  store.DefaultDirMode,
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(&cfg)
	}
	return cfg
}

// databaseOptions builds the components shared by every database of a client.
func (c config) databaseOptions() []database.Option {
	if c.storage == nil {
		c.storage = storage.NewStorage()
	}
	if c.locker == nil {
		c.locker = locker.NewLocker()
	}
	if c.idGenerator == nil && c.randomReader != nil {
		c.idGenerator = idgenerator.NewIDGenerator(idgenerator.WithReader(c.randomReader))
	}
	if c.store == nil {
		if c.serializer == nil {
			var opts []serializer.Option
			if c.indent != nil {
				opts = append(opts, serializer.WithIndent(*c.indent))
			}
			c.serializer = serializer.NewSerializer(opts...)
		}
		if c.deserializer == nil {
			c.deserializer = deserializer.NewDeserializer()
		}
		c.store = store.NewFileStore(
			store.WithStorage(c.storage),
			store.WithSerializer(c.serializer),
			store.WithDeserializer(c.deserializer),
			store.WithFileMode(c.fileMode),
			store.WithDirMode(c.dirMode),
			store.WithLogger(c.logger),
		)
	}

	return []database.Option{
		database.WithStorage(c.storage),
		database.WithStore(c.store),
		database.WithLocker(c.locker),
		database.WithMatcher(c.matcher),
		database.WithDecoder(c.decoder),
		database.WithIDGenerator(c.idGenerator),
		database.WithTimeGetter(c.timeGetter),
		database.WithFileMode(c.fileMode),
		database.WithDirMode(c.dirMode),
		database.WithLogger(c.logger),
	}
}

// Option configures client behavior through the functional options pattern.
type Option func(*config)

// WithFileMode sets the file permissions for database files.
func WithFileMode(f os.FileMode) Option {
	return func(c *config) { c.fileMode = f }
}

// WithDirMode sets the directory permissions for database directories.
func WithDirMode(d os.FileMode) Option {
	return func(c *config) { c.dirMode = d }
}

// WithStorage sets the storage implementation for low-level file operations.
func WithStorage(s Storage) Option {
	return func(c *config) { c.storage = s }
}

// WithStore sets the store implementation for reading and writing databases.
// Options related to serialization are ignored when it is set.
func WithStore(s Store) Option {
	return func(c *config) { c.store = s }
}

// WithSerializer sets the serializer for converting data to bytes.
func WithSerializer(s Serializer) Option {
	return func(c *config) { c.serializer = s }
}

// WithDeserializer sets the deserializer for converting bytes to data.
func WithDeserializer(d Deserializer) Option {
	return func(c *config) { c.deserializer = d }
}

// WithIndent sets the indentation used in database files. Four spaces are used
// by default and an empty string writes the whole database in a single line.
func WithIndent(i string) Option {
	return func(c *config) { c.indent = &i }
}

// WithLocker sets the locker guarding every database file of the client.
func WithLocker(l Locker) Option {
	return func(c *config) { c.locker = l }
}

// WithMatcher sets the matcher implementation for filter evaluation.
func WithMatcher(m Matcher) Option {
	return func(c *config) { c.matcher = m }
}

// WithDecoder sets the decoder for payload conversions.
func WithDecoder(d Decoder) Option {
	return func(c *config) { c.decoder = d }
}

// WithIDGenerator sets the idgenerator to create new document ids.
func WithIDGenerator(ig IDGenerator) Option {
	return func(c *config) { c.idGenerator = ig }
}

// WithRandomReader sets the reader to be used by the IDGenerator.
func WithRandomReader(r io.Reader) Option {
	return func(c *config) { c.randomReader = r }
}

// WithTimeGetter sets the time getter for timestamping operations.
func WithTimeGetter(t TimeGetter) Option {
	return func(c *config) { c.timeGetter = t }
}

// WithLogger sets the logger for operations and write failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
