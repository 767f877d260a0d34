package database

import (
	"os"

	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"go.uber.org/zap"
)

type config struct {
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

// WithStorage sets the storage used to create and remove the database file.
// Unless [WithStore] is also used, the default store reads and writes through
// it as well.
func WithStorage(s domain.Storage) Option {
	return func(c *config) {
		if s != nil {
			c.storage = s
		}
	}
}

// WithStore sets the store used to read and write the database content.
func WithStore(s domain.Store) Option {
	return func(c *config) {
		if s != nil {
			c.store = s
		}
	}
}

// WithLocker sets the locker shared by every collection of the database.
func WithLocker(l domain.Locker) Option {
	return func(c *config) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithMatcher sets the matcher passed to collections.
func WithMatcher(m domain.Matcher) Option {
	return func(c *config) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithDecoder sets the decoder passed to collections.
func WithDecoder(d domain.Decoder) Option {
	return func(c *config) {
		if d != nil {
			c.decoder = d
		}
	}
}

// WithIDGenerator sets the id generator passed to collections.
func WithIDGenerator(ig domain.IDGenerator) Option {
	return func(c *config) {
		if ig != nil {
			c.idGenerator = ig
		}
	}
}

// WithTimeGetter sets the time getter passed to collections.
func WithTimeGetter(t domain.TimeGetter) Option {
	return func(c *config) {
		if t != nil {
			c.timeGetter = t
		}
	}
}

// WithFileMode sets the permissions of a newly created database file.
func WithFileMode(m os.FileMode) Option {
	return func(c *config) {
		c.fileMode = m
	}
}

// WithDirMode sets the permissions of newly created parent directories.
func WithDirMode(m os.FileMode) Option {
	return func(c *config) {
		c.dirMode = m
	}
}

// WithLogger sets the logger of the database and its collections.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*config)
