package collection

import (
	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"go.uber.org/zap"
)

type config struct {
	store       domain.Store
	locker      domain.Locker
	matcher     domain.Matcher
	decoder     domain.Decoder
	idGenerator domain.IDGenerator
	timeGetter  domain.TimeGetter
	logger      *zap.Logger
}

// WithStore sets the store used to read and write the database.
func WithStore(s domain.Store) Option {
	return func(c *config) {
		if s != nil {
			c.store = s
		}
	}
}

// WithLocker sets the locker guarding each read-modify-write cycle. Every
// collection bound to the same file should share the same locker.
func WithLocker(l domain.Locker) Option {
	return func(c *config) {
		if l != nil {
			c.locker = l
		}
	}
}

// WithMatcher sets the matcher implementation for filter evaluation.
func WithMatcher(m domain.Matcher) Option {
	return func(c *config) {
		if m != nil {
			c.matcher = m
		}
	}
}

// WithDecoder sets the decoder for payload conversions.
func WithDecoder(d domain.Decoder) Option {
	return func(c *config) {
		if d != nil {
			c.decoder = d
		}
	}
}

// WithIDGenerator sets the generator of new document ids.
func WithIDGenerator(ig domain.IDGenerator) Option {
	return func(c *config) {
		if ig != nil {
			c.idGenerator = ig
		}
	}
}

// WithTimeGetter sets the time getter for timestamping operations.
func WithTimeGetter(t domain.TimeGetter) Option {
	return func(c *config) {
		if t != nil {
			c.timeGetter = t
		}
	}
}

// WithLogger sets the logger receiving one debug entry per operation.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*config)
