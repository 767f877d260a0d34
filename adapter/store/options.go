package store

import (
	"os"

	"github.com/vinicius-lino-figueiredo/jsondb/domain"
	"go.uber.org/zap"
)

type config struct {
	storage      domain.Storage
	serializer   domain.Serializer
	deserializer domain.Deserializer
	fileMode     os.FileMode
	dirMode      os.FileMode
	logger       *zap.Logger
}

// WithStorage sets the storage implementation for low-level file operations.
func WithStorage(s domain.Storage) Option {
	return func(o *config) {
		if s != nil {
			o.storage = s
		}
	}
}

// WithSerializer sets the serializer for converting data to bytes.
func WithSerializer(s domain.Serializer) Option {
	return func(o *config) {
		if s != nil {
			o.serializer = s
		}
	}
}

// WithDeserializer sets the deserializer for converting bytes to data.
func WithDeserializer(d domain.Deserializer) Option {
	return func(o *config) {
		if d != nil {
			o.deserializer = d
		}
	}
}

// WithFileMode sets the file permissions for database files.
func WithFileMode(f os.FileMode) Option {
	return func(o *config) {
		o.fileMode = f
	}
}

// WithDirMode sets the directory permissions for database directories.
func WithDirMode(d os.FileMode) Option {
	return func(o *config) {
		o.dirMode = d
	}
}

// WithLogger sets the logger used to report write failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *config) {
		if l != nil {
			o.logger = l
		}
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*config)
