package serializer

// WithIndent sets the string used to indent each nesting level.
func WithIndent(i string) Option {
	return func(s *Serializer) {
		s.indent = i
	}
}

// Option configures behavior through the functional options pattern.
type Option func(*Serializer)
