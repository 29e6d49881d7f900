package eventdispatch

import (
	"log/slog"

	"github.com/google/uuid"
)

type options struct {
	id     string
	logger *slog.Logger
}

// Option configures a Machine during construction.
type Option func(*options)

// WithLogger makes the machine log state changes and dispatches to logger.
// Without it the machine does not log.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithID sets the machine id used in spans, metrics and logs instead of a random UUID.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

func applyOptions(opts []Option) options {
	o := options{}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.id == "" {
		o.id = uuid.NewString()
	}

	return o
}
