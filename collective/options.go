// SPDX-License-Identifier: MIT

package collective

import "go.uber.org/zap"

// Option configures a Pool.
type Option func(*Options)

// Options holds the effective Pool configuration.
type Options struct {
	logger *zap.Logger
}

// WithLogger attaches a logger; collectives are logged at debug level.
// A nil logger keeps the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts ...Option) Options {
	o := Options{logger: zap.NewNop()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
