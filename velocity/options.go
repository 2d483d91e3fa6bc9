// SPDX-License-Identifier: MIT

package velocity

import "go.uber.org/zap"

// Option configures Compute.
type Option func(*Options)

// Options holds the effective Compute configuration.
type Options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for phase timing; nil is ignored.
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
