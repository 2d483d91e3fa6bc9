// SPDX-License-Identifier: MIT

package paoflow

import (
	"go.uber.org/zap"

	"github.com/kylincaster/PAOFLOW/berry"
	"github.com/kylincaster/PAOFLOW/epsilon"
)

// Option configures Run.
type Option func(*options)

type options struct {
	logger      *zap.Logger
	epsilonOpts []epsilon.Option
	berryOpts   []berry.Option
	skipEpsilon bool
	skipBerry   bool
}

// WithLogger sets the logger handed to every stage; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEpsilon appends options for the dielectric stage.
func WithEpsilon(opts ...epsilon.Option) Option {
	return func(o *options) { o.epsilonOpts = append(o.epsilonOpts, opts...) }
}

// WithBerry appends options for the curvature stage.
func WithBerry(opts ...berry.Option) Option {
	return func(o *options) { o.berryOpts = append(o.berryOpts, opts...) }
}

// WithoutDielectric skips the dielectric stage.
func WithoutDielectric() Option { return func(o *options) { o.skipEpsilon = true } }

// WithoutBerry skips the curvature stage.
func WithoutBerry() Option { return func(o *options) { o.skipBerry = true } }

func gatherOptions(opts ...Option) options {
	o := options{logger: zap.NewNop()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
