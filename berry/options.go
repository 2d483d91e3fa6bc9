// SPDX-License-Identifier: MIT

package berry

import (
	"math"

	"go.uber.org/zap"
)

// DefaultDeltaB regularizes near-degenerate band pairs, in eV.
const DefaultDeltaB = 0.05

const (
	panicDeltaBInvalid = "berry: WithDeltaB: deltaB must be finite, > 0"
	panicSpinInvalid   = "berry: WithSpin: spin must be >= 0"
)

// Option configures the curvature engine.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	deltaB float64
	spin   int
	logger *zap.Logger
}

// WithDeltaB sets the denominator regularization δb.
func WithDeltaB(deltaB float64) Option {
	if math.IsNaN(deltaB) || math.IsInf(deltaB, 0) || deltaB <= 0 {
		panic(panicDeltaBInvalid)
	}

	return func(o *Options) { o.deltaB = deltaB }
}

// WithSpin selects the spin channel.
func WithSpin(spin int) Option {
	if spin < 0 {
		panic(panicSpinInvalid)
	}

	return func(o *Options) { o.spin = spin }
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

func gatherOptions(opts ...Option) Options {
	o := Options{deltaB: DefaultDeltaB, logger: zap.NewNop()}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}
