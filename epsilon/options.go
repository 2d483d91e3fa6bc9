// SPDX-License-Identifier: MIT

package epsilon

import (
	"math"

	"go.uber.org/zap"
)

// Physical defaults.
const (
	// DefaultDelta is the Gaussian broadening width in eV.
	DefaultDelta = 0.1

	// DefaultTemperature is k_B·T in eV (≈ room temperature).
	DefaultTemperature = 0.025

	// DefaultVolume is the cell volume Ω in the caller's units.
	DefaultVolume = 1.0

	// VacuumPermittivity is ε₀ in Rydberg atomic units.
	VacuumPermittivity = 1.0 / (4.0 * math.Pi)

	// EVToRy converts eV to Rydberg.
	EVToRy = 1.0 / 13.605693009
)

const (
	panicDeltaInvalid  = "epsilon: WithDelta: delta must be finite, > 0"
	panicTempInvalid   = "epsilon: WithTemperature: temp must be finite, >= 0"
	panicSpinInvalid   = "epsilon: WithSpin: spin must be >= 0"
	panicVolumeInvalid = "epsilon: WithVolume: volume must be finite, > 0"
	panicUnitsInvalid  = "epsilon: WithPrefactorUnits: constants must be finite, > 0"
	panicGridInvalid   = "epsilon: WithGrid: "
)

// Option configures the dielectric engine.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	grid   Grid
	delta  float64
	temp   float64
	spin   int
	volume float64
	eps0   float64
	evToRy float64
	logger *zap.Logger
}

// WithGrid overrides the frequency grid. Panics when the grid is invalid.
func WithGrid(emin, emax float64, samples int) Option {
	g := Grid{Emin: emin, Emax: emax, Samples: samples}
	if err := g.Validate(); err != nil {
		panic(panicGridInvalid + err.Error())
	}

	return func(o *Options) { o.grid = g }
}

// WithDelta sets the broadening width.
func WithDelta(delta float64) Option {
	if !isFinite(delta) || delta <= 0 {
		panic(panicDeltaInvalid)
	}

	return func(o *Options) { o.delta = delta }
}

// WithTemperature sets k_B·T in eV. Zero selects step occupations.
func WithTemperature(temp float64) Option {
	if !isFinite(temp) || temp < 0 {
		panic(panicTempInvalid)
	}

	return func(o *Options) { o.temp = temp }
}

// WithSpin selects the spin channel the tensor is computed for.
func WithSpin(spin int) Option {
	if spin < 0 {
		panic(panicSpinInvalid)
	}

	return func(o *Options) { o.spin = spin }
}

// WithVolume sets the cell volume Ω of the prefactor.
func WithVolume(volume float64) Option {
	if !isFinite(volume) || volume <= 0 {
		panic(panicVolumeInvalid)
	}

	return func(o *Options) { o.volume = volume }
}

// WithPrefactorUnits overrides ε₀ and the eV→Ry factor of the prefactor.
func WithPrefactorUnits(eps0, evToRy float64) Option {
	if !isFinite(eps0) || eps0 <= 0 || !isFinite(evToRy) || evToRy <= 0 {
		panic(panicUnitsInvalid)
	}

	return func(o *Options) { o.eps0, o.evToRy = eps0, evToRy }
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// prefactor is 4π/(ε₀·EVTORY·Ω).
func (o Options) prefactor() float64 {
	return 4.0 * math.Pi / (o.eps0 * o.evToRy * o.volume)
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		grid:   DefaultGrid(),
		delta:  DefaultDelta,
		temp:   DefaultTemperature,
		volume: DefaultVolume,
		eps0:   VacuumPermittivity,
		evToRy: EVToRy,
		logger: zap.NewNop(),
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
