// SPDX-License-Identifier: MIT

package epsilon

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Default frequency grid, in eV.
const (
	DefaultEmin    = 0.1
	DefaultEmax    = 10.0
	DefaultSamples = 500
)

// Grid is the linear frequency axis shared read-only by every worker:
// ene[i] = Emin + i·(Emax−Emin)/Samples for i in [0, Samples). Emax itself
// is excluded.
type Grid struct {
	Emin    float64 `yaml:"emin"`
	Emax    float64 `yaml:"emax"`
	Samples int     `yaml:"samples"`
}

// DefaultGrid returns the 0.1..10 eV, 500-sample grid.
func DefaultGrid() Grid {
	return Grid{Emin: DefaultEmin, Emax: DefaultEmax, Samples: DefaultSamples}
}

// Validate checks 0 < Emin < Emax (finite) and Samples >= 2.
// Emin must be positive because the intraband term divides by ω.
func (g Grid) Validate() error {
	switch {
	case math.IsNaN(g.Emin) || math.IsInf(g.Emin, 0) || math.IsNaN(g.Emax) || math.IsInf(g.Emax, 0):
		return fmt.Errorf("bounds [%g,%g) not finite: %w", g.Emin, g.Emax, ErrInvalidGrid)
	case g.Emin <= 0:
		return fmt.Errorf("emin %g must be > 0: %w", g.Emin, ErrInvalidGrid)
	case g.Emax <= g.Emin:
		return fmt.Errorf("emax %g must exceed emin %g: %w", g.Emax, g.Emin, ErrInvalidGrid)
	case g.Samples < 2:
		return fmt.Errorf("samples %d must be >= 2: %w", g.Samples, ErrInvalidGrid)
	}

	return nil
}

// Step returns the grid spacing.
func (g Grid) Step() float64 { return (g.Emax - g.Emin) / float64(g.Samples) }

// Values materializes the grid.
func (g Grid) Values() []float64 {
	ene := make([]float64, g.Samples)
	floats.Span(ene, g.Emin, g.Emin+float64(g.Samples-1)*g.Step())

	return ene
}
