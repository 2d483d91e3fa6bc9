// SPDX-License-Identifier: MIT

package epsilon

// Test bridge for the occupation kernels and the prefactor.
var (
	Occupation      = occupation
	OccupationSlope = occupationSlope
)

// PrefactorOf returns 4π/(ε₀·EVTORY·Ω) for the given options.
func PrefactorOf(opts ...Option) float64 { return gatherOptions(opts...).prefactor() }
