// SPDX-License-Identifier: MIT

// Package berry computes the band-resolved Berry curvature (yz component)
// from the band-basis momentum operator:
//
//	Ω[k,n] = Σ_{m≠n} −2·Im(p_y,nm·p_z,mn − p_z,nm·p_y,mn) / ((E_m − E_n)² + δb²)
//
// and its occupation-weighted sum per k-point using the zero-temperature
// factor ½·(1 − sign(E)), energies relative to the Fermi level.
//
// Compute partitions the points over a collective.Channel and assembles Ω on
// the coordinator; the aggregate is derived there.
package berry
