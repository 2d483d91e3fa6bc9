// SPDX-License-Identifier: MIT

// Package epsilon computes the frequency-dependent dielectric tensor from
// band energies and the band-basis momentum operator.
//
// Phase 1 (parallel over k-points): the imaginary part is accumulated into a
// (3,3,F) tensor from
//
//   - an intraband (Drude-like) term, Gaussian-broadened around zero energy
//     transfer and weighted by the thermal occupation derivative
//     ½·1/(1+cosh(E/T))/T, and
//   - an interband term for every ordered band pair n≠m, Gaussian-broadened
//     around E_m−E_n and weighted by f(E_n)−f(E_m)·1/(ω²+δ²),
//
// then all-reduced and scaled by 4π/(ε₀·EVTORY·Ω).
//
// Phase 2 (parallel over frequencies): the real part follows from a
// discretized Kramers–Kronig sum that skips the grid points ie-1, ie and
// ie+1 around the singularity, all-reduced, plus the vacuum baseline 1.
//
// Energies are relative to the Fermi level (the caller shifts them).
package epsilon
