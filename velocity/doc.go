// SPDX-License-Identifier: MIT

// Package velocity computes the band-basis momentum (velocity) operator on an
// arbitrary list of k-points.
//
// Two steps:
//
//  1. Fourier interpolation of the real-space Hamiltonian derivative,
//     partitioned over k-points:
//
//     Hk[l,a,b,p,s] = Σ_R dH[l,a,b,R,s] · exp(i·2π·k_p·R)
//
//  2. After a root-only reduction, projection into the eigenvector basis on
//     the coordinator:
//
//     p[p,l,:,:,s] = v(p,s)ᴴ · Hk[l,:,:,p,s] · v(p,s)
//
// k_p and R must share a convention (fractional k with integer lattice
// vectors, or Cartesian k in units of 2π/alat with Cartesian R in alat);
// the phase is evaluated as given.
package velocity
