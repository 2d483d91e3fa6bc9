// SPDX-License-Identifier: MIT

// Package model builds the inputs of the optics engines from a small
// tight-binding description: real-space Hamiltonian blocks H(R), their
// analytic k-derivatives, band energies and eigenvectors at arbitrary
// k-points, and k-point lines and meshes with uniform weights.
//
// Conventions:
//   - k-points are in reduced (fractional) coordinates, R in lattice units.
//   - H(k) = Σ_R H(R)·exp(i2π k·R); a Hopping at R implies its Hermitian
//     partner at −R, so H(k) is Hermitian for every k.
//   - dH_l(R) = i·2π·R_l·H(R), hence H'_l(k) = Σ_R dH_l(R)·exp(i2π k·R).
//   - Models are spinless; every tensor carries a spin axis of extent 1.
package model
