// SPDX-License-Identifier: MIT

// Package paoflow computes optical and Berry-curvature properties from a
// tight-binding (projected atomic orbital) Hamiltonian on a fixed pool of
// cooperating workers.
//
// What it does
//
//	Run executes three distributed stages over one collective.Pool:
//		• velocity: Fourier-interpolate dH/dk and project it onto the bands
//		• epsilon:  dielectric tensor, imaginary part plus Kramers–Kronig real part
//		• berry:    band-resolved and occupied-sum yz Berry curvature
//
// Packages
//
//	partition/   contiguous block partitioning of index ranges
//	collective/  in-process worker pool with broadcast/scatter/reduce
//	tensor/      dense N-d real and complex arrays
//	matrix/      dense matrices, sandwich products, Jacobi eigen solvers
//	velocity/    momentum operator p_op
//	epsilon/     dielectric tensor
//	berry/       Berry curvature
//	model/       tight-binding models and k-point generators
//	report/      text reports, optionally zstd or lz4 compressed
//
// The command paoflow-optics wires everything to a YAML run file.
//
// Quick example:
//
//	pool, _ := collective.NewPool(4)
//	in, _ := paoflow.InputFromModel(model.TwoBand(2, 0.2, 0.3, 0.3), pts, 0)
//	res, err := paoflow.Run(ctx, pool, in)
package paoflow
