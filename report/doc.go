// SPDX-License-Identifier: MIT

// Package report writes the coordinator's plain-text result files:
// index/value columns for per-point quantities (Berry curvature) and
// energy-plus-nine-component tables for the dielectric tensor.
//
// Create opens a file for writing and transparently compresses it when the
// path ends in ".zst" (zstd) or ".lz4" (lz4 frames).
package report
