// SPDX-License-Identifier: MIT

package model

import "fmt"

// Line returns n points from `from` to `to`, both endpoints included.
// n == 1 yields just `from`.
func Line(from, to [3]float64, n int) ([][3]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("Line: n=%d must be >= 1: %w", n, ErrInvalidModel)
	}
	pts := make([][3]float64, n)
	for i := range pts {
		var f float64
		if n > 1 {
			f = float64(i) / float64(n-1)
		}
		for a := 0; a < 3; a++ {
			pts[i][a] = from[a] + f*(to[a]-from[a])
		}
	}

	return pts, nil
}

// Mesh returns the n1×n2×n3 Monkhorst–Pack-style grid i/n_a in reduced
// coordinates, the last axis fastest.
func Mesh(n1, n2, n3 int) ([][3]float64, error) {
	if n1 < 1 || n2 < 1 || n3 < 1 {
		return nil, fmt.Errorf("Mesh: %dx%dx%d: %w", n1, n2, n3, ErrInvalidModel)
	}
	pts := make([][3]float64, 0, n1*n2*n3)
	for i := 0; i < n1; i++ {
		for j := 0; j < n2; j++ {
			for k := 0; k < n3; k++ {
				pts = append(pts, [3]float64{
					float64(i) / float64(n1),
					float64(j) / float64(n2),
					float64(k) / float64(n3),
				})
			}
		}
	}

	return pts, nil
}

// UniformWeights returns n weights of 1/n.
func UniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}

	return w
}
