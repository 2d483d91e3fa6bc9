// SPDX-License-Identifier: MIT

package model

// Chain is a one-orbital nearest-neighbour chain along x:
// E(k) = onsite + 2t·cos(2πk_x).
func Chain(onsite, t float64) *Model {
	return &Model{
		Name:     "chain",
		Onsite:   []float64{onsite},
		Hoppings: []Hopping{{R: [3]int{1, 0, 0}, From: 0, To: 0, Re: t}},
	}
}

// TwoBand is a gapped two-orbital cubic model. Orbitals sit at ∓gap/2 and
// disperse oppositely along x; the y hopping is real and the z hopping
// imaginary, so the interband momenta along y and z do not commute and the
// yz Berry curvature is finite.
func TwoBand(gap, tx, ty, tz float64) *Model {
	return &Model{
		Name:   "two-band",
		Onsite: []float64{-gap / 2, gap / 2},
		Hoppings: []Hopping{
			{R: [3]int{1, 0, 0}, From: 0, To: 0, Re: -tx},
			{R: [3]int{1, 0, 0}, From: 1, To: 1, Re: tx},
			{R: [3]int{0, 1, 0}, From: 0, To: 1, Re: ty},
			{R: [3]int{0, 0, 1}, From: 0, To: 1, Im: -tz},
		},
	}
}

// Presets maps the names accepted by ByName.
var Presets = map[string]func() *Model{
	"chain":    func() *Model { return Chain(0, -1) },
	"two-band": func() *Model { return TwoBand(2, 0.2, 0.3, 0.3) },
}

// ByName returns a fresh preset model, or false when name is unknown.
func ByName(name string) (*Model, bool) {
	build, ok := Presets[name]
	if !ok {
		return nil, false
	}

	return build(), true
}
