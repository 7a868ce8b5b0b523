/*
 * elements.go, part of moltop.
 *
 * Copyright 2024 The moltop developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package moltop

import "math"

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"O":  15.999,
	"N":  14.007,
	"P":  30.974,
	"S":  32.06,
	"Se": 78.971,
	"K":  39.098,
	"Ca": 40.078,
	"Mg": 24.305,
	"Cl": 35.45,
	"Na": 22.990,
	"Cu": 63.546,
	"Zn": 65.38,
	"Co": 58.933,
	"Fe": 55.845,
	"Mn": 54.938,
	"Cr": 51.996,
	"Si": 28.085,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.904,
	"B":  10.81,
	"Li": 6.94,
	"Al": 26.982,
	"Ar": 39.95,
	"He": 4.003,
	"Ne": 20.180,
}

// SymbolMass returns the atomic mass in g/mol of the element with the given
// symbol, or 0 and false if the symbol is not tabulated.
func SymbolMass(symbol string) (float64, bool) {
	m, ok := symbolMass[symbol]
	return m, ok
}

// ElementByMass returns the symbol of the tabulated element closest in mass
// to the given value (in g/mol), provided the difference is within 0.1. It
// returns an empty string when no tabulated element is close enough, which
// is normal for coarse-grained or united-atom masses.
func ElementByMass(mass float64) string {
	best := ""
	bestd := 0.1
	for s, m := range symbolMass {
		if d := math.Abs(m - mass); d < bestd {
			best = s
			bestd = d
		}
	}
	return best
}
