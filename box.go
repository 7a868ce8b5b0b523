/*
 * box.go, part of moltop.
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

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/rvallejo/moltop/unit"
)

// Box is a periodic simulation box: three edge lengths and the three angles
// between the edges (alpha between b and c, beta between a and c, gamma
// between a and b). An orthogonal box has all angles at 90 degrees.
type Box struct {
	Lengths [3]unit.Q
	Angles  [3]unit.Q
}

// NewBox returns an orthogonal box with the given edge lengths. Lengths must
// be positive.
func NewBox(lengths [3]unit.Q) (*Box, error) {
	right := unit.NewQ(90, unit.Deg)
	return NewTriclinicBox(lengths, [3]unit.Q{right, right, right})
}

// NewTriclinicBox returns a box with the given edge lengths and angles.
// Lengths must be positive and angles must lie strictly between 0 and 180
// degrees.
func NewTriclinicBox(lengths, angles [3]unit.Q) (*Box, error) {
	for _, l := range lengths {
		if l.Canon() <= 0 {
			return nil, NewCError("box lengths must be positive", "NewTriclinicBox")
		}
	}
	for _, a := range angles {
		r := a.Canon()
		if r <= 0 || r >= math.Pi {
			return nil, NewCError("box angles must be strictly between 0 and 180 degrees", "NewTriclinicBox")
		}
	}
	return &Box{Lengths: lengths, Angles: angles}, nil
}

// Orthogonal returns whether all three box angles are 90 degrees, within a
// small absolute tolerance.
func (B *Box) Orthogonal() bool {
	for _, a := range B.Angles {
		if !scalar.EqualWithinAbs(a.Canon(), math.Pi/2, 1e-9) {
			return false
		}
	}
	return true
}

// UnitVectors returns the 3x3 matrix whose rows are the unit vectors of the
// box edges, in the conventional orientation: the first edge along x, the
// second in the xy plane.
func (B *Box) UnitVectors() *mat.Dense {
	alpha := B.Angles[0].Canon()
	beta := B.Angles[1].Canon()
	gamma := B.Angles[2].Canon()
	cosa, cosb, cosg := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	sing := math.Sin(gamma)
	u3y := (cosa - cosb*cosg) / sing
	u3z := math.Sqrt(1 - cosb*cosb - u3y*u3y)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		cosg, sing, 0,
		cosb, u3y, u3z,
	})
}

// LammpsParams returns the prism representation of the box in the given
// length unit: the three edge projections lx, ly, lz and the tilt factors
// xy, xz, yz.
func (B *Box) LammpsParams(u unit.Unit) (lx, ly, lz, xy, xz, yz float64, err error) {
	a, err := B.Lengths[0].In(u)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, err
	}
	b, err := B.Lengths[1].In(u)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, err
	}
	c, err := B.Lengths[2].In(u)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, err
	}
	v := B.UnitVectors()
	lx = a * v.At(0, 0)
	xy = b * v.At(1, 0)
	ly = b * v.At(1, 1)
	xz = c * v.At(2, 0)
	yz = c * v.At(2, 1)
	lz = c * v.At(2, 2)
	return lx, ly, lz, xy, xz, yz, nil
}

// NewBoxFromBounds builds a box from the bound-plus-tilt representation of
// the data format. The six bounds are the values as they appear in the file
// header, i.e. already widened by the tilt factors; all nine numbers are
// taken to be in the unit u.
func NewBoxFromBounds(xlo, xhi, ylo, yhi, zlo, zhi, xy, xz, yz float64, u unit.Unit) (*Box, error) {
	//undo the bound widening before measuring the prism
	xlo -= math.Min(math.Min(0, xy), math.Min(xz, xy+xz))
	xhi -= math.Max(math.Max(0, xy), math.Max(xz, xy+xz))
	ylo -= math.Min(0, yz)
	yhi -= math.Max(0, yz)
	lx := xhi - xlo
	ly := yhi - ylo
	lz := zhi - zlo
	a := lx
	b := math.Sqrt(ly*ly + xy*xy)
	c := math.Sqrt(lz*lz + xz*xz + yz*yz)
	if a <= 0 || b <= 0 || c <= 0 {
		return nil, NewCError("box bounds yield non-positive edge lengths", "NewBoxFromBounds")
	}
	alpha := math.Acos((yz*ly + xy*xz) / (b * c))
	beta := math.Acos(xz / c)
	gamma := math.Acos(xy / b)
	return NewTriclinicBox(
		[3]unit.Q{unit.NewQ(a, u), unit.NewQ(b, u), unit.NewQ(c, u)},
		[3]unit.Q{unit.NewQ(alpha, unit.Rad), unit.NewQ(beta, unit.Rad), unit.NewQ(gamma, unit.Rad)})
}
