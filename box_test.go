/*
 * box_test.go, part of moltop.
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
	"testing"

	"github.com/rvallejo/moltop/unit"
)

func TestBoxValidation(Te *testing.T) {
	l := unit.NewQ(10, unit.Angstrom)
	if _, err := NewBox([3]unit.Q{l, unit.NewQ(-1, unit.Angstrom), l}); err == nil {
		Te.Error("negative lengths should be rejected")
	}
	bad := unit.NewQ(200, unit.Deg)
	if _, err := NewTriclinicBox([3]unit.Q{l, l, l}, [3]unit.Q{bad, bad, bad}); err == nil {
		Te.Error("angles outside (0,180) should be rejected")
	}
	b, err := NewBox([3]unit.Q{l, l, l})
	if err != nil {
		Te.Fatal(err)
	}
	if !b.Orthogonal() {
		Te.Error("NewBox should produce an orthogonal box")
	}
}

func TestTriclinicBoundsRoundTrip(Te *testing.T) {
	lengths := [3]unit.Q{
		unit.NewQ(30.0, unit.Angstrom),
		unit.NewQ(28.5, unit.Angstrom),
		unit.NewQ(31.2, unit.Angstrom),
	}
	angles := [3]unit.Q{
		unit.NewQ(85.0, unit.Deg),
		unit.NewQ(95.0, unit.Deg),
		unit.NewQ(78.0, unit.Deg),
	}
	box, err := NewTriclinicBox(lengths, angles)
	if err != nil {
		Te.Fatal(err)
	}
	lx, ly, lz, xy, xz, yz, err := box.LammpsParams(unit.Angstrom)
	if err != nil {
		Te.Fatal(err)
	}
	Te.Logf("prism: lx=%v ly=%v lz=%v xy=%v xz=%v yz=%v", lx, ly, lz, xy, xz, yz)
	//widen the bounds the way the file format does, then read them back
	xlo := math.Min(math.Min(0, xy), math.Min(xz, xy+xz))
	xhi := lx + math.Max(math.Max(0, xy), math.Max(xz, xy+xz))
	ylo := math.Min(0, yz)
	yhi := ly + math.Max(0, yz)
	back, err := NewBoxFromBounds(xlo, xhi, ylo, yhi, 0, lz, xy, xz, yz, unit.Angstrom)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if d := math.Abs(back.Lengths[i].Canon() - lengths[i].Canon()); d > 1e-6 {
			Te.Errorf("length %d off by %v", i, d)
		}
		if d := math.Abs(back.Angles[i].Canon() - angles[i].Canon()); d > 1e-6 {
			Te.Errorf("angle %d off by %v", i, d)
		}
	}
}

func TestOrthogonalBounds(Te *testing.T) {
	box, err := NewBoxFromBounds(0, 10, 0, 20, 0, 30, 0, 0, 0, unit.Angstrom)
	if err != nil {
		Te.Fatal(err)
	}
	if !box.Orthogonal() {
		Te.Error("zero tilts should give an orthogonal box")
	}
	want := []float64{10, 20, 30}
	for i, w := range want {
		if math.Abs(box.Lengths[i].Canon()-w) > 1e-9 {
			Te.Errorf("length %d: got %v, want %v", i, box.Lengths[i].Canon(), w)
		}
	}
}
