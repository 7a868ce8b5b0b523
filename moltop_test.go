/*
 * moltop_test.go, part of moltop.
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
	"testing"

	"github.com/rvallejo/moltop/unit"
)

func harmonicBond(name string, k, req float64) *BondType {
	return &BondType{PotForm: PotForm{
		Name:            name,
		Expression:      "k*(r-r_eq)**2",
		IndependentVars: []string{"r"},
		Params: Params{
			"k":    unit.NewQ(k, unit.KCalMol.Div(unit.Angstrom.Pow(2))),
			"r_eq": unit.NewQ(req, unit.Angstrom),
		},
	}}
}

func TestStructuralEquality(Te *testing.T) {
	a := harmonicBond("CT-CT", 268, 1.529)
	b := harmonicBond("CT-CT", 268, 1.529)
	b.Expression = "k * (r - r_eq)**2" //same thing, different spacing
	if !a.EqualForm(&b.PotForm) {
		Te.Error("whitespace should not break structural equality")
	}
	//the same value in other units is still equal
	c := harmonicBond("CT-CT", 268, 1.529)
	c.Params["r_eq"] = unit.NewQ(0.1529, unit.NM)
	if !a.EqualForm(&c.PotForm) {
		Te.Error("unit-normalized values should compare equal")
	}
	d := harmonicBond("CT-CT", 300, 1.529)
	if a.EqualForm(&d.PotForm) {
		Te.Error("different force constants should not compare equal")
	}
	if a.Key() != b.Key() || a.Key() == d.Key() {
		Te.Error("Key() disagrees with structural equality")
	}
}

func TestConnectionValidation(Te *testing.T) {
	at := &Atom{Name: "C1"}
	at2 := &Atom{Name: "C2"}
	if _, err := NewBond(at, at, nil); err == nil {
		Te.Error("a self-bond should be rejected")
	}
	if _, err := NewBond(at, nil, nil); err == nil {
		Te.Error("a nil member should be rejected")
	}
	b, err := NewBond(at, at2, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if b.Cross(at) != at2 {
		Te.Error("Cross returned the wrong atom")
	}
	if _, err := NewAngle(at, at2, at, nil); err == nil {
		Te.Error("duplicate members in an angle should be rejected")
	}
	at3 := &Atom{Name: "C3"}
	at4 := &Atom{Name: "C4"}
	d1, _ := NewDihedral(at, at2, at3, at4, nil)
	d2, _ := NewDihedral(at4, at3, at2, at, nil)
	if !d1.Equivalent(d2) {
		Te.Error("a dihedral and its reversal should be equivalent")
	}
}

// The unique-type views must not depend on insertion order.
func TestTypeViewsOrderIndependent(Te *testing.T) {
	mkTop := func(perm []int) *Topology {
		top := NewTopology("order")
		ats := make([]*Atom, 4)
		for i := range ats {
			ats[i] = &Atom{Name: "C"}
			top.AddAtom(ats[i])
		}
		types := []*BondType{
			harmonicBond("CT-HC", 340, 1.09),
			harmonicBond("CT-CT", 268, 1.529),
			harmonicBond("CT-OH", 320, 1.41),
		}
		types[0].MemberTypes = [2]string{"CT", "HC"}
		types[1].MemberTypes = [2]string{"CT", "CT"}
		types[2].MemberTypes = [2]string{"OH", "CT"} //reversed on purpose
		for i, pi := range perm {
			b, err := NewBond(ats[i], ats[(i+1)%4], types[pi])
			if err != nil {
				Te.Fatal(err)
			}
			top.AddBond(b)
		}
		return top
	}
	t1 := mkTop([]int{0, 1, 2})
	t2 := mkTop([]int{2, 0, 1})
	v1 := t1.BondTypes()
	v2 := t2.BondTypes()
	if len(v1) != 3 || len(v2) != 3 {
		Te.Fatalf("wrong view sizes: %d, %d", len(v1), len(v2))
	}
	for i := range v1 {
		if v1[i].Key() != v2[i].Key() {
			Te.Errorf("views disagree at %d: %s vs %s", i, v1[i].Name, v2[i].Name)
		}
	}
	//canonical order: member pairs sorted, (CT,CT) < (CT,HC) < (CT,OH)
	if v1[0].Name != "CT-CT" || v1[1].Name != "CT-HC" || v1[2].Name != "CT-OH" {
		Te.Errorf("wrong canonical order: %s %s %s", v1[0].Name, v1[1].Name, v1[2].Name)
	}
}

func TestTypeDedup(Te *testing.T) {
	top := NewTopology("dedup")
	ats := make([]*Atom, 3)
	for i := range ats {
		ats[i] = &Atom{Name: "C"}
		top.AddAtom(ats[i])
	}
	//two distinct records with the same content
	ta := harmonicBond("CT-CT", 268, 1.529)
	tb := harmonicBond("CT-CT", 268, 1.529)
	b1, _ := NewBond(ats[0], ats[1], ta)
	b2, _ := NewBond(ats[1], ats[2], tb)
	top.AddBond(b1)
	top.AddBond(b2)
	if n := len(top.BondTypes()); n != 1 {
		Te.Errorf("structurally equal records should deduplicate: got %d types", n)
	}
}

func TestDihedralTypeCanonicalMembers(Te *testing.T) {
	t1 := &DihedralType{MemberTypes: [4]string{"HC", "CT", "CT", "OH"}}
	t2 := &DihedralType{MemberTypes: [4]string{"OH", "CT", "CT", "HC"}}
	if t1.CanonMembers() != t2.CanonMembers() {
		Te.Errorf("reversal should canonicalize to the same members: %v vs %v",
			t1.CanonMembers(), t2.CanonMembers())
	}
	i1 := &ImproperType{MemberTypes: [4]string{"CA", "CT", "OH", "HC"}}
	i2 := &ImproperType{MemberTypes: [4]string{"CA", "OH", "HC", "CT"}}
	if i1.CanonMembers() != i2.CanonMembers() {
		Te.Error("improper outer members should sort")
	}
	if i1.CanonMembers()[0] != "CA" {
		Te.Error("improper central member must stay first")
	}
}
