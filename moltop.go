/*
 * moltop.go, part of moltop.
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
	"fmt"
	"sort"

	"github.com/rvallejo/moltop/unit"
)

/**Note: Some functions here panic instead of returning errors. This is
 * because they are "fundamental" functions: if something goes wrong there,
 * the program is way-most likely wrong and should crash. The panics are
 * related to using a function on a nil object or accessing out-of-bounds
 * fields.**/

// Atom represents one site of a topology: a point with a position, an
// optional charge, an optional typed non-bonded interaction record and an
// optional molecule assignment. Positions and charges carry their units.
type Atom struct {
	Name    string
	Index   int //0-based position in the owning topology
	MolID   int
	MolName string
	Symbol  string //chemical element, when one could be assigned
	Pos     [3]unit.Q
	Charge  unit.Q
	Type    *AtomType
}

// Copy returns a copy of the Atom object. The type record is shared, not
// copied, as types are never mutated after attachment.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	newat := new(Atom)
	*newat = *A
	return newat
}

// Topology contains the atoms, connections, type records and box of a
// molecular system. It is exclusively owned by the caller for the duration
// of any read or write call that consumes it.
type Topology struct {
	Name      string
	Atoms     []*Atom
	Bonds     []*Bond
	Angles    []*Angle
	Dihedrals []*Dihedral
	Impropers []*Improper
	Box       *Box
}

// NewTopology returns an empty topology with the given name.
func NewTopology(name string) *Topology {
	return &Topology{Name: name}
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

// Atom returns the Atom corresponding to the index i of the Atom slice in
// the Topology. Panics if out of range.
func (T *Topology) Atom(i int) *Atom {
	if i < 0 || i >= T.Len() {
		panic("Topology: Requested Atom out of bounds")
	}
	return T.Atoms[i]
}

// AddAtom appends an atom at the end of the topology and records its index.
func (T *Topology) AddAtom(at *Atom) {
	if at == nil {
		panic("Topology: Attempted to add a nil atom")
	}
	at.Index = len(T.Atoms)
	T.Atoms = append(T.Atoms, at)
}

// AddBond, AddAngle, AddDihedral and AddImproper append a connection to the
// corresponding slice. The connection members must already belong to the
// topology.
func (T *Topology) AddBond(b *Bond)         { T.Bonds = append(T.Bonds, b) }
func (T *Topology) AddAngle(a *Angle)       { T.Angles = append(T.Angles, a) }
func (T *Topology) AddDihedral(d *Dihedral) { T.Dihedrals = append(T.Dihedrals, d) }
func (T *Topology) AddImproper(i *Improper) { T.Impropers = append(T.Impropers, i) }

// FullyTyped returns whether every atom and every connection carries a type
// record.
func (T *Topology) FullyTyped() bool {
	for _, at := range T.Atoms {
		if at.Type == nil {
			return false
		}
	}
	for _, b := range T.Bonds {
		if b.Type == nil {
			return false
		}
	}
	for _, a := range T.Angles {
		if a.Type == nil {
			return false
		}
	}
	for _, d := range T.Dihedrals {
		if d.Type == nil {
			return false
		}
	}
	for _, i := range T.Impropers {
		if i.Type == nil {
			return false
		}
	}
	return true
}

/*The unique-type views. They deduplicate by structural equality (see
types.go) and sort by a fixed content-derived key, so the result does not
depend on the order in which atoms or connections were added. The codec
relies on this to produce byte-identical output for permuted input.*/

// AtomTypes returns the unique atom types of the topology, sorted by name.
func (T *Topology) AtomTypes() []*AtomType {
	seen := make(map[string]*AtomType)
	ret := make([]*AtomType, 0, 5)
	for _, at := range T.Atoms {
		if at.Type == nil {
			continue
		}
		if _, ok := seen[at.Type.Name]; !ok {
			seen[at.Type.Name] = at.Type
			ret = append(ret, at.Type)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// AtomTypeIndex returns the 0-based position of the atom type named name in
// the canonical AtomTypes view, or -1.
func (T *Topology) AtomTypeIndex(name string) int {
	for i, t := range T.AtomTypes() {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// BondTypes returns the unique bond types, sorted by the sorted pair of
// member-type names.
func (T *Topology) BondTypes() []*BondType {
	seen := make(map[string]*BondType)
	ret := make([]*BondType, 0, 5)
	for _, b := range T.Bonds {
		if b.Type == nil {
			continue
		}
		k := b.Type.Key()
		if _, ok := seen[k]; !ok {
			seen[k] = b.Type
			ret = append(ret, b.Type)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].SortKey() < ret[j].SortKey() })
	return ret
}

// AngleTypes returns the unique angle types, sorted by (central member,
// smaller outer member, larger outer member).
func (T *Topology) AngleTypes() []*AngleType {
	seen := make(map[string]*AngleType)
	ret := make([]*AngleType, 0, 5)
	for _, a := range T.Angles {
		if a.Type == nil {
			continue
		}
		k := a.Type.Key()
		if _, ok := seen[k]; !ok {
			seen[k] = a.Type
			ret = append(ret, a.Type)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].SortKey() < ret[j].SortKey() })
	return ret
}

// DihedralTypes returns the unique dihedral types in canonical order.
func (T *Topology) DihedralTypes() []*DihedralType {
	seen := make(map[string]*DihedralType)
	ret := make([]*DihedralType, 0, 5)
	for _, d := range T.Dihedrals {
		if d.Type == nil {
			continue
		}
		k := d.Type.Key()
		if _, ok := seen[k]; !ok {
			seen[k] = d.Type
			ret = append(ret, d.Type)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].SortKey() < ret[j].SortKey() })
	return ret
}

// ImproperTypes returns the unique improper types in canonical order.
func (T *Topology) ImproperTypes() []*ImproperType {
	seen := make(map[string]*ImproperType)
	ret := make([]*ImproperType, 0, 5)
	for _, im := range T.Impropers {
		if im.Type == nil {
			continue
		}
		k := im.Type.Key()
		if _, ok := seen[k]; !ok {
			seen[k] = im.Type
			ret = append(ret, im.Type)
		}
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].SortKey() < ret[j].SortKey() })
	return ret
}

func (T *Topology) String() string {
	return fmt.Sprintf("Topology %s: %d atoms, %d bonds, %d angles, %d dihedrals, %d impropers",
		T.Name, len(T.Atoms), len(T.Bonds), len(T.Angles), len(T.Dihedrals), len(T.Impropers))
}
