/*
 * connections.go, part of moltop.
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

// A connection is an ordered, fixed-arity tuple of distinct atoms plus an
// optional type record. Member order is semantically significant: it defines
// the topology (i-j-k-l for a dihedral), even though a dihedral and its
// reverse describe the same physical interaction.

// Bond is a 2-membered connection.
type Bond struct {
	At1, At2 *Atom
	Type     *BondType
}

// NewBond returns a bond between a and b. It returns an error if both
// members are the same atom.
func NewBond(a, b *Atom, t *BondType) (*Bond, error) {
	if a == nil || b == nil {
		return nil, NewCError("nil atom given", "NewBond")
	}
	if a == b {
		return nil, NewCError("can't bond an atom to itself", "NewBond")
	}
	return &Bond{At1: a, At2: b, Type: t}, nil
}

// Members returns the member atoms, in order.
func (B *Bond) Members() []*Atom { return []*Atom{B.At1, B.At2} }

// Cross returns the atom of the bond that is not origin. Panics if origin is
// not part of the bond, as that got to be a programming error.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!")
}

// Angle is a 3-membered connection. At2 is the central atom.
type Angle struct {
	At1, At2, At3 *Atom
	Type          *AngleType
}

// NewAngle returns an angle over the given atoms, central atom second. It
// returns an error if any two members are the same atom.
func NewAngle(a, b, c *Atom, t *AngleType) (*Angle, error) {
	if a == nil || b == nil || c == nil {
		return nil, NewCError("nil atom given", "NewAngle")
	}
	if a == b || a == c || b == c {
		return nil, NewCError("an angle requires three distinct atoms", "NewAngle")
	}
	return &Angle{At1: a, At2: b, At3: c, Type: t}, nil
}

// Members returns the member atoms, in order.
func (A *Angle) Members() []*Atom { return []*Atom{A.At1, A.At2, A.At3} }

// Dihedral is a 4-membered proper torsion i-j-k-l around the j-k axis.
type Dihedral struct {
	At1, At2, At3, At4 *Atom
	Type               *DihedralType
}

// NewDihedral returns a dihedral over the given atoms. It returns an error
// if any two members are the same atom.
func NewDihedral(a, b, c, d *Atom, t *DihedralType) (*Dihedral, error) {
	if a == nil || b == nil || c == nil || d == nil {
		return nil, NewCError("nil atom given", "NewDihedral")
	}
	if a == b || a == c || a == d || b == c || b == d || c == d {
		return nil, NewCError("a dihedral requires four distinct atoms", "NewDihedral")
	}
	return &Dihedral{At1: a, At2: b, At3: c, At4: d, Type: t}, nil
}

// Members returns the member atoms, in order.
func (D *Dihedral) Members() []*Atom { return []*Atom{D.At1, D.At2, D.At3, D.At4} }

// Equivalent returns whether D and other describe the same physical torsion,
// i.e. the same members in the same or exactly reversed order.
func (D *Dihedral) Equivalent(other *Dihedral) bool {
	if other == nil {
		return false
	}
	if D.At1 == other.At1 && D.At2 == other.At2 && D.At3 == other.At3 && D.At4 == other.At4 {
		return true
	}
	return D.At1 == other.At4 && D.At2 == other.At3 && D.At3 == other.At2 && D.At4 == other.At1
}

// Improper is a 4-membered out-of-plane term. At1 is the central atom.
type Improper struct {
	At1, At2, At3, At4 *Atom
	Type               *ImproperType
}

// NewImproper returns an improper over the given atoms, central atom first.
// It returns an error if any two members are the same atom.
func NewImproper(a, b, c, d *Atom, t *ImproperType) (*Improper, error) {
	if a == nil || b == nil || c == nil || d == nil {
		return nil, NewCError("nil atom given", "NewImproper")
	}
	if a == b || a == c || a == d || b == c || b == d || c == d {
		return nil, NewCError("an improper requires four distinct atoms", "NewImproper")
	}
	return &Improper{At1: a, At2: b, At3: c, At4: d, Type: t}, nil
}

// Members returns the member atoms, in order.
func (I *Improper) Members() []*Atom { return []*Atom{I.At1, I.At2, I.At3, I.At4} }
