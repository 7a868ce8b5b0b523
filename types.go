/*
 * types.go, part of moltop.
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
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/rvallejo/moltop/unit"
)

// Params maps parameter names of a functional form to physical quantities.
type Params map[string]unit.Q

// Copy returns a copy of the parameter map.
func (p Params) Copy() Params {
	n := make(Params, len(p))
	for k, v := range p {
		n[k] = v
	}
	return n
}

// PotForm is a named potential: a symbolic expression over named independent
// variables plus a mapping from parameter name to quantity. It is the part
// shared by every type record. Type records are value types: two separately
// constructed records with the same structural content are interchangeable,
// which the equality and key functions below implement.
type PotForm struct {
	Name            string
	Expression      string
	IndependentVars []string
	Params          Params
}

// NormExpr returns the expression with all whitespace removed, which is how
// expressions are compared.
func (p *PotForm) NormExpr() string {
	return strings.Join(strings.Fields(p.Expression), "")
}

func sortedCopy(s []string) []string {
	c := make([]string, len(s))
	copy(c, s)
	sort.Strings(c)
	return c
}

// EqualForm reports structural equality of the two forms: name, normalized
// expression, independent-variable set, and parameter keys with
// unit-normalized values.
func (p *PotForm) EqualForm(o *PotForm) bool {
	if p.Name != o.Name || p.NormExpr() != o.NormExpr() {
		return false
	}
	pv, ov := sortedCopy(p.IndependentVars), sortedCopy(o.IndependentVars)
	if len(pv) != len(ov) {
		return false
	}
	for i := range pv {
		if pv[i] != ov[i] {
			return false
		}
	}
	if len(p.Params) != len(o.Params) {
		return false
	}
	for k, v := range p.Params {
		w, ok := o.Params[k]
		if !ok {
			return false
		}
		if !scalar.EqualWithinAbsOrRel(v.Canon(), w.Canon(), 1e-10, 1e-10) {
			return false
		}
	}
	return true
}

// formKey returns a canonical string over the structural content of the
// form, usable as a dedup and sort key.
func (p *PotForm) formKey() string {
	parts := make([]string, 0, len(p.Params)+3)
	parts = append(parts, p.Name, p.NormExpr(), strings.Join(sortedCopy(p.IndependentVars), ","))
	keys := make([]string, 0, len(p.Params))
	for k := range p.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%.8e", k, p.Params[k].Canon()))
	}
	return strings.Join(parts, "|")
}

// CopyForm returns a deep copy of the form.
func (p *PotForm) CopyForm() PotForm {
	vars := make([]string, len(p.IndependentVars))
	copy(vars, p.IndependentVars)
	return PotForm{Name: p.Name, Expression: p.Expression, IndependentVars: vars, Params: p.Params.Copy()}
}

// AtomType describes the non-bonded interaction of a class of atoms, plus
// scalar attributes of the class.
type AtomType struct {
	PotForm
	Mass       unit.Q
	Charge     unit.Q
	AtomClass  string
	Overrides  []string
	Definition string //a structure pattern (e.g. SMARTS) defining the type
}

// Equal reports structural equality, including the scalar attributes.
func (A *AtomType) Equal(o *AtomType) bool {
	if o == nil {
		return false
	}
	if !A.EqualForm(&o.PotForm) {
		return false
	}
	if !scalar.EqualWithinAbsOrRel(A.Mass.Canon(), o.Mass.Canon(), 1e-10, 1e-10) ||
		!scalar.EqualWithinAbsOrRel(A.Charge.Canon(), o.Charge.Canon(), 1e-10, 1e-10) {
		return false
	}
	if A.AtomClass != o.AtomClass || A.Definition != o.Definition {
		return false
	}
	ao, oo := sortedCopy(A.Overrides), sortedCopy(o.Overrides)
	if len(ao) != len(oo) {
		return false
	}
	for i := range ao {
		if ao[i] != oo[i] {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the atom type.
func (A *AtomType) Copy() *AtomType {
	n := new(AtomType)
	*n = *A
	n.PotForm = A.CopyForm()
	n.Overrides = sortedCopy(A.Overrides)
	return n
}

/*The connection type records. The MemberTypes annotation records the
atom-type names of the members a connection of this type joins. It is
derived bookkeeping, only used to compute the canonical output ordering, and
never part of the physics.*/

// BondType describes a 2-body bonded interaction.
type BondType struct {
	PotForm
	MemberTypes [2]string
}

// CanonMembers returns the member names as a sorted pair.
func (B *BondType) CanonMembers() [2]string {
	m := B.MemberTypes
	if m[1] < m[0] {
		m[0], m[1] = m[1], m[0]
	}
	return m
}

// Key returns the canonical dedup key of the type.
func (B *BondType) Key() string {
	m := B.CanonMembers()
	return B.formKey() + "|" + m[0] + "," + m[1]
}

// SortKey returns the canonical ordering key: the sorted pair of member
// names (the form key breaks ties).
func (B *BondType) SortKey() string {
	m := B.CanonMembers()
	return m[0] + "\x00" + m[1] + "\x00" + B.formKey()
}

// Copy returns a deep copy of the bond type.
func (B *BondType) Copy() *BondType {
	n := new(BondType)
	*n = *B
	n.PotForm = B.CopyForm()
	return n
}

// AngleType describes a 3-body bonded interaction. The central member is
// the second one.
type AngleType struct {
	PotForm
	MemberTypes [3]string
}

// CanonMembers returns the member names with the outer pair sorted.
func (A *AngleType) CanonMembers() [3]string {
	m := A.MemberTypes
	if m[2] < m[0] {
		m[0], m[2] = m[2], m[0]
	}
	return m
}

// Key returns the canonical dedup key of the type.
func (A *AngleType) Key() string {
	m := A.CanonMembers()
	return A.formKey() + "|" + strings.Join(m[:], ",")
}

// SortKey orders angle types by (central member, smaller outer, larger
// outer).
func (A *AngleType) SortKey() string {
	m := A.CanonMembers()
	return m[1] + "\x00" + m[0] + "\x00" + m[2] + "\x00" + A.formKey()
}

// Copy returns a deep copy of the angle type.
func (A *AngleType) Copy() *AngleType {
	n := new(AngleType)
	*n = *A
	n.PotForm = A.CopyForm()
	return n
}

// DihedralType describes a proper torsion. A torsion and its reverse are
// the same interaction, so the canonical member order is the
// lexicographically smaller of the tuple and its reversal.
type DihedralType struct {
	PotForm
	MemberTypes [4]string
}

// CanonMembers returns the canonical member order.
func (D *DihedralType) CanonMembers() [4]string {
	m := D.MemberTypes
	r := [4]string{m[3], m[2], m[1], m[0]}
	for i := range m {
		if r[i] < m[i] {
			return r
		}
		if m[i] < r[i] {
			return m
		}
	}
	return m
}

// Key returns the canonical dedup key of the type.
func (D *DihedralType) Key() string {
	m := D.CanonMembers()
	return D.formKey() + "|" + strings.Join(m[:], ",")
}

// SortKey orders dihedral types by the (2nd, 3rd, 1st, 4th) permutation of
// their canonical member names, so the inner pair dominates.
func (D *DihedralType) SortKey() string {
	m := D.CanonMembers()
	return m[1] + "\x00" + m[2] + "\x00" + m[0] + "\x00" + m[3] + "\x00" + D.formKey()
}

// Copy returns a deep copy of the dihedral type.
func (D *DihedralType) Copy() *DihedralType {
	n := new(DihedralType)
	*n = *D
	n.PotForm = D.CopyForm()
	return n
}

// ImproperType describes an out-of-plane term. The first member is central;
// the order of the remaining three does not matter.
type ImproperType struct {
	PotForm
	MemberTypes [4]string
}

// CanonMembers returns the member names with the central one first and the
// rest sorted.
func (I *ImproperType) CanonMembers() [4]string {
	m := I.MemberTypes
	rest := []string{m[1], m[2], m[3]}
	sort.Strings(rest)
	return [4]string{m[0], rest[0], rest[1], rest[2]}
}

// Key returns the canonical dedup key of the type.
func (I *ImproperType) Key() string {
	m := I.CanonMembers()
	return I.formKey() + "|" + strings.Join(m[:], ",")
}

// SortKey orders improper types by their canonical member names in order.
func (I *ImproperType) SortKey() string {
	m := I.CanonMembers()
	return strings.Join(m[:], "\x00") + "\x00" + I.formKey()
}

// Copy returns a deep copy of the improper type.
func (I *ImproperType) Copy() *ImproperType {
	n := new(ImproperType)
	*n = *I
	n.PotForm = I.CopyForm()
	return n
}
