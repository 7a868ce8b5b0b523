/*
 * unit.go, part of moltop.
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

// Package unit implements the unit styles of the LAMMPS data format and the
// conversion of physical quantities between them, including the reduced
// ("lj") style, which non-dimensionalizes every value with a small set of
// reference scale factors.
package unit

import (
	"fmt"
	"math"
	"strings"
)

// Conversion constants. Energies that refer to a single particle (J, erg,
// eV, Hartree) are expressed per mole internally, so the Avogadro constant
// shows up in their factors.
const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
	NAvo    = 6.02214076e23
	KJ2Kcal = 1 / 4.184
	Kcal2KJ = 4.184
	H2Kcal  = 627.509 //Hartree to kcal/mol
	Kcal2H  = 1 / 627.509
	EV2Kcal = 23.060548
	A2Bohr  = 1.889725989
	Bohr2A  = 1 / 1.889725989
	J2Kcal  = NAvo / 4184.0 //J (one particle) to kcal/mol
)

// Dim is the dimensionality of a unit, as integer exponents over the named
// base dimensions. Energy is carried as its own dimension rather than
// mass*length^2/time^2 because the styles below define it independently
// (kcal/mol is not (g/mol)(A/fs)^2).
type Dim struct {
	Mass   int
	Length int
	Time   int
	Energy int
	Charge int
	Angle  int
}

// IsZero returns whether d is dimensionless.
func (d Dim) IsZero() bool {
	return d == Dim{}
}

// Unit is an immutable unit of measure: a dimension vector plus a scale
// factor to the internal base (the "real" style: g/mol, A, fs, kcal/mol,
// electron charge, radian).
type Unit struct {
	name string
	dim  Dim
	f    float64
}

// New returns a unit with the given name, dimension and factor to the
// internal base units.
func New(name string, dim Dim, factor float64) Unit {
	return Unit{name: name, dim: dim, f: factor}
}

func (u Unit) Name() string { return u.name }
func (u Unit) Dim() Dim     { return u.dim }

// Factor returns the scale factor of u relative to the internal base units.
func (u Unit) Factor() float64 { return u.f }

// Compatible returns whether q and u share a dimension vector.
func (u Unit) Compatible(o Unit) bool { return u.dim == o.dim }

// Mul returns the product unit of u and o.
func (u Unit) Mul(o Unit) Unit {
	return Unit{
		name: composeName(u.name, o.name, false),
		dim: Dim{u.dim.Mass + o.dim.Mass, u.dim.Length + o.dim.Length,
			u.dim.Time + o.dim.Time, u.dim.Energy + o.dim.Energy,
			u.dim.Charge + o.dim.Charge, u.dim.Angle + o.dim.Angle},
		f: u.f * o.f,
	}
}

// Div returns the quotient unit u/o.
func (u Unit) Div(o Unit) Unit {
	return Unit{
		name: composeName(u.name, o.name, true),
		dim: Dim{u.dim.Mass - o.dim.Mass, u.dim.Length - o.dim.Length,
			u.dim.Time - o.dim.Time, u.dim.Energy - o.dim.Energy,
			u.dim.Charge - o.dim.Charge, u.dim.Angle - o.dim.Angle},
		f: u.f / o.f,
	}
}

// Pow returns u raised to the n-th power.
func (u Unit) Pow(n int) Unit {
	name := u.name
	if name != "" && n != 1 {
		name = fmt.Sprintf("%s^%d", name, n)
	}
	return Unit{
		name: name,
		dim: Dim{u.dim.Mass * n, u.dim.Length * n, u.dim.Time * n,
			u.dim.Energy * n, u.dim.Charge * n, u.dim.Angle * n},
		f: math.Pow(u.f, float64(n)),
	}
}

func composeName(a, b string, div bool) string {
	if b == "" {
		return a
	}
	sep := "*"
	if div {
		sep = "/"
	}
	if a == "" {
		if div {
			return "1/" + b
		}
		return b
	}
	return a + sep + b
}

// The named units. The internal base is the "real" style so all factors are
// relative to g/mol, A, fs, kcal/mol, e and radian.
var (
	Dimensionless = Unit{name: "", dim: Dim{}, f: 1}

	//mass
	GMol = Unit{"g/mol", Dim{Mass: 1}, 1}
	Amu  = Unit{"amu", Dim{Mass: 1}, 1}
	Kg   = Unit{"kg", Dim{Mass: 1}, 1000 * NAvo}
	G    = Unit{"g", Dim{Mass: 1}, NAvo}
	Pg   = Unit{"pg", Dim{Mass: 1}, 1e-12 * NAvo}
	Ag   = Unit{"ag", Dim{Mass: 1}, 1e-18 * NAvo}

	//length
	Angstrom = Unit{"A", Dim{Length: 1}, 1}
	Meter    = Unit{"m", Dim{Length: 1}, 1e10}
	CM       = Unit{"cm", Dim{Length: 1}, 1e8}
	UM       = Unit{"um", Dim{Length: 1}, 1e4}
	NM       = Unit{"nm", Dim{Length: 1}, 10}
	Bohr     = Unit{"bohr", Dim{Length: 1}, Bohr2A}

	//time
	Fs  = Unit{"fs", Dim{Time: 1}, 1}
	Ps  = Unit{"ps", Dim{Time: 1}, 1e3}
	Ns  = Unit{"ns", Dim{Time: 1}, 1e6}
	Us  = Unit{"us", Dim{Time: 1}, 1e9}
	Sec = Unit{"s", Dim{Time: 1}, 1e15}

	//energy
	KCalMol  = Unit{"kcal/mol", Dim{Energy: 1}, 1}
	KJMol    = Unit{"kJ/mol", Dim{Energy: 1}, KJ2Kcal}
	EV       = Unit{"eV", Dim{Energy: 1}, EV2Kcal}
	Joule    = Unit{"J", Dim{Energy: 1}, J2Kcal}
	Erg      = Unit{"erg", Dim{Energy: 1}, 1e-7 * J2Kcal}
	Hartree  = Unit{"hartree", Dim{Energy: 1}, H2Kcal}
	PgUm2Us2 = Unit{"pg*um^2/us^2", Dim{Energy: 1}, 1e-15 * J2Kcal}
	AgNm2Ns2 = Unit{"ag*nm^2/ns^2", Dim{Energy: 1}, 1e-21 * J2Kcal}

	//charge
	ECharge = Unit{"e", Dim{Charge: 1}, 1}
	Coulomb = Unit{"C", Dim{Charge: 1}, 6.241509074e18}
	StatC   = Unit{"statC", Dim{Charge: 1}, 2.08194335e9}

	//angle
	Rad = Unit{"radian", Dim{Angle: 1}, 1}
	Deg = Unit{"degree", Dim{Angle: 1}, Deg2Rad}
)

// Q is a physical quantity: a value tagged with its unit.
type Q struct {
	V float64
	U Unit
}

// NewQ returns the quantity v*u. A zero-valued Unit is taken to mean
// Dimensionless.
func NewQ(v float64, u Unit) Q {
	if u.f == 0 {
		u = Dimensionless
	}
	return Q{V: v, U: u}
}

// Canon returns the value of q expressed in the internal base units.
func (q Q) Canon() float64 { return q.V * q.U.f }

// In returns the value of q expressed in the unit u. It returns an error if
// the dimensions do not match.
func (q Q) In(u Unit) (float64, error) {
	if !q.U.Compatible(u) {
		return 0, fmt.Errorf("unit: can't express %v (%s) in %s", q.V, q.U.name, u.name)
	}
	return q.V * q.U.f / u.f, nil
}

func (q Q) String() string {
	if q.U.name == "" {
		return fmt.Sprintf("%v", q.V)
	}
	return fmt.Sprintf("%v %s", q.V, q.U.name)
}

// Styles recognized by System. "lj" is the reduced style.
var Styles = []string{"real", "lj", "metal", "si", "cgs", "electron", "micro", "nano"}

// Dimensions recognized by UnitFor. "angle_eq" is deliberately separate from
// "angle": the data format tabulates equilibrium angles in degrees while
// angular force constants use radians.
var Dimensions = []string{"mass", "length", "time", "energy", "charge", "angle", "angle_eq"}

var styleUnits = map[string]map[string]Unit{
	"real": {"mass": GMol, "length": Angstrom, "time": Fs, "energy": KCalMol,
		"charge": ECharge, "angle": Rad, "angle_eq": Deg},
	"metal": {"mass": GMol, "length": Angstrom, "time": Ps, "energy": EV,
		"charge": ECharge, "angle": Rad, "angle_eq": Deg},
	"si": {"mass": Kg, "length": Meter, "time": Sec, "energy": Joule,
		"charge": Coulomb, "angle": Rad, "angle_eq": Deg},
	"cgs": {"mass": G, "length": CM, "time": Sec, "energy": Erg,
		"charge": StatC, "angle": Rad, "angle_eq": Deg},
	"electron": {"mass": Amu, "length": Bohr, "time": Fs, "energy": Hartree,
		"charge": ECharge, "angle": Rad, "angle_eq": Deg},
	"micro": {"mass": Pg, "length": UM, "time": Us, "energy": PgUm2Us2,
		"charge": ECharge, "angle": Rad, "angle_eq": Deg},
	"nano": {"mass": Ag, "length": NM, "time": Ns, "energy": AgNm2Ns2,
		"charge": ECharge, "angle": Rad, "angle_eq": Deg},
}

// UnsupportedStyleError reports a unit style outside the recognized set.
type UnsupportedStyleError string

func (e UnsupportedStyleError) Error() string {
	return fmt.Sprintf("unit: unsupported unit style %q", string(e))
}

// UnsupportedDimensionError reports a dimension unknown to a style.
type UnsupportedDimensionError string

func (e UnsupportedDimensionError) Error() string {
	return fmt.Sprintf("unit: unsupported dimension %q", string(e))
}

// System resolves per-dimension base units for one of the fixed styles.
type System struct {
	style string
}

// NewSystem returns a System for the given style name.
func NewSystem(style string) (*System, error) {
	if style != "lj" {
		if _, ok := styleUnits[style]; !ok {
			return nil, UnsupportedStyleError(style)
		}
	}
	return &System{style: style}, nil
}

// Style returns the style name of the system.
func (s *System) Style() string { return s.style }

// Reduced returns whether the system is the reduced ("lj") style.
func (s *System) Reduced() bool { return s.style == "lj" }

// UnitFor returns the base unit for the named dimension in this style. In
// the reduced style everything is dimensionless except angles, which stay in
// radians.
func (s *System) UnitFor(dimension string) (Unit, error) {
	if s.style == "lj" {
		switch dimension {
		case "angle", "angle_eq":
			return Rad, nil
		case "mass", "length", "time", "energy", "charge":
			return Dimensionless, nil
		}
		return Unit{}, UnsupportedDimensionError(dimension)
	}
	u, ok := styleUnits[s.style][dimension]
	if !ok {
		return Unit{}, UnsupportedDimensionError(dimension)
	}
	return u, nil
}

// BaseUnit builds the composite base unit of the style matching dim. The
// angle exponent uses "angle_eq" units when eq is true.
func (s *System) BaseUnit(dim Dim, eq bool) (Unit, error) {
	t := Dimensionless
	for _, part := range []struct {
		name string
		n    int
	}{
		{"mass", dim.Mass},
		{"length", dim.Length},
		{"time", dim.Time},
		{"energy", dim.Energy},
		{"charge", dim.Charge},
	} {
		if part.n == 0 {
			continue
		}
		u, err := s.UnitFor(part.name)
		if err != nil {
			return Unit{}, err
		}
		t = t.Mul(u.Pow(part.n))
	}
	if dim.Angle != 0 {
		name := "angle"
		if eq {
			name = "angle_eq"
		}
		u, err := s.UnitFor(name)
		if err != nil {
			return Unit{}, err
		}
		t = t.Mul(u.Pow(dim.Angle))
	}
	return t, nil
}

// RoundTo rounds v to n decimal places.
func RoundTo(v float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Round(v*p) / p
}

// ConvertParameter converts q to the base unit of this style for q's own
// dimensionality and rounds the result to nDecimals (pass a negative value
// for the default of 6). The name of the parameter disambiguates dimensions
// that share a dimensionality, currently equilibrium angles ("*_eq") versus
// angular force constants.
//
// In the reduced style the converted value is additionally divided by the
// appropriate powers of the reference factors in cfactors (keys "length",
// "energy", "mass" and "charge"); time exponents are substituted through
// tau^2 = mass*length^2/energy. cfactors is ignored for every other style.
func (s *System) ConvertParameter(q Q, cfactors map[string]Q, nDecimals int, name string) (float64, error) {
	if nDecimals < 0 {
		nDecimals = 6
	}
	if s.style == "lj" {
		v, err := reduce(q, cfactors)
		if err != nil {
			return 0, err
		}
		return RoundTo(v, nDecimals), nil
	}
	t, err := s.BaseUnit(q.U.dim, strings.HasSuffix(name, "_eq"))
	if err != nil {
		return 0, err
	}
	return RoundTo(q.Canon()/t.f, nDecimals), nil
}

// reduce non-dimensionalizes q with the given reference factors.
func reduce(q Q, cfactors map[string]Q) (float64, error) {
	d := q.U.dim
	exps := map[string]float64{
		"length": float64(d.Length + d.Time),
		"mass":   float64(d.Mass) + float64(d.Time)/2,
		"energy": float64(d.Energy) - float64(d.Time)/2,
		"charge": float64(d.Charge),
	}
	v := q.Canon()
	for _, key := range []string{"length", "energy", "mass", "charge"} {
		e := exps[key]
		if e == 0 {
			continue
		}
		cf, ok := cfactors[key]
		if !ok {
			return 0, fmt.Errorf("unit: reduced conversion of %s needs a %q reference factor", q, key)
		}
		v /= math.Pow(cf.Canon(), e)
	}
	return v, nil
}
