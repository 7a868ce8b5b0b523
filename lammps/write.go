package lammps

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/unit"
)

// The writer emits sections in the fixed order of the format, with every
// per-type section in the canonical, content-derived type order. Two
// topologies with the same content therefore produce byte-identical files
// no matter the order their pieces were assembled in.

type writer struct {
	w        *bufio.Writer
	top      *moltop.Topology
	opts     *Options
	sys      *unit.System
	cfactors map[string]unit.Q

	atomIdx     map[string]int //atom-type name to 1-based file index
	bondIdx     map[string]int //type Key() to 1-based file index
	angleIdx    map[string]int
	dihedralIdx map[string]int
	improperIdx map[string]int

	err error
}

func write(out io.Writer, top *moltop.Topology, opts *Options, sys *unit.System, cfactors map[string]unit.Q) error {
	w := &writer{w: bufio.NewWriter(out), top: top, opts: opts, sys: sys, cfactors: cfactors}
	w.indexTypes()
	w.header()
	if err := w.box(); err != nil {
		return err
	}
	if err := w.coeffSections(); err != nil {
		return err
	}
	if err := w.atomSection(); err != nil {
		return err
	}
	w.connectionSections()
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *writer) printf(format string, args ...interface{}) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// convert runs a quantity through the unit system, with the default
// rounding.
func (w *writer) convert(q unit.Q, name string) (float64, error) {
	return w.sys.ConvertParameter(q, w.cfactors, -1, name)
}

// coord converts a coordinate keeping eight significant figures.
func (w *writer) coord(q unit.Q) (string, error) {
	v, err := w.sys.ConvertParameter(q, w.cfactors, 8, "length")
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(v, 'g', 8, 64), nil
}

func (w *writer) indexTypes() {
	w.atomIdx = map[string]int{}
	for i, t := range w.top.AtomTypes() {
		w.atomIdx[t.Name] = i + 1
	}
	w.bondIdx = map[string]int{}
	for i, t := range w.top.BondTypes() {
		w.bondIdx[t.Key()] = i + 1
	}
	w.angleIdx = map[string]int{}
	for i, t := range w.top.AngleTypes() {
		w.angleIdx[t.Key()] = i + 1
	}
	w.dihedralIdx = map[string]int{}
	for i, t := range w.top.DihedralTypes() {
		w.dihedralIdx[t.Key()] = i + 1
	}
	w.improperIdx = map[string]int{}
	for i, t := range w.top.ImproperTypes() {
		w.improperIdx[t.Key()] = i + 1
	}
}

func (w *writer) header() {
	name := w.top.Name
	if name == "" {
		name = "Topology"
	}
	w.printf("%s - written by moltop\n\n", name)
	w.printf("%d atoms\n", w.top.Len())
	w.printf("%d bonds\n", len(w.top.Bonds))
	w.printf("%d angles\n", len(w.top.Angles))
	w.printf("%d dihedrals\n", len(w.top.Dihedrals))
	w.printf("%d impropers\n\n", len(w.top.Impropers))
	w.printf("%d atom types\n", len(w.atomIdx))
	w.printf("%d bond types\n", len(w.bondIdx))
	w.printf("%d angle types\n", len(w.angleIdx))
	w.printf("%d dihedral types\n", len(w.dihedralIdx))
	w.printf("%d improper types\n\n", len(w.improperIdx))
}

func (w *writer) box() error {
	if w.top.Box == nil {
		return nil
	}
	lu, err := w.sys.UnitFor("length")
	if err != nil {
		return err
	}
	if w.sys.Reduced() {
		lu = unit.Angstrom //reduce below, after measuring the prism
	}
	lx, ly, lz, xy, xz, yz, err := w.top.Box.LammpsParams(lu)
	if err != nil {
		return err
	}
	if w.sys.Reduced() {
		sigma := w.cfactors["length"].Canon()
		lx, ly, lz = lx/sigma, ly/sigma, lz/sigma
		xy, xz, yz = xy/sigma, xz/sigma, yz/sigma
	}
	if w.top.Box.Orthogonal() {
		w.printf("%.6f %.6f xlo xhi\n", 0.0, lx)
		w.printf("%.6f %.6f ylo yhi\n", 0.0, ly)
		w.printf("%.6f %.6f zlo zhi\n\n", 0.0, lz)
		return nil
	}
	//bounds are widened by the tilts, as the format requires
	xloB := math.Min(math.Min(0, xy), math.Min(xz, xy+xz))
	xhiB := lx + math.Max(math.Max(0, xy), math.Max(xz, xy+xz))
	yloB := math.Min(0, yz)
	yhiB := ly + math.Max(0, yz)
	w.printf("%.6f %.6f xlo xhi\n", xloB, xhiB)
	w.printf("%.6f %.6f ylo yhi\n", yloB, yhiB)
	w.printf("%.6f %.6f zlo zhi\n", 0.0, lz)
	w.printf("%.6f %.6f %.6f xy xz yz\n\n", xy, xz, yz)
	return nil
}

func (w *writer) coeffSections() error {
	if !w.top.FullyTyped() {
		return nil
	}
	if err := w.masses(); err != nil {
		return err
	}
	if err := w.pairCoeffs(); err != nil {
		return err
	}
	if err := w.bondCoeffs(); err != nil {
		return err
	}
	if err := w.angleCoeffs(); err != nil {
		return err
	}
	if err := w.dihedralCoeffs(); err != nil {
		return err
	}
	return w.improperCoeffs()
}

func (w *writer) masses() error {
	types := w.top.AtomTypes()
	if len(types) == 0 {
		return nil
	}
	w.printf("Masses\n\n")
	for i, t := range types {
		m, err := w.convert(t.Mass, "mass")
		if err != nil {
			return err
		}
		w.printf("%d\t%.6f\t# %s\n", i+1, m, t.Name)
	}
	w.printf("\n")
	return nil
}

func (w *writer) pairCoeffs() error {
	types := w.top.AtomTypes()
	if len(types) == 0 {
		return nil
	}
	w.printf("Pair Coeffs # lj\n\n")
	for i, t := range types {
		eps, err := w.convert(t.Params["epsilon"], "epsilon")
		if err != nil {
			return err
		}
		sig, err := w.convert(t.Params["sigma"], "sigma")
		if err != nil {
			return err
		}
		w.printf("%d\t%.6f\t%.6f\t# %s\n", i+1, eps, sig, t.Name)
	}
	w.printf("\n")
	return nil
}

// double returns the quantity with twice the value, for the file's 2k
// convention on harmonic force constants.
func double(q unit.Q) unit.Q {
	return unit.NewQ(2*q.V, q.U)
}

func (w *writer) bondCoeffs() error {
	types := w.top.BondTypes()
	if len(types) == 0 {
		return nil
	}
	w.printf("Bond Coeffs # harmonic\n\n")
	for i, t := range types {
		k, err := w.convert(double(t.Params["k"]), "k")
		if err != nil {
			return err
		}
		req, err := w.convert(t.Params["r_eq"], "r_eq")
		if err != nil {
			return err
		}
		w.printf("%d\t%.6f\t%.6f\t# %s\n", i+1, k, req, t.Name)
	}
	w.printf("\n")
	return nil
}

func (w *writer) angleCoeffs() error {
	types := w.top.AngleTypes()
	if len(types) == 0 {
		return nil
	}
	w.printf("Angle Coeffs # harmonic\n\n")
	for i, t := range types {
		k, err := w.convert(double(t.Params["k"]), "k")
		if err != nil {
			return err
		}
		teq, err := w.convert(t.Params["theta_eq"], "theta_eq")
		if err != nil {
			return err
		}
		w.printf("%d\t%.6f\t%.6f\t# %s\n", i+1, k, teq, t.Name)
	}
	w.printf("\n")
	return nil
}

func (w *writer) dihedralCoeffs() error {
	types := w.top.DihedralTypes()
	if len(types) == 0 {
		return nil
	}
	w.printf("Dihedral Coeffs # opls\n\n")
	for i, t := range types {
		var ks [4]float64
		for j, name := range []string{"k1", "k2", "k3", "k4"} {
			v, err := w.convert(t.Params[name], name)
			if err != nil {
				return err
			}
			ks[j] = v
		}
		w.printf("%d\t%.6f\t%.6f\t%.6f\t%.6f\t# %s\n", i+1, ks[0], ks[1], ks[2], ks[3], t.Name)
	}
	w.printf("\n")
	return nil
}

func (w *writer) improperCoeffs() error {
	types := w.top.ImproperTypes()
	if len(types) == 0 {
		return nil
	}
	w.printf("Improper Coeffs # harmonic\n\n")
	for i, t := range types {
		k, err := w.convert(double(t.Params["k"]), "k")
		if err != nil {
			return err
		}
		peq, err := w.convert(t.Params["phi_eq"], "phi_eq")
		if err != nil {
			return err
		}
		w.printf("%d\t%.6f\t%.6f\t# %s\n", i+1, k, peq, t.Name)
	}
	w.printf("\n")
	return nil
}

func (w *writer) atomSection() error {
	if w.top.Len() == 0 {
		return nil
	}
	w.printf("Atoms # %s\n\n", w.opts.AtomStyle)
	for _, a := range w.top.Atoms {
		if a.Type == nil {
			return Error{UntypedTopology + ": atom " + strconv.Itoa(a.Index+1), "", []string{"atomSection"}, true}
		}
		tIdx := w.atomIdx[a.Type.Name]
		var x, y, z string
		var err error
		if x, err = w.coord(a.Pos[0]); err != nil {
			return err
		}
		if y, err = w.coord(a.Pos[1]); err != nil {
			return err
		}
		if z, err = w.coord(a.Pos[2]); err != nil {
			return err
		}
		switch w.opts.AtomStyle {
		case "full", "charge":
			q, err := w.convert(a.Charge, "charge")
			if err != nil {
				return err
			}
			if w.opts.AtomStyle == "full" {
				w.printf("%d\t%d\t%d\t%.6f\t%s\t%s\t%s\n", a.Index+1, a.MolID, tIdx, q, x, y, z)
			} else {
				w.printf("%d\t%d\t%.6f\t%s\t%s\t%s\n", a.Index+1, tIdx, q, x, y, z)
			}
		case "molecular":
			w.printf("%d\t%d\t%d\t%s\t%s\t%s\n", a.Index+1, a.MolID, tIdx, x, y, z)
		case "atomic":
			w.printf("%d\t%d\t%s\t%s\t%s\n", a.Index+1, tIdx, x, y, z)
		}
	}
	w.printf("\n")
	return nil
}

// connectionSections writes the Bonds, Angles, Dihedrals and Impropers
// sections, each sorted by the member indices of its rows.
func (w *writer) connectionSections() {
	if len(w.top.Bonds) > 0 {
		bonds := append([]*moltop.Bond{}, w.top.Bonds...)
		sort.Slice(bonds, func(i, j int) bool {
			if bonds[i].At1.Index != bonds[j].At1.Index {
				return bonds[i].At1.Index < bonds[j].At1.Index
			}
			return bonds[i].At2.Index < bonds[j].At2.Index
		})
		w.printf("Bonds\n\n")
		for i, b := range bonds {
			if b.Type == nil {
				w.err = Error{UntypedTopology + ": untyped bond", "", []string{"connectionSections"}, true}
				return
			}
			w.printf("%d\t%d\t%d\t%d\n", i+1, w.bondIdx[b.Type.Key()], b.At1.Index+1, b.At2.Index+1)
		}
		w.printf("\n")
	}
	if len(w.top.Angles) > 0 {
		angles := append([]*moltop.Angle{}, w.top.Angles...)
		sort.Slice(angles, func(i, j int) bool {
			ai, aj := angles[i], angles[j]
			if ai.At1.Index != aj.At1.Index {
				return ai.At1.Index < aj.At1.Index
			}
			if ai.At2.Index != aj.At2.Index {
				return ai.At2.Index < aj.At2.Index
			}
			return ai.At3.Index < aj.At3.Index
		})
		w.printf("Angles\n\n")
		for i, a := range angles {
			if a.Type == nil {
				w.err = Error{UntypedTopology + ": untyped angle", "", []string{"connectionSections"}, true}
				return
			}
			w.printf("%d\t%d\t%d\t%d\t%d\n", i+1, w.angleIdx[a.Type.Key()],
				a.At1.Index+1, a.At2.Index+1, a.At3.Index+1)
		}
		w.printf("\n")
	}
	if len(w.top.Dihedrals) > 0 {
		dihedrals := append([]*moltop.Dihedral{}, w.top.Dihedrals...)
		sort.Slice(dihedrals, func(i, j int) bool {
			return lessMembers(dihedrals[i].Members(), dihedrals[j].Members())
		})
		w.printf("Dihedrals\n\n")
		for i, d := range dihedrals {
			if d.Type == nil {
				w.err = Error{UntypedTopology + ": untyped dihedral", "", []string{"connectionSections"}, true}
				return
			}
			w.printf("%d\t%d\t%d\t%d\t%d\t%d\n", i+1, w.dihedralIdx[d.Type.Key()],
				d.At1.Index+1, d.At2.Index+1, d.At3.Index+1, d.At4.Index+1)
		}
		w.printf("\n")
	}
	if len(w.top.Impropers) > 0 {
		impropers := append([]*moltop.Improper{}, w.top.Impropers...)
		sort.Slice(impropers, func(i, j int) bool {
			return lessMembers(impropers[i].Members(), impropers[j].Members())
		})
		w.printf("Impropers\n\n")
		for i, im := range impropers {
			if im.Type == nil {
				w.err = Error{UntypedTopology + ": untyped improper", "", []string{"connectionSections"}, true}
				return
			}
			w.printf("%d\t%d\t%d\t%d\t%d\t%d\n", i+1, w.improperIdx[im.Type.Key()],
				im.At1.Index+1, im.At2.Index+1, im.At3.Index+1, im.At4.Index+1)
		}
		w.printf("\n")
	}
}

func lessMembers(a, b []*moltop.Atom) bool {
	for i := range a {
		if a[i].Index != b[i].Index {
			return a[i].Index < b[i].Index
		}
	}
	return false
}
