//Package lammps reads and writes the LAMMPS positional data format: the
//text file holding a simulation's box, per-type coefficients, atoms and
//bonded connections. Files with a ".gz" or ".zst" suffix are transparently
//(de)compressed. The package converts values between the model's units and
//the file's unit style, including the reduced "lj" style.
package lammps

import (
	"compress/gzip"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/ff"
	"github.com/rvallejo/moltop/unit"
)

// The atom styles the writer knows how to lay out. The reader only accepts
// "full", the style that carries every per-atom attribute of the model.
var atomStyles = map[string]bool{"full": true, "atomic": true, "molecular": true, "charge": true}

// Options configures a read or write call.
type Options struct {
	//AtomStyle selects the per-atom columns: full, atomic, molecular or
	//charge. The reader only supports full.
	AtomStyle string
	//UnitStyle is one of real, lj, metal, si, cgs, electron, micro, nano.
	UnitStyle string
	//StrictPotentials makes the writer fail instead of converting type
	//records whose functional form the format does not accept.
	StrictPotentials bool
	//StrictUnits makes the writer fail when a stored value is not already
	//expressed in the output unit style.
	StrictUnits bool
	//LJCFactors holds the reduced-unit reference factors (keys "length",
	//"energy", "mass", "charge"). Only valid with the lj style; missing
	//keys default to the maxima over the topology's atom types.
	LJCFactors map[string]unit.Q
}

// DefaultOptions returns the default configuration: full atom style, real
// units, non-strict.
func DefaultOptions() *Options {
	return &Options{AtomStyle: "full", UnitStyle: "real"}
}

// validate checks the configuration before any file is touched. It returns
// the resolved unit system.
func (o *Options) validate(filename string) (*unit.System, error) {
	if !atomStyles[o.AtomStyle] {
		return nil, Error{UnsupportedOption + ": atom style " + o.AtomStyle, filename, []string{"validate"}, true}
	}
	sys, err := unit.NewSystem(o.UnitStyle)
	if err != nil {
		return nil, err
	}
	if len(o.LJCFactors) > 0 && !sys.Reduced() {
		return nil, Error{CFactorsOutsideLJ, filename, []string{"validate"}, true}
	}
	for key := range o.LJCFactors {
		switch key {
		case "length", "energy", "mass", "charge":
		default:
			return nil, Error{UnknownCFactorKey + ": " + key, filename, []string{"validate"}, true}
		}
	}
	return sys, nil
}

// resolveCFactors returns the reference factors for a reduced-unit write:
// the user-given ones, with missing keys defaulted to the maximum sigma,
// epsilon, mass and absolute charge over the topology's atom types. A zero
// default is replaced by 1, with a warning, so dividing stays meaningful.
func resolveCFactors(top *moltop.Topology, opts *Options) map[string]unit.Q {
	maxes := map[string]float64{}
	for _, at := range top.AtomTypes() {
		if q, ok := at.Params["sigma"]; ok {
			maxes["length"] = math.Max(maxes["length"], q.Canon())
		}
		if q, ok := at.Params["epsilon"]; ok {
			maxes["energy"] = math.Max(maxes["energy"], q.Canon())
		}
		maxes["mass"] = math.Max(maxes["mass"], at.Mass.Canon())
		maxes["charge"] = math.Max(maxes["charge"], math.Abs(at.Charge.Canon()))
	}
	units := map[string]unit.Unit{"length": unit.Angstrom, "energy": unit.KCalMol,
		"mass": unit.GMol, "charge": unit.ECharge}
	ret := make(map[string]unit.Q, 4)
	for _, key := range []string{"length", "energy", "mass", "charge"} {
		if q, ok := opts.LJCFactors[key]; ok {
			ret[key] = q
			continue
		}
		v := maxes[key]
		if v == 0 {
			log.Printf("lammps: default %s reference factor is zero, using 1", key)
			v = 1
		}
		ret[key] = unit.NewQ(v, units[key])
	}
	return ret
}

// openRead opens filename for reading, transparently decompressing by
// suffix. The returned closer must be closed by the caller.
func openRead(filename string) (io.Reader, func() error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, Error{UnableToOpen, filename, []string{"openRead"}, true}
	}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, Error{UnableToOpen + ": " + err.Error(), filename, []string{"openRead"}, true}
		}
		return gz, func() error { gz.Close(); return f.Close() }, nil
	case strings.HasSuffix(filename, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, Error{UnableToOpen + ": " + err.Error(), filename, []string{"openRead"}, true}
		}
		return zr, func() error { zr.Close(); return f.Close() }, nil
	}
	return f, f.Close, nil
}

// openWrite creates filename for writing, transparently compressing by
// suffix.
func openWrite(filename string) (io.Writer, func() error, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, Error{UnableToOpen, filename, []string{"openWrite"}, true}
	}
	switch {
	case strings.HasSuffix(filename, ".gz"):
		gz := gzip.NewWriter(f)
		return gz, func() error {
			if err := gz.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}, nil
	case strings.HasSuffix(filename, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, nil, Error{UnableToOpen + ": " + err.Error(), filename, []string{"openWrite"}, true}
		}
		return zw, func() error {
			if err := zw.Close(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}, nil
	}
	return f, f.Close, nil
}

// ReadData reads a data file into a topology. A nil opts means
// DefaultOptions. Only the "full" atom style is supported on read.
func ReadData(filename string, opts *Options) (*moltop.Topology, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	sys, err := opts.validate(filename)
	if err != nil {
		return nil, err
	}
	if opts.AtomStyle != "full" {
		return nil, Error{UnsupportedOption + ": the reader only handles the full atom style", filename, []string{"ReadData"}, true}
	}
	r, closer, err := openRead(filename)
	if err != nil {
		return nil, err
	}
	defer closer()
	top, err := parse(r, filename, sys)
	if err != nil {
		return nil, errDecorate(err, "ReadData")
	}
	return top, nil
}

// WriteData writes the topology to a data file. A nil opts means
// DefaultOptions. In the non-strict modes type records are first converted
// to the accepted functional forms; position, mass, charge and coefficient
// values are converted to the output unit style.
func WriteData(filename string, top *moltop.Topology, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	sys, err := opts.validate(filename)
	if err != nil {
		return err
	}
	if top == nil {
		return Error{WrongFormat + ": nil topology", filename, []string{"WriteData"}, true}
	}
	annotateMemberTypes(top)
	if top.FullyTyped() {
		if opts.StrictPotentials {
			if err := ff.CheckPotentials(top); err != nil {
				return err
			}
		} else if err := ff.ConvertStyles(top); err != nil {
			return err
		}
	}
	var cfactors map[string]unit.Q
	if sys.Reduced() {
		cfactors = resolveCFactors(top, opts)
	}
	if opts.StrictUnits && top.FullyTyped() {
		if err := ff.CheckUnits(top, sys, cfactors); err != nil {
			return err
		}
	}
	w, closer, err := openWrite(filename)
	if err != nil {
		return err
	}
	if err := write(w, top, opts, sys, cfactors); err != nil {
		closer()
		return errDecorate(err, "WriteData")
	}
	return closer()
}

// annotateMemberTypes stamps every typed connection with the atom-type
// names of its members, copying shared type records so the annotation of
// one connection can't leak into another. The canonical type orderings are
// computed from these annotations.
func annotateMemberTypes(top *moltop.Topology) {
	name := func(a *moltop.Atom) string {
		if a.Type == nil {
			return ""
		}
		return a.Type.Name
	}
	for _, b := range top.Bonds {
		if b.Type == nil {
			continue
		}
		mt := [2]string{name(b.At1), name(b.At2)}
		if b.Type.MemberTypes != mt {
			nt := b.Type.Copy()
			nt.MemberTypes = mt
			b.Type = nt
		}
	}
	for _, a := range top.Angles {
		if a.Type == nil {
			continue
		}
		mt := [3]string{name(a.At1), name(a.At2), name(a.At3)}
		if a.Type.MemberTypes != mt {
			nt := a.Type.Copy()
			nt.MemberTypes = mt
			a.Type = nt
		}
	}
	for _, d := range top.Dihedrals {
		if d.Type == nil {
			continue
		}
		mt := [4]string{name(d.At1), name(d.At2), name(d.At3), name(d.At4)}
		if d.Type.MemberTypes != mt {
			nt := d.Type.Copy()
			nt.MemberTypes = mt
			d.Type = nt
		}
	}
	for _, im := range top.Impropers {
		if im.Type == nil {
			continue
		}
		mt := [4]string{name(im.At1), name(im.At2), name(im.At3), name(im.At4)}
		if im.Type.MemberTypes != mt {
			nt := im.Type.Copy()
			nt.MemberTypes = mt
			im.Type = nt
		}
	}
}
