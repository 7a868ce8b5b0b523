package lammps

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/ff"
	"github.com/rvallejo/moltop/unit"
)

// The parser walks the file's lines exactly once with a single cursor. The
// header block (title, counts, box bounds) runs until the first section
// keyword; after that each section keyword is followed by one blank line
// and then its rows, whose number is fixed by the counts block.

type parser struct {
	lines    []string
	pos      int
	filename string
	sys      *unit.System

	counts     map[string]int //atoms, bonds, angles, dihedrals, impropers
	typeCounts map[string]int //atom, bond, angle, dihedral, improper

	//box bounds as they appear in the file
	bounds    [6]float64
	tilts     [3]float64
	hasBounds bool

	atomTypes     map[int]*moltop.AtomType
	bondTypes     map[int]*moltop.BondType
	angleTypes    map[int]*moltop.AngleType
	dihedralTypes map[int]*moltop.DihedralType
	improperTypes map[int]*moltop.ImproperType

	top *moltop.Topology
}

func (p *parser) fail(msg string, caller string) error {
	return Error{msg, p.filename, []string{caller}, true}
}

// fields splits a data row into its whitespace-separated fields and the
// trailing "# ..." comment, if any.
func fields(line string) ([]string, string) {
	comment := ""
	if i := strings.Index(line, "#"); i >= 0 {
		comment = strings.TrimSpace(line[i+1:])
		line = line[:i]
	}
	return strings.Fields(line), comment
}

var countKinds = map[string]bool{"atoms": true, "bonds": true, "angles": true,
	"dihedrals": true, "impropers": true}
var typeKinds = map[string]bool{"atom": true, "bond": true, "angle": true,
	"dihedral": true, "improper": true}

var sectionNames = map[string]bool{"Masses": true, "Pair Coeffs": true,
	"Bond Coeffs": true, "Angle Coeffs": true, "Dihedral Coeffs": true,
	"Improper Coeffs": true, "Atoms": true, "Bonds": true, "Angles": true,
	"Dihedrals": true, "Impropers": true, "Velocities": true}

func parse(r io.Reader, filename string, sys *unit.System) (*moltop.Topology, error) {
	p := &parser{
		filename:      filename,
		sys:           sys,
		counts:        map[string]int{},
		typeCounts:    map[string]int{},
		atomTypes:     map[int]*moltop.AtomType{},
		bondTypes:     map[int]*moltop.BondType{},
		angleTypes:    map[int]*moltop.AngleType{},
		dihedralTypes: map[int]*moltop.DihedralType{},
		improperTypes: map[int]*moltop.ImproperType{},
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		p.lines = append(p.lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, p.fail(WrongFormat+": "+err.Error(), "parse")
	}
	if len(p.lines) == 0 {
		return nil, p.fail(WrongFormat+": empty file", "parse")
	}
	//the first line is a free-text title
	p.top = moltop.NewTopology(strings.TrimSpace(p.lines[0]))
	p.pos = 1
	if err := p.header(); err != nil {
		return nil, err
	}
	for p.pos < len(p.lines) {
		line := strings.TrimSpace(p.lines[p.pos])
		if line == "" {
			p.pos++
			continue
		}
		name, _ := sectionName(line)
		if name == "" {
			return nil, p.fail(WrongFormat+": unexpected line "+strconv.Itoa(p.pos+1)+": "+line, "parse")
		}
		if err := p.section(name); err != nil {
			return nil, err
		}
	}
	if p.hasBounds {
		lu, err := p.sys.UnitFor("length")
		if err != nil {
			return nil, err
		}
		box, err := moltop.NewBoxFromBounds(p.bounds[0], p.bounds[1], p.bounds[2],
			p.bounds[3], p.bounds[4], p.bounds[5], p.tilts[0], p.tilts[1], p.tilts[2], lu)
		if err != nil {
			return nil, errDecorate(err, "parse")
		}
		p.top.Box = box
	}
	return p.top, nil
}

// sectionName matches a line against the known section keywords, tolerating
// a trailing comment (LAMMPS writes the atom style there).
func sectionName(line string) (string, string) {
	comment := ""
	if i := strings.Index(line, "#"); i >= 0 {
		comment = strings.TrimSpace(line[i+1:])
		line = strings.TrimSpace(line[:i])
	}
	if sectionNames[line] {
		return line, comment
	}
	return "", comment
}

// header consumes the counts, type counts and box bounds, stopping at the
// first section keyword.
func (p *parser) header() error {
	for ; p.pos < len(p.lines); p.pos++ {
		line := strings.TrimSpace(p.lines[p.pos])
		if line == "" {
			continue
		}
		if name, _ := sectionName(line); name != "" {
			return nil
		}
		f, _ := fields(line)
		switch {
		case len(f) == 2 && countKinds[f[1]]:
			n, err := strconv.Atoi(f[0])
			if err != nil {
				return p.fail(WrongFormat+": bad count line: "+line, "header")
			}
			p.counts[f[1]] = n
		case len(f) == 3 && f[2] == "types" && typeKinds[f[1]]:
			n, err := strconv.Atoi(f[0])
			if err != nil {
				return p.fail(WrongFormat+": bad type-count line: "+line, "header")
			}
			p.typeCounts[f[1]] = n
		case len(f) == 4 && strings.HasSuffix(f[2], "lo"):
			lo, err1 := strconv.ParseFloat(f[0], 64)
			hi, err2 := strconv.ParseFloat(f[1], 64)
			if err1 != nil || err2 != nil {
				return p.fail(WrongFormat+": bad box bounds: "+line, "header")
			}
			var off int
			switch f[2] {
			case "xlo":
				off = 0
			case "ylo":
				off = 2
			case "zlo":
				off = 4
			default:
				return p.fail(WrongFormat+": bad box bounds: "+line, "header")
			}
			p.bounds[off], p.bounds[off+1] = lo, hi
			p.hasBounds = true
		case len(f) == 6 && f[3] == "xy" && f[4] == "xz" && f[5] == "yz":
			for i := 0; i < 3; i++ {
				v, err := strconv.ParseFloat(f[i], 64)
				if err != nil {
					return p.fail(WrongFormat+": bad tilt factors: "+line, "header")
				}
				p.tilts[i] = v
			}
		default:
			return p.fail(WrongFormat+": unexpected header line: "+line, "header")
		}
	}
	return nil
}

// rows consumes the blank separator line after a section keyword and
// returns the indices of the n data rows, advancing the cursor past them.
func (p *parser) rows(n int, caller string) ([]int, error) {
	p.pos++ //the keyword line
	if p.pos < len(p.lines) && strings.TrimSpace(p.lines[p.pos]) == "" {
		p.pos++
	}
	idx := make([]int, 0, n)
	for len(idx) < n && p.pos < len(p.lines) {
		if strings.TrimSpace(p.lines[p.pos]) == "" {
			return nil, p.fail(TruncatedSection, caller)
		}
		idx = append(idx, p.pos)
		p.pos++
	}
	if len(idx) < n {
		return nil, p.fail(TruncatedSection, caller)
	}
	return idx, nil
}

func (p *parser) section(name string) error {
	switch name {
	case "Masses":
		return p.masses()
	case "Pair Coeffs":
		return p.pairCoeffs()
	case "Bond Coeffs":
		return p.bondCoeffs()
	case "Angle Coeffs":
		return p.angleCoeffs()
	case "Dihedral Coeffs":
		return p.dihedralCoeffs()
	case "Improper Coeffs":
		return p.improperCoeffs()
	case "Atoms":
		return p.atoms()
	case "Velocities":
		//not part of the model; consume and drop
		_, err := p.rows(p.counts["atoms"], "Velocities")
		return err
	case "Bonds":
		return p.connections("bonds")
	case "Angles":
		return p.connections("angles")
	case "Dihedrals":
		return p.connections("dihedrals")
	case "Impropers":
		return p.connections("impropers")
	}
	return p.fail(WrongFormat+": unknown section "+name, "section")
}

// typeRow parses the leading 1-based type index and the numeric columns of
// a per-type row, returning also the "# name" comment.
func (p *parser) typeRow(line string, ncols int, caller string) (int, []float64, string, error) {
	f, comment := fields(line)
	if len(f) < 1+ncols {
		return 0, nil, "", p.fail(WrongFormat+": short row: "+line, caller)
	}
	idx, err := strconv.Atoi(f[0])
	if err != nil {
		return 0, nil, "", p.fail(WrongFormat+": bad type index: "+line, caller)
	}
	vals := make([]float64, 0, len(f)-1)
	for _, s := range f[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, nil, "", p.fail(WrongFormat+": bad number "+s+" in: "+line, caller)
		}
		vals = append(vals, v)
	}
	return idx, vals, comment, nil
}

func typeName(comment string, idx int) string {
	if comment != "" {
		return comment
	}
	return strconv.Itoa(idx)
}

func (p *parser) masses() error {
	rows, err := p.rows(p.typeCounts["atom"], "Masses")
	if err != nil {
		return err
	}
	mu, err := p.sys.UnitFor("mass")
	if err != nil {
		return err
	}
	for _, i := range rows {
		idx, vals, comment, err := p.typeRow(p.lines[i], 1, "Masses")
		if err != nil {
			return err
		}
		at := &moltop.AtomType{Mass: unit.NewQ(vals[0], mu)}
		at.Name = typeName(comment, idx)
		p.atomTypes[idx] = at
	}
	return nil
}

func (p *parser) pairCoeffs() error {
	rows, err := p.rows(p.typeCounts["atom"], "Pair Coeffs")
	if err != nil {
		return err
	}
	tpl, err := ff.Accepted("atom")
	if err != nil {
		return err
	}
	eu, err := p.sys.UnitFor("energy")
	if err != nil {
		return err
	}
	lu, err := p.sys.UnitFor("length")
	if err != nil {
		return err
	}
	for _, i := range rows {
		idx, vals, _, err := p.typeRow(p.lines[i], 2, "Pair Coeffs")
		if err != nil {
			return err
		}
		if len(vals) > 2 {
			log.Printf("lammps: %s: pair row for type %d carries %d extra column(s), likely a cutoff; dropping them",
				p.filename, idx, len(vals)-2)
		}
		at, ok := p.atomTypes[idx]
		if !ok {
			return p.fail(BadReference+": pair coefficients for undefined atom type "+strconv.Itoa(idx), "pairCoeffs")
		}
		at.Expression = tpl.Expression
		at.IndependentVars = append([]string{}, tpl.IndependentVars...)
		at.Params = moltop.Params{
			"epsilon": unit.NewQ(vals[0], eu),
			"sigma":   unit.NewQ(vals[1], lu),
		}
	}
	return nil
}

// harmonicCoeffs reads a two-column harmonic coefficient section. The file
// tabulates the doubled force constant, so the stored k is half the file
// value. The equilibrium value is in eqUnit.
func (p *parser) harmonicCoeffs(section, kind string, n int, kDim unit.Dim, eqName string, store func(idx int, name string, params moltop.Params)) error {
	rows, err := p.rows(n, section)
	if err != nil {
		return err
	}
	tpl, err := ff.Accepted(kind)
	if err != nil {
		return err
	}
	ku, err := p.sys.BaseUnit(kDim, false)
	if err != nil {
		return err
	}
	equ, err := p.sys.BaseUnit(tpl.ParamDims[eqName], true)
	if err != nil {
		return err
	}
	for _, i := range rows {
		idx, vals, comment, err := p.typeRow(p.lines[i], 2, section)
		if err != nil {
			return err
		}
		params := moltop.Params{
			"k":    unit.NewQ(vals[0]/2, ku),
			eqName: unit.NewQ(vals[1], equ),
		}
		store(idx, typeName(comment, idx), params)
	}
	return nil
}

func harmonicForm(kind, name string, params moltop.Params) (moltop.PotForm, error) {
	tpl, err := ff.Accepted(kind)
	if err != nil {
		return moltop.PotForm{}, err
	}
	return moltop.PotForm{
		Name:            name,
		Expression:      tpl.Expression,
		IndependentVars: append([]string{}, tpl.IndependentVars...),
		Params:          params,
	}, nil
}

func (p *parser) bondCoeffs() error {
	return p.harmonicCoeffs("Bond Coeffs", "bond", p.typeCounts["bond"],
		unit.Dim{Energy: 1, Length: -2}, "r_eq",
		func(idx int, name string, params moltop.Params) {
			form, _ := harmonicForm("bond", name, params)
			p.bondTypes[idx] = &moltop.BondType{PotForm: form}
		})
}

func (p *parser) angleCoeffs() error {
	return p.harmonicCoeffs("Angle Coeffs", "angle", p.typeCounts["angle"],
		unit.Dim{Energy: 1, Angle: -2}, "theta_eq",
		func(idx int, name string, params moltop.Params) {
			form, _ := harmonicForm("angle", name, params)
			p.angleTypes[idx] = &moltop.AngleType{PotForm: form}
		})
}

func (p *parser) improperCoeffs() error {
	return p.harmonicCoeffs("Improper Coeffs", "improper", p.typeCounts["improper"],
		unit.Dim{Energy: 1, Angle: -2}, "phi_eq",
		func(idx int, name string, params moltop.Params) {
			form, _ := harmonicForm("improper", name, params)
			p.improperTypes[idx] = &moltop.ImproperType{PotForm: form}
		})
}

func (p *parser) dihedralCoeffs() error {
	rows, err := p.rows(p.typeCounts["dihedral"], "Dihedral Coeffs")
	if err != nil {
		return err
	}
	tpl, err := ff.Accepted("dihedral")
	if err != nil {
		return err
	}
	eu, err := p.sys.UnitFor("energy")
	if err != nil {
		return err
	}
	for _, i := range rows {
		idx, vals, comment, err := p.typeRow(p.lines[i], 4, "Dihedral Coeffs")
		if err != nil {
			return err
		}
		p.dihedralTypes[idx] = &moltop.DihedralType{PotForm: moltop.PotForm{
			Name:            typeName(comment, idx),
			Expression:      tpl.Expression,
			IndependentVars: append([]string{}, tpl.IndependentVars...),
			Params: moltop.Params{
				"k1": unit.NewQ(vals[0], eu),
				"k2": unit.NewQ(vals[1], eu),
				"k3": unit.NewQ(vals[2], eu),
				"k4": unit.NewQ(vals[3], eu),
			},
		}}
	}
	return nil
}

// atoms reads the Atoms section in the full style: id, molecule, type,
// charge, x, y, z. Atom ids must cover 1..N; rows may come in any order.
func (p *parser) atoms() error {
	n := p.counts["atoms"]
	rows, err := p.rows(n, "Atoms")
	if err != nil {
		return err
	}
	lu, err := p.sys.UnitFor("length")
	if err != nil {
		return err
	}
	qu, err := p.sys.UnitFor("charge")
	if err != nil {
		return err
	}
	byID := make([]*moltop.Atom, n)
	for _, i := range rows {
		f, comment := fields(p.lines[i])
		if len(f) < 7 {
			return p.fail(WrongFormat+": short atom row: "+p.lines[i], "atoms")
		}
		id, err1 := strconv.Atoi(f[0])
		mol, err2 := strconv.Atoi(f[1])
		tIdx, err3 := strconv.Atoi(f[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return p.fail(WrongFormat+": bad atom row: "+p.lines[i], "atoms")
		}
		if id < 1 || id > n {
			return p.fail(WrongFormat+": atom id "+f[0]+" outside 1.."+strconv.Itoa(n), "atoms")
		}
		if byID[id-1] != nil {
			return p.fail(WrongFormat+": duplicate atom id "+f[0], "atoms")
		}
		nums := make([]float64, 4)
		for j, s := range f[3:7] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return p.fail(WrongFormat+": bad number "+s+" in atom row", "atoms")
			}
			nums[j] = v
		}
		at, ok := p.atomTypes[tIdx]
		if !ok {
			return p.fail(BadReference+": atom "+f[0]+" references undefined type "+f[2], "atoms")
		}
		a := &moltop.Atom{
			MolID:  mol,
			Charge: unit.NewQ(nums[0], qu),
			Pos: [3]unit.Q{unit.NewQ(nums[1], lu), unit.NewQ(nums[2], lu),
				unit.NewQ(nums[3], lu)},
			Type: at,
		}
		a.Symbol = moltop.ElementByMass(at.Mass.Canon())
		switch {
		case comment != "":
			a.Name = comment
		case a.Symbol != "":
			a.Name = a.Symbol
		default:
			a.Name = at.Name
		}
		byID[id-1] = a
	}
	for _, a := range byID {
		p.top.AddAtom(a)
	}
	return nil
}

// connections reads one of the Bonds/Angles/Dihedrals/Impropers sections.
// Every row gets its own copy of the referenced type record, annotated with
// the atom-type names of its members.
func (p *parser) connections(kind string) error {
	arity := map[string]int{"bonds": 2, "angles": 3, "dihedrals": 4, "impropers": 4}[kind]
	rows, err := p.rows(p.counts[kind], kind)
	if err != nil {
		return err
	}
	for _, i := range rows {
		f, _ := fields(p.lines[i])
		if len(f) < 2+arity {
			return p.fail(WrongFormat+": short row: "+p.lines[i], kind)
		}
		nums := make([]int, 0, 1+arity)
		for _, s := range f[1 : 2+arity] { //the row id itself is ignored
			v, err := strconv.Atoi(s)
			if err != nil {
				return p.fail(WrongFormat+": bad number "+s+" in: "+p.lines[i], kind)
			}
			nums = append(nums, v)
		}
		tIdx := nums[0]
		members := make([]*moltop.Atom, arity)
		names := make([]string, arity)
		for j, id := range nums[1:] {
			if id < 1 || id > p.top.Len() {
				return p.fail(BadReference+": atom id "+strconv.Itoa(id)+" in "+kind, kind)
			}
			members[j] = p.top.Atom(id - 1)
			if members[j].Type != nil {
				names[j] = members[j].Type.Name
			}
		}
		switch kind {
		case "bonds":
			t, ok := p.bondTypes[tIdx]
			if !ok {
				return p.fail(BadReference+": undefined bond type "+strconv.Itoa(tIdx), kind)
			}
			nt := t.Copy()
			nt.MemberTypes = [2]string{names[0], names[1]}
			b, err := moltop.NewBond(members[0], members[1], nt)
			if err != nil {
				return errDecorate(err, kind)
			}
			p.top.AddBond(b)
		case "angles":
			t, ok := p.angleTypes[tIdx]
			if !ok {
				return p.fail(BadReference+": undefined angle type "+strconv.Itoa(tIdx), kind)
			}
			nt := t.Copy()
			nt.MemberTypes = [3]string{names[0], names[1], names[2]}
			a, err := moltop.NewAngle(members[0], members[1], members[2], nt)
			if err != nil {
				return errDecorate(err, kind)
			}
			p.top.AddAngle(a)
		case "dihedrals":
			t, ok := p.dihedralTypes[tIdx]
			if !ok {
				return p.fail(BadReference+": undefined dihedral type "+strconv.Itoa(tIdx), kind)
			}
			nt := t.Copy()
			nt.MemberTypes = [4]string{names[0], names[1], names[2], names[3]}
			d, err := moltop.NewDihedral(members[0], members[1], members[2], members[3], nt)
			if err != nil {
				return errDecorate(err, kind)
			}
			p.top.AddDihedral(d)
		case "impropers":
			t, ok := p.improperTypes[tIdx]
			if !ok {
				return p.fail(BadReference+": undefined improper type "+strconv.Itoa(tIdx), kind)
			}
			nt := t.Copy()
			nt.MemberTypes = [4]string{names[0], names[1], names[2], names[3]}
			im, err := moltop.NewImproper(members[0], members[1], members[2], members[3], nt)
			if err != nil {
				return errDecorate(err, kind)
			}
			p.top.AddImproper(im)
		}
	}
	return nil
}
