package ff

import (
	"math"
	"testing"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/unit"
)

func TestLibrary(Te *testing.T) {
	names := Names()
	if len(names) != 7 {
		Te.Fatalf("expected 7 templates, got %d: %v", len(names), names)
	}
	t, err := Get("HarmonicBondPotential")
	if err != nil {
		Te.Fatal(err)
	}
	if len(t.IndependentVars) != 1 || t.IndependentVars[0] != "r" {
		Te.Errorf("wrong variables: %v", t.IndependentVars)
	}
	if t.ParamDims["k"] != (unit.Dim{Energy: 1, Length: -2}) {
		Te.Errorf("wrong k dimension: %+v", t.ParamDims["k"])
	}
	//lookups return copies: mutating one must not poison the library
	t.Expression = "mangled"
	t2, _ := Get("HarmonicBondPotential")
	if t2.Expression == "mangled" {
		Te.Error("Get should return a copy")
	}
	if _, err := Get("MorsePotential"); err == nil {
		Te.Error("expected an error for an unknown template")
	}
}

func TestMatches(Te *testing.T) {
	tpl, _ := Get("HarmonicBondPotential")
	form := &moltop.PotForm{
		Name:            "whatever", //names don't matter for matching
		Expression:      "k * (r - r_eq)**2",
		IndependentVars: []string{"r"},
		Params: moltop.Params{
			"k":    unit.NewQ(268, unit.KCalMol.Div(unit.Angstrom.Pow(2))),
			"r_eq": unit.NewQ(1.529, unit.Angstrom),
		},
	}
	if !tpl.Matches(form) {
		Te.Error("spacing and naming differences should not break matching")
	}
	form.Expression = "0.5*k*(r-r_eq)**2"
	if tpl.Matches(form) {
		Te.Error("a different expression should not match")
	}
}

func oplsType(k1, k2, k3, k4 float64) *moltop.DihedralType {
	tpl, _ := Get("OPLSTorsionPotential")
	e := unit.KCalMol
	return &moltop.DihedralType{PotForm: moltop.PotForm{
		Name:            "opls",
		Expression:      tpl.Expression,
		IndependentVars: append([]string{}, tpl.IndependentVars...),
		Params: moltop.Params{
			"k1": unit.NewQ(k1, e), "k2": unit.NewQ(k2, e),
			"k3": unit.NewQ(k3, e), "k4": unit.NewQ(k4, e),
		},
	}}
}

func TestOPLSRBRoundTrip(Te *testing.T) {
	orig := moltop.Params{
		"k1": unit.NewQ(1.3, unit.KCalMol),
		"k2": unit.NewQ(-0.05, unit.KCalMol),
		"k3": unit.NewQ(0.2, unit.KCalMol),
		"k4": unit.NewQ(0.0, unit.KCalMol),
	}
	rb, err := oplsToRB(orig)
	if err != nil {
		Te.Fatal(err)
	}
	back, err := rbToOPLS(rb)
	if err != nil {
		Te.Fatal(err)
	}
	for _, k := range []string{"k1", "k2", "k3", "k4"} {
		if d := math.Abs(back[k].Canon() - orig[k].Canon()); d > 1e-10 {
			Te.Errorf("%s off by %v after the round trip", k, d)
		}
	}
	//the two parameterizations must evaluate to the same energies
	tplRB, _ := Get("RyckaertBellemansTorsionPotential")
	oplsForm := &oplsType(1.3, -0.05, 0.2, 0).PotForm
	rbForm := &moltop.PotForm{
		Name:            "rb",
		Expression:      tplRB.Expression,
		IndependentVars: append([]string{}, tplRB.IndependentVars...),
		Params:          rb,
	}
	fOPLS, err := Evaluator(oplsForm)
	if err != nil {
		Te.Fatal(err)
	}
	fRB, err := Evaluator(rbForm)
	if err != nil {
		Te.Fatal(err)
	}
	for phi := -math.Pi; phi <= math.Pi; phi += 0.1 {
		//the conventions differ by psi = phi - pi
		if d := math.Abs(fOPLS(phi) - fRB(phi-math.Pi)); d > 1e-9 {
			Te.Errorf("energies disagree at phi=%v by %v", phi, d)
		}
	}
}

func TestRBToOPLSNeedsZeroC5(Te *testing.T) {
	p := moltop.Params{}
	for _, c := range []string{"c0", "c1", "c2", "c3", "c4"} {
		p[c] = unit.NewQ(0.1, unit.KCalMol)
	}
	p["c5"] = unit.NewQ(0.3, unit.KCalMol)
	if _, err := rbToOPLS(p); err == nil {
		Te.Error("a significant c5 has no OPLS equivalent and should fail")
	}
}

func rbTypedTopology(Te *testing.T) *moltop.Topology {
	top := moltop.NewTopology("rb")
	ats := make([]*moltop.Atom, 4)
	for i := range ats {
		ats[i] = &moltop.Atom{Name: "C"}
		top.AddAtom(ats[i])
	}
	tplRB, _ := Get("RyckaertBellemansTorsionPotential")
	rb, err := oplsToRB(moltop.Params{
		"k1": unit.NewQ(1.3, unit.KCalMol),
		"k2": unit.NewQ(-0.05, unit.KCalMol),
		"k3": unit.NewQ(0.2, unit.KCalMol),
		"k4": unit.NewQ(0.0, unit.KCalMol),
	})
	if err != nil {
		Te.Fatal(err)
	}
	dt := &moltop.DihedralType{PotForm: moltop.PotForm{
		Name:            "butane",
		Expression:      tplRB.Expression,
		IndependentVars: append([]string{}, tplRB.IndependentVars...),
		Params:          rb,
	}}
	d, err := moltop.NewDihedral(ats[0], ats[1], ats[2], ats[3], dt)
	if err != nil {
		Te.Fatal(err)
	}
	top.AddDihedral(d)
	return top
}

func TestConvertStyles(Te *testing.T) {
	top := rbTypedTopology(Te)
	if err := ConvertStyles(top); err != nil {
		Te.Fatal(err)
	}
	dt := top.Dihedrals[0].Type
	if dt.Name != "OPLSTorsionPotential" {
		Te.Errorf("type not converted: %s", dt.Name)
	}
	if _, ok := dt.Params["k1"]; !ok {
		Te.Error("converted type lacks OPLS parameters")
	}
}

func TestCheckPotentialsNamesOffenders(Te *testing.T) {
	top := rbTypedTopology(Te)
	err := CheckPotentials(top)
	if err == nil {
		Te.Fatal("an RB-typed topology should fail the strict check")
	}
	perr, ok := err.(*IncompatiblePotentialError)
	if !ok {
		Te.Fatalf("wrong error type: %T", err)
	}
	if perr.Kind != "dihedral" || len(perr.Names) != 1 || perr.Names[0] != "butane" {
		Te.Errorf("error does not name the offender: %+v", perr)
	}
	Te.Log(err)
}

func TestCheckUnits(Te *testing.T) {
	sys, err := unit.NewSystem("real")
	if err != nil {
		Te.Fatal(err)
	}
	top := moltop.NewTopology("units")
	ats := make([]*moltop.Atom, 2)
	bt := &moltop.BondType{PotForm: moltop.PotForm{
		Name:            "CT-CT",
		Expression:      "k*(r-r_eq)**2",
		IndependentVars: []string{"r"},
		Params: moltop.Params{
			"k":    unit.NewQ(268, unit.KCalMol.Div(unit.Angstrom.Pow(2))),
			"r_eq": unit.NewQ(1.529, unit.Angstrom),
		},
	}}
	at := &moltop.AtomType{Mass: unit.NewQ(12.011, unit.GMol)}
	at.Name = "CT"
	for i := range ats {
		ats[i] = &moltop.Atom{Name: "C", Type: at}
		top.AddAtom(ats[i])
	}
	b, _ := moltop.NewBond(ats[0], ats[1], bt)
	top.AddBond(b)
	if err := CheckUnits(top, sys, nil); err != nil {
		Te.Errorf("real-unit values should pass: %v", err)
	}
	//the same bond in kJ/mol units is not "already in" the real style
	bt.Params["k"] = unit.NewQ(268, unit.KJMol.Div(unit.Angstrom.Pow(2)))
	err = CheckUnits(top, sys, nil)
	if err == nil {
		Te.Fatal("kJ/mol values should fail the real-style strict check")
	}
	uerr, ok := err.(*IncompatibleUnitsError)
	if !ok {
		Te.Fatalf("wrong error type: %T", err)
	}
	if uerr.TypeName != "CT-CT" || uerr.Param != "k" {
		Te.Errorf("error does not name type and parameter: %+v", uerr)
	}
	Te.Log(err)
}
