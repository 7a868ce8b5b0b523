package ffplot

import (
	"os"
	"path/filepath"
	"testing"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/unit"
)

func TestBondPlot(Te *testing.T) {
	bt := &moltop.BondType{PotForm: moltop.PotForm{
		Name:            "CT-CT",
		Expression:      "k*(r-r_eq)**2",
		IndependentVars: []string{"r"},
		Params: moltop.Params{
			"k":    unit.NewQ(268, unit.KCalMol.Div(unit.Angstrom.Pow(2))),
			"r_eq": unit.NewQ(1.529, unit.Angstrom),
		},
	}}
	fname := filepath.Join(Te.TempDir(), "bond.png")
	if err := Bond(bt, fname, nil); err != nil {
		Te.Fatal(err)
	}
	fi, err := os.Stat(fname)
	if err != nil {
		Te.Fatal(err)
	}
	if fi.Size() == 0 {
		Te.Error("empty plot file")
	}
}

func TestTorsionPlot(Te *testing.T) {
	dt := &moltop.DihedralType{PotForm: moltop.PotForm{
		Name:            "CT-CT-CT-CT",
		Expression:      "0.5*k1*(1+cos(phi)) + 0.5*k2*(1-cos(2*phi)) + 0.5*k3*(1+cos(3*phi)) + 0.5*k4*(1-cos(4*phi))",
		IndependentVars: []string{"phi"},
		Params: moltop.Params{
			"k1": unit.NewQ(1.3, unit.KCalMol),
			"k2": unit.NewQ(-0.05, unit.KCalMol),
			"k3": unit.NewQ(0.2, unit.KCalMol),
			"k4": unit.NewQ(0, unit.KCalMol),
		},
	}}
	fname := filepath.Join(Te.TempDir(), "torsion.png")
	if err := Torsion(dt, fname, nil); err != nil {
		Te.Fatal(err)
	}
}

func TestUnmatchedFormFails(Te *testing.T) {
	bt := &moltop.BondType{PotForm: moltop.PotForm{
		Name:            "weird",
		Expression:      "k*exp(r)",
		IndependentVars: []string{"r"},
		Params:          moltop.Params{"k": unit.NewQ(1, unit.KCalMol)},
	}}
	bt.Params["r_eq"] = unit.NewQ(1, unit.Angstrom)
	if err := Bond(bt, filepath.Join(Te.TempDir(), "x.png"), nil); err == nil {
		Te.Error("a form outside the library should fail to plot")
	}
}
