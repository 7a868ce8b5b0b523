package ff

import (
	"fmt"
	"math"

	moltop "github.com/rvallejo/moltop"
)

// Evaluator returns a closure computing the potential energy of the form at
// a given value of its single independent variable. The input and output are
// in the internal base units (Angstrom or radian in, kcal/mol out). The form
// must be an instance of a library template with exactly one independent
// variable.
func Evaluator(form *moltop.PotForm) (func(float64) float64, error) {
	tpl := Match(form)
	if tpl == nil {
		return nil, fmt.Errorf("ff: form %q matches no library template", form.Name)
	}
	if len(tpl.IndependentVars) != 1 {
		return nil, fmt.Errorf("ff: template %q is not single-variable", tpl.Name)
	}
	p := func(key string) float64 { return form.Params[key].Canon() }
	switch tpl.Name {
	case "LennardJonesPotential":
		eps, sig := p("epsilon"), p("sigma")
		return func(r float64) float64 {
			sr6 := math.Pow(sig/r, 6)
			return 4 * eps * (sr6*sr6 - sr6)
		}, nil
	case "HarmonicBondPotential":
		k, req := p("k"), p("r_eq")
		return func(r float64) float64 { return k * (r - req) * (r - req) }, nil
	case "HarmonicAnglePotential":
		k, teq := p("k"), p("theta_eq")
		return func(t float64) float64 { return k * (t - teq) * (t - teq) }, nil
	case "OPLSTorsionPotential":
		k1, k2, k3, k4 := p("k1"), p("k2"), p("k3"), p("k4")
		return func(phi float64) float64 {
			return 0.5*k1*(1+math.Cos(phi)) + 0.5*k2*(1-math.Cos(2*phi)) +
				0.5*k3*(1+math.Cos(3*phi)) + 0.5*k4*(1-math.Cos(4*phi))
		}, nil
	case "RyckaertBellemansTorsionPotential":
		c := []float64{p("c0"), p("c1"), p("c2"), p("c3"), p("c4"), p("c5")}
		return func(phi float64) float64 {
			cos := math.Cos(phi)
			v, pow := 0.0, 1.0
			for _, ci := range c {
				v += ci * pow
				pow *= cos
			}
			return v
		}, nil
	case "PeriodicTorsionPotential":
		k, n, peq := p("k"), p("n"), p("phi_eq")
		return func(phi float64) float64 { return k * (1 + math.Cos(n*phi-peq)) }, nil
	case "HarmonicImproperPotential":
		k, peq := p("k"), p("phi_eq")
		return func(phi float64) float64 { return k * (phi - peq) * (phi - peq) }, nil
	}
	return nil, fmt.Errorf("ff: no evaluator for template %q", tpl.Name)
}
