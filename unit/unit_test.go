package unit

import (
	"math"
	"testing"
)

func TestStyleErrors(Te *testing.T) {
	_, err := NewSystem("imperial")
	if err == nil {
		Te.Fatal("expected an error for a made-up style")
	}
	if _, ok := err.(UnsupportedStyleError); !ok {
		Te.Errorf("wrong error type: %T", err)
	}
	s, err := NewSystem("real")
	if err != nil {
		Te.Fatal(err)
	}
	_, err = s.UnitFor("beauty")
	if err == nil {
		Te.Fatal("expected an error for a made-up dimension")
	}
	if _, ok := err.(UnsupportedDimensionError); !ok {
		Te.Errorf("wrong error type: %T", err)
	}
}

func TestConvertLinearity(Te *testing.T) {
	s, err := NewSystem("metal")
	if err != nil {
		Te.Fatal(err)
	}
	one, err := s.ConvertParameter(NewQ(1, KCalMol), nil, -1, "k")
	if err != nil {
		Te.Fatal(err)
	}
	ten, err := s.ConvertParameter(NewQ(10, KCalMol), nil, -1, "k")
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(ten-10*one) > 1e-4 {
		Te.Errorf("conversion is not linear: f(1)=%v, f(10)=%v", one, ten)
	}
	//1 kcal/mol in eV
	if math.Abs(one-1/EV2Kcal) > 1e-6 {
		Te.Errorf("kcal/mol to eV: got %v, want %v", one, 1/EV2Kcal)
	}
}

// Equilibrium angles go to degrees while angular force constants keep their
// radians, even though both carry the angle dimension.
func TestAngleVersusAngleEq(Te *testing.T) {
	s, err := NewSystem("real")
	if err != nil {
		Te.Fatal(err)
	}
	theta := NewQ(math.Pi/2, Rad)
	eq, err := s.ConvertParameter(theta, nil, -1, "theta_eq")
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(eq-90) > 1e-6 {
		Te.Errorf("theta_eq: got %v, want 90", eq)
	}
	k := NewQ(50, KCalMol.Div(Rad.Pow(2)))
	kv, err := s.ConvertParameter(k, nil, -1, "k")
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(kv-50) > 1e-6 {
		Te.Errorf("angular k should stay in radians: got %v, want 50", kv)
	}
	Te.Logf("theta_eq -> %v degree, k -> %v kcal/(mol radian^2)", eq, kv)
}

func TestReducedConversion(Te *testing.T) {
	s, err := NewSystem("lj")
	if err != nil {
		Te.Fatal(err)
	}
	cf := map[string]Q{
		"length": NewQ(3.5, Angstrom),
		"energy": NewQ(0.2, KCalMol),
		"mass":   NewQ(12, GMol),
		"charge": NewQ(1, ECharge),
	}
	//a length reduces by sigma
	l, err := s.ConvertParameter(NewQ(7, Angstrom), cf, -1, "r_eq")
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(l-2) > 1e-6 {
		Te.Errorf("reduced length: got %v, want 2", l)
	}
	//an energy reduces by epsilon
	e, err := s.ConvertParameter(NewQ(1, KCalMol), cf, -1, "epsilon")
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(e-5) > 1e-6 {
		Te.Errorf("reduced energy: got %v, want 5", e)
	}
	//a velocity (length/time) substitutes tau through tau^2=m sigma^2/eps:
	//v* = v * sqrt(m/eps)
	vel := NewQ(0.1, Angstrom.Div(Fs))
	v, err := s.ConvertParameter(vel, cf, -1, "v")
	if err != nil {
		Te.Fatal(err)
	}
	want := RoundTo(0.1*math.Sqrt(12/0.2), 6)
	if math.Abs(v-want) > 1e-6 {
		Te.Errorf("reduced velocity: got %v, want %v", v, want)
	}
	//angles stay in radians under lj
	a, err := s.ConvertParameter(NewQ(90, Deg), cf, -1, "theta_eq")
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(a-RoundTo(math.Pi/2, 6)) > 1e-6 {
		Te.Errorf("lj angle: got %v, want pi/2", a)
	}
}

func TestReducedMissingFactor(Te *testing.T) {
	s, _ := NewSystem("lj")
	_, err := s.ConvertParameter(NewQ(7, Angstrom), map[string]Q{}, -1, "r_eq")
	if err == nil {
		Te.Fatal("expected an error with no length factor")
	}
	Te.Log(err)
}

func TestUnitAlgebra(Te *testing.T) {
	kunit := KCalMol.Div(Angstrom.Pow(2))
	if kunit.Dim() != (Dim{Energy: 1, Length: -2}) {
		Te.Errorf("wrong dimension vector: %+v", kunit.Dim())
	}
	q := NewQ(1, KJMol.Div(NM.Pow(2)))
	//1 kJ/(mol nm^2) = (1/4.184)/100 kcal/(mol A^2)
	got, err := q.In(kunit)
	if err != nil {
		Te.Fatal(err)
	}
	want := KJ2Kcal / 100
	if math.Abs(got-want) > 1e-9 {
		Te.Errorf("got %v, want %v", got, want)
	}
}
