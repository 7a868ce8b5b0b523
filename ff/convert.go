package ff

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats/scalar"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/unit"
)

// A conversion rewrites the parameters of one template into those of
// another, equivalent one. Conversions are pure: they only see and return
// parameter maps.
type conversion func(moltop.Params) (moltop.Params, error)

var conversions = map[[2]string]conversion{
	{"OPLSTorsionPotential", "RyckaertBellemansTorsionPotential"}: oplsToRB,
	{"RyckaertBellemansTorsionPotential", "OPLSTorsionPotential"}: rbToOPLS,
}

func canon(p moltop.Params, key string) (float64, error) {
	q, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("ff: missing parameter %q", key)
	}
	return q.Canon(), nil
}

func canonAll(p moltop.Params, keys ...string) ([]float64, error) {
	vs := make([]float64, len(keys))
	for i, k := range keys {
		v, err := canon(p, k)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}

// oplsToRB converts OPLS torsion constants to Ryckaert-Bellemans
// coefficients. The transform is exact and linear.
func oplsToRB(p moltop.Params) (moltop.Params, error) {
	k, err := canonAll(p, "k1", "k2", "k3", "k4")
	if err != nil {
		return nil, err
	}
	k1, k2, k3, k4 := k[0], k[1], k[2], k[3]
	e := unit.KCalMol
	return moltop.Params{
		"c0": unit.NewQ(k2+0.5*(k1+k3), e),
		"c1": unit.NewQ(0.5*(-k1+3*k3), e),
		"c2": unit.NewQ(-k2+4*k4, e),
		"c3": unit.NewQ(-2*k3, e),
		"c4": unit.NewQ(-4*k4, e),
		"c5": unit.NewQ(0, e),
	}, nil
}

// rbToOPLS converts Ryckaert-Bellemans coefficients back to OPLS constants.
// The OPLS form spans only the RB coefficients with c5 == 0, so a
// significant c5 is an error.
func rbToOPLS(p moltop.Params) (moltop.Params, error) {
	c, err := canonAll(p, "c0", "c1", "c2", "c3", "c4", "c5")
	if err != nil {
		return nil, err
	}
	c1, c2, c3, c4, c5 := c[1], c[2], c[3], c[4], c[5]
	if math.Abs(c5) > 1e-8 {
		return nil, fmt.Errorf("ff: Ryckaert-Bellemans coefficients with c5 = %g have no OPLS equivalent", c5)
	}
	e := unit.KCalMol
	return moltop.Params{
		"k1": unit.NewQ(-2*c1-3*c3/2, e),
		"k2": unit.NewQ(-c2-c4, e),
		"k3": unit.NewQ(-c3/2, e),
		"k4": unit.NewQ(-c4/4, e),
	}, nil
}

// retype overwrites the form with an instance of the template carrying the
// given parameters. The MemberTypes annotation of the enclosing record is
// untouched.
func retype(form *moltop.PotForm, tpl *Template, p moltop.Params) {
	form.Name = tpl.Name
	form.Expression = tpl.Expression
	form.IndependentVars = append([]string{}, tpl.IndependentVars...)
	form.Params = p
}

// convertForm brings form to the accepted template for kind, rewriting it in
// place through a registered conversion when it matches some other known
// template. It returns false when no path to the accepted form exists.
func convertForm(form *moltop.PotForm, kind string) (bool, error) {
	acc, err := Accepted(kind)
	if err != nil {
		return false, err
	}
	if acc.Matches(form) {
		return true, nil
	}
	from := Match(form)
	if from == nil {
		return false, nil
	}
	conv, ok := conversions[[2]string{from.Name, acc.Name}]
	if !ok {
		return false, nil
	}
	np, err := conv(form.Params)
	if err != nil {
		return false, err
	}
	retype(form, acc, np)
	return true, nil
}

// ConvertStyles rewrites, in place, every type record of the topology whose
// functional form the data format does not accept, using the registered
// conversions. Type records shared by several connections are rewritten
// once. It returns an IncompatiblePotentialError naming the types of the
// first kind for which no conversion path exists.
func ConvertStyles(top *moltop.Topology) error {
	bad := func(kind string, names []string) error {
		return &IncompatiblePotentialError{Kind: kind, Names: names}
	}
	var offenders []string
	seenAt := make(map[*moltop.AtomType]bool)
	for _, at := range top.Atoms {
		if at.Type == nil || seenAt[at.Type] {
			continue
		}
		seenAt[at.Type] = true
		//no conversions target the non-bonded form, so this only validates
		ok, err := convertForm(&at.Type.PotForm, "atom")
		if err != nil {
			return err
		}
		if !ok {
			offenders = append(offenders, at.Type.Name)
		}
	}
	if offenders != nil {
		return bad("atom", offenders)
	}
	seenB := make(map[*moltop.BondType]bool)
	for _, b := range top.Bonds {
		if b.Type == nil || seenB[b.Type] {
			continue
		}
		seenB[b.Type] = true
		ok, err := convertForm(&b.Type.PotForm, "bond")
		if err != nil {
			return err
		}
		if !ok {
			offenders = append(offenders, b.Type.Name)
		}
	}
	if offenders != nil {
		return bad("bond", offenders)
	}
	seenA := make(map[*moltop.AngleType]bool)
	for _, a := range top.Angles {
		if a.Type == nil || seenA[a.Type] {
			continue
		}
		seenA[a.Type] = true
		ok, err := convertForm(&a.Type.PotForm, "angle")
		if err != nil {
			return err
		}
		if !ok {
			offenders = append(offenders, a.Type.Name)
		}
	}
	if offenders != nil {
		return bad("angle", offenders)
	}
	seenD := make(map[*moltop.DihedralType]bool)
	for _, d := range top.Dihedrals {
		if d.Type == nil || seenD[d.Type] {
			continue
		}
		seenD[d.Type] = true
		ok, err := convertForm(&d.Type.PotForm, "dihedral")
		if err != nil {
			return err
		}
		if !ok {
			offenders = append(offenders, d.Type.Name)
		}
	}
	if offenders != nil {
		return bad("dihedral", offenders)
	}
	seenI := make(map[*moltop.ImproperType]bool)
	for _, im := range top.Impropers {
		if im.Type == nil || seenI[im.Type] {
			continue
		}
		seenI[im.Type] = true
		ok, err := convertForm(&im.Type.PotForm, "improper")
		if err != nil {
			return err
		}
		if !ok {
			offenders = append(offenders, im.Type.Name)
		}
	}
	if offenders != nil {
		return bad("improper", offenders)
	}
	return nil
}

// CheckPotentials validates that every type record of the topology already
// follows the accepted template for its kind, without converting anything.
func CheckPotentials(top *moltop.Topology) error {
	check := func(kind string, forms map[string]*moltop.PotForm) error {
		acc, err := Accepted(kind)
		if err != nil {
			return err
		}
		var offenders []string
		for name, f := range forms {
			if !acc.Matches(f) {
				offenders = append(offenders, name)
			}
		}
		if offenders != nil {
			//deterministic order for the error message
			sort.Strings(offenders)
			return &IncompatiblePotentialError{Kind: kind, Names: offenders}
		}
		return nil
	}
	forms := make(map[string]*moltop.PotForm)
	for _, t := range top.AtomTypes() {
		forms[t.Name] = &t.PotForm
	}
	if err := check("atom", forms); err != nil {
		return err
	}
	forms = make(map[string]*moltop.PotForm)
	for _, t := range top.BondTypes() {
		forms[t.Name] = &t.PotForm
	}
	if err := check("bond", forms); err != nil {
		return err
	}
	forms = make(map[string]*moltop.PotForm)
	for _, t := range top.AngleTypes() {
		forms[t.Name] = &t.PotForm
	}
	if err := check("angle", forms); err != nil {
		return err
	}
	forms = make(map[string]*moltop.PotForm)
	for _, t := range top.DihedralTypes() {
		forms[t.Name] = &t.PotForm
	}
	if err := check("dihedral", forms); err != nil {
		return err
	}
	forms = make(map[string]*moltop.PotForm)
	for _, t := range top.ImproperTypes() {
		forms[t.Name] = &t.PotForm
	}
	return check("improper", forms)
}

// CheckUnits validates that every parameter of every type record, plus the
// atom-type masses and charges, is already expressed in the base units of
// sys: the converted value must match the stored one within 1e-3.
func CheckUnits(top *moltop.Topology, sys *unit.System, cfactors map[string]unit.Q) error {
	checkQ := func(typeName, param string, q unit.Q) error {
		conv, err := sys.ConvertParameter(q, cfactors, -1, param)
		if err != nil {
			return err
		}
		if !scalar.EqualWithinAbs(conv, q.V, 1e-3) {
			return &IncompatibleUnitsError{TypeName: typeName, Param: param, Stored: q.V, Converted: conv}
		}
		return nil
	}
	checkForm := func(f *moltop.PotForm) error {
		for name, q := range f.Params {
			if err := checkQ(f.Name, name, q); err != nil {
				return err
			}
		}
		return nil
	}
	for _, t := range top.AtomTypes() {
		if err := checkForm(&t.PotForm); err != nil {
			return err
		}
		if err := checkQ(t.Name, "mass", t.Mass); err != nil {
			return err
		}
		if err := checkQ(t.Name, "charge", t.Charge); err != nil {
			return err
		}
	}
	for _, t := range top.BondTypes() {
		if err := checkForm(&t.PotForm); err != nil {
			return err
		}
	}
	for _, t := range top.AngleTypes() {
		if err := checkForm(&t.PotForm); err != nil {
			return err
		}
	}
	for _, t := range top.DihedralTypes() {
		if err := checkForm(&t.PotForm); err != nil {
			return err
		}
	}
	for _, t := range top.ImproperTypes() {
		if err := checkForm(&t.PotForm); err != nil {
			return err
		}
	}
	return nil
}
