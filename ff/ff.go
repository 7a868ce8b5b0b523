//Package ff holds a small library of canonical potential functional forms
//(templates), algebraic conversions between equivalent parameterizations,
//and the compatibility checks the data-format codec runs in its strict
//modes. The template definitions are embedded in the binary; the library is
//read-only and lookups return copies.
package ff

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/unit"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template is a canonical functional form: a symbolic expression over the
// independent variables, plus the expected dimensionality of each parameter.
type Template struct {
	Name            string              `yaml:"name"`
	Expression      string              `yaml:"expression"`
	IndependentVars []string            `yaml:"independent_variables"`
	ParamDims       map[string]unit.Dim `yaml:"parameters"`
}

// ParamNames returns the parameter names of the template, sorted.
func (t *Template) ParamNames() []string {
	names := make([]string, 0, len(t.ParamDims))
	for k := range t.ParamDims {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func normExpr(e string) string {
	return strings.Join(strings.Fields(e), "")
}

// Matches reports whether the given form is an instance of the template:
// same normalized expression, same independent-variable set and same
// parameter names. The form's Name is ignored, so renamed but structurally
// identical potentials still match.
func (t *Template) Matches(form *moltop.PotForm) bool {
	if normExpr(form.Expression) != normExpr(t.Expression) {
		return false
	}
	if len(form.IndependentVars) != len(t.IndependentVars) {
		return false
	}
	fv := append([]string{}, form.IndependentVars...)
	tv := append([]string{}, t.IndependentVars...)
	sort.Strings(fv)
	sort.Strings(tv)
	for i := range fv {
		if fv[i] != tv[i] {
			return false
		}
	}
	if len(form.Params) != len(t.ParamDims) {
		return false
	}
	for k := range t.ParamDims {
		if _, ok := form.Params[k]; !ok {
			return false
		}
	}
	return true
}

func (t *Template) copy() *Template {
	n := new(Template)
	*n = *t
	n.IndependentVars = append([]string{}, t.IndependentVars...)
	n.ParamDims = make(map[string]unit.Dim, len(t.ParamDims))
	for k, v := range t.ParamDims {
		n.ParamDims[k] = v
	}
	return n
}

var templates map[string]*Template

func init() {
	var f struct {
		Templates []*Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(templatesYAML, &f); err != nil {
		panic("ff: embedded template library is malformed: " + err.Error())
	}
	templates = make(map[string]*Template, len(f.Templates))
	for _, t := range f.Templates {
		templates[t.Name] = t
	}
}

// Get returns a copy of the template with the given canonical name.
func Get(name string) (*Template, error) {
	t, ok := templates[name]
	if !ok {
		return nil, fmt.Errorf("ff: no template named %q", name)
	}
	return t.copy(), nil
}

// Names returns the canonical names of all templates in the library, sorted.
func Names() []string {
	names := make([]string, 0, len(templates))
	for k := range templates {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Match returns the library template the form is an instance of, or nil.
func Match(form *moltop.PotForm) *Template {
	for _, t := range templates {
		if t.Matches(form) {
			return t.copy()
		}
	}
	return nil
}

// The interaction kinds and the single template the data format accepts for
// each of them.
var accepted = map[string]string{
	"atom":     "LennardJonesPotential",
	"bond":     "HarmonicBondPotential",
	"angle":    "HarmonicAnglePotential",
	"dihedral": "OPLSTorsionPotential",
	"improper": "HarmonicImproperPotential",
}

// Accepted returns the template the data format accepts for the given
// interaction kind (atom, bond, angle, dihedral or improper).
func Accepted(kind string) (*Template, error) {
	name, ok := accepted[kind]
	if !ok {
		return nil, fmt.Errorf("ff: unknown interaction kind %q", kind)
	}
	return Get(name)
}

// IncompatiblePotentialError reports type records of one interaction kind
// whose functional form the data format does not accept and that could not
// (or, in strict mode, may not) be converted.
type IncompatiblePotentialError struct {
	Kind  string
	Names []string
}

func (e *IncompatiblePotentialError) Error() string {
	return fmt.Sprintf("ff: %s type(s) %s don't follow a supported potential form",
		e.Kind, strings.Join(e.Names, ", "))
}

// IncompatibleUnitsError reports a parameter whose stored value disagrees
// with its value converted to the output unit system.
type IncompatibleUnitsError struct {
	TypeName  string
	Param     string
	Stored    float64
	Converted float64
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("ff: parameter %s of type %s is not in the output unit system (stored %g, expected %g)",
		e.Param, e.TypeName, e.Stored, e.Converted)
}
