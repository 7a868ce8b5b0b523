//Package ffplot draws potential-energy curves for parameterized interaction
//types, mostly as a quick sanity check of parameters and conversions. Plots
//are saved as PNG files.
package ffplot

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	moltop "github.com/rvallejo/moltop"
	"github.com/rvallejo/moltop/ff"
)

// Options controls the look of the plots. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	Points int //samples along the curve
	Width  vg.Length
	Height vg.Length
	Title  string //empty means the type's name
}

// DefaultOptions returns the default plot settings.
func DefaultOptions() *Options {
	return &Options{Points: 200, Width: 12 * vg.Centimeter, Height: 8 * vg.Centimeter}
}

// curve evaluates the form's potential on n points over [lo,hi].
func curve(form *moltop.PotForm, lo, hi float64, n int) (plotter.XYs, error) {
	eval, err := ff.Evaluator(form)
	if err != nil {
		return nil, err
	}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		x := lo + (hi-lo)*float64(i)/float64(n-1)
		pts[i].X = x
		pts[i].Y = eval(x)
	}
	return pts, nil
}

func save(pts plotter.XYs, xlabel, title, filename string, o *Options) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "E (kcal/mol)"
	p.Add(plotter.NewGrid())
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = color.RGBA{B: 255, A: 255}
	p.Add(line)
	return p.Save(o.Width, o.Height, filename)
}

func title(o *Options, name string) string {
	if o.Title != "" {
		return o.Title
	}
	return name
}

// Bond plots the stretching potential of t around its equilibrium length
// (from half to one-and-a-half times r_eq).
func Bond(t *moltop.BondType, filename string, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	req := t.Params["r_eq"].Canon()
	if req <= 0 {
		return fmt.Errorf("ffplot: bond type %s has no positive equilibrium length", t.Name)
	}
	pts, err := curve(&t.PotForm, req/2, 1.5*req, o.Points)
	if err != nil {
		return err
	}
	return save(pts, "r (A)", title(o, t.Name), filename, o)
}

// Angle plots the bending potential of t over the full 0..180 degree range.
func Angle(t *moltop.AngleType, filename string, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	pts, err := curve(&t.PotForm, 0, math.Pi, o.Points)
	if err != nil {
		return err
	}
	return save(pts, "theta (rad)", title(o, t.Name), filename, o)
}

// Torsion plots the torsional potential of t over -180..180 degrees.
func Torsion(t *moltop.DihedralType, filename string, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	pts, err := curve(&t.PotForm, -math.Pi, math.Pi, o.Points)
	if err != nil {
		return err
	}
	return save(pts, "phi (rad)", title(o, t.Name), filename, o)
}

// Improper plots the out-of-plane potential of t around its equilibrium
// angle, one radian to each side.
func Improper(t *moltop.ImproperType, filename string, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	peq := t.Params["phi_eq"].Canon()
	pts, err := curve(&t.PotForm, peq-1, peq+1, o.Points)
	if err != nil {
		return err
	}
	return save(pts, "phi (rad)", title(o, t.Name), filename, o)
}
