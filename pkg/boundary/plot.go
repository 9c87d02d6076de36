package boundary

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Overlay is the held-out test set drawn on top of the decision
// regions: the two feature columns plus the true labels.
type Overlay struct {
	X      mat.Matrix
	Labels []int
}

// Render draws the predicted-class regions for the lattice as a heat
// map and scatters the overlay's true labels on top, writing a PNG to
// path. preds must be aligned with Grid.Matrix rows.
func Render(g Grid, preds []int, ov Overlay, xLabel, yLabel, title, path string) error {
	if want := len(g.X) * len(g.Y); len(preds) != want {
		return fmt.Errorf("boundary: %d predictions for a %d-point lattice", len(preds), want)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	hm := plotter.NewHeatMap(surface{g: g, z: preds}, classPalette{})
	hm.Min, hm.Max = 0, 1
	p.Add(hm)

	if ov.X != nil {
		expired, survived, err := overlayPoints(ov)
		if err != nil {
			return err
		}
		if err := addScatter(p, expired, color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, "expired"); err != nil {
			return err
		}
		if err := addScatter(p, survived, color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, "survived"); err != nil {
			return err
		}
	}

	if err := p.Save(6*vg.Inch, 4.5*vg.Inch, path); err != nil {
		return fmt.Errorf("boundary: save %s: %w", path, err)
	}
	return nil
}

func overlayPoints(ov Overlay) (expired, survived plotter.XYs, err error) {
	n, cols := ov.X.Dims()
	if cols != 2 {
		return nil, nil, fmt.Errorf("boundary: overlay wants 2 feature columns, got %d", cols)
	}
	if len(ov.Labels) != n {
		return nil, nil, fmt.Errorf("boundary: overlay has %d labels for %d rows", len(ov.Labels), n)
	}
	for i := 0; i < n; i++ {
		pt := plotter.XY{X: ov.X.At(i, 0), Y: ov.X.At(i, 1)}
		if ov.Labels[i] == 0 {
			expired = append(expired, pt)
		} else {
			survived = append(survived, pt)
		}
	}
	return expired, survived, nil
}

func addScatter(p *plot.Plot, pts plotter.XYs, c color.Color, label string) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("boundary: scatter: %w", err)
	}
	s.GlyphStyle = draw.GlyphStyle{
		Color:  c,
		Radius: vg.Points(2.5),
		Shape:  draw.CircleGlyph{},
	}
	p.Add(s)
	p.Legend.Add(label, s)
	return nil
}

// classPalette shades the two predicted classes with washed-out
// versions of the overlay colors so the test points stay legible.
type classPalette struct{}

func (classPalette) Colors() []color.Color {
	return []color.Color{
		color.RGBA{R: 0xf2, G: 0xc5, B: 0xc5, A: 0xff}, // predicted expired
		color.RGBA{R: 0xc5, G: 0xd9, B: 0xf2, A: 0xff}, // predicted survived
	}
}
