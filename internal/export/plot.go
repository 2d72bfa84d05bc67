package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	measuredColor     = color.RGBA{R: 178, G: 34, B: 34, A: 255} // firebrick
	interpolatedColor = color.RGBA{G: 128, A: 255}
	originColor       = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// PlotPath renders poses and the given frame origins to an image file. The
// format follows the file extension (.png, .svg, .pdf).
func PlotPath(path, title string, poses []Pose, origins map[string]Pose) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Add(plotter.NewGrid())

	var measured, interpolated plotter.XYs
	for _, pose := range poses {
		xy := plotter.XY{X: pose.X, Y: pose.Y}
		if pose.Interpolated {
			interpolated = append(interpolated, xy)
		} else {
			measured = append(measured, xy)
		}
	}

	if err := addScatter(p, "measured", measured, measuredColor, draw.CircleGlyph{}); err != nil {
		return err
	}
	if err := addScatter(p, "interpolated", interpolated, interpolatedColor, draw.CircleGlyph{}); err != nil {
		return err
	}

	if len(origins) > 0 {
		names := make([]string, 0, len(origins))
		for name := range origins {
			names = append(names, name)
		}
		sort.Strings(names)

		labels := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(names)),
			Labels: names,
		}
		for i, name := range names {
			labels.XYs[i] = plotter.XY{X: origins[name].X, Y: origins[name].Y}
		}
		if err := addScatter(p, "frame origins", labels.XYs, originColor, draw.SquareGlyph{}); err != nil {
			return err
		}
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return fmt.Errorf("failed to build origin labels: %w", err)
		}
		p.Add(l)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

func addScatter(p *plot.Plot, name string, pts plotter.XYs, c color.Color, shape draw.GlyphDrawer) error {
	if len(pts) == 0 {
		return nil
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build %s series: %w", name, err)
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = shape
	s.GlyphStyle.Radius = vg.Points(3)
	p.Add(s)
	p.Legend.Add(name, s)
	return nil
}
