package report

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// WriteChart saves a PNG scatter of predicted home margin against win
// probability, each point labelled with its matchup.
func WriteChart(path string, preds []nfl.Prediction) error {
	var kept []nfl.Prediction
	for _, pr := range preds {
		if !math.IsNaN(pr.Margin()) && !math.IsNaN(pr.WinProbability) {
			kept = append(kept, pr)
		}
	}
	if len(kept) == 0 {
		return fmt.Errorf("chart: no complete predictions")
	}
	preds = kept

	p := plot.New()
	p.Title.Text = "Predicted margin vs win probability"
	p.X.Label.Text = "Predicted home margin (points)"
	p.Y.Label.Text = "Home win probability"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(preds))
	labels := make([]string, len(preds))
	for i, pr := range preds {
		pts[i].X = pr.Margin()
		pts[i].Y = pr.WinProbability
		labels[i] = fmt.Sprintf("%s-%s", pr.Home, pr.Away)
	}

	s, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	s.Color = color.RGBA{B: 255, A: 255, R: 50, G: 50}
	s.Shape = draw.CircleGlyph{}
	s.Radius = vg.Points(3)
	p.Add(s)

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	p.Add(l)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dir %s: %w", dir, err)
		}
	}
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("saving chart %s: %w", path, err)
	}
	return nil
}
