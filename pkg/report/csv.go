package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// Frame returns the predictions as a dataframe with the report headers.
func Frame(preds []nfl.Prediction) dataframe.DataFrame {
	n := len(preds)
	var (
		season, week             = make([]int, n), make([]int, n)
		home, away, date, dow    = make([]string, n), make([]string, n), make([]string, n), make([]string, n)
		winP, conf, pts, ptsAllw = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	)
	for i, p := range preds {
		season[i], week[i] = p.Season, p.Week
		home[i], away[i], date[i], dow[i] = p.Home, p.Away, p.Date, p.DayOfWeek
		winP[i], conf[i], pts[i], ptsAllw[i] = p.WinProbability, p.Confidence, p.PredictedPoints, p.PredictedPointsAllowed
	}
	return dataframe.New(
		series.New(season, series.Int, Headers[0]),
		series.New(week, series.Int, Headers[1]),
		series.New(home, series.String, Headers[2]),
		series.New(away, series.String, Headers[3]),
		series.New(date, series.String, Headers[4]),
		series.New(dow, series.String, Headers[5]),
		series.New(winP, series.Float, Headers[6]),
		series.New(conf, series.Float, Headers[7]),
		series.New(pts, series.Float, Headers[8]),
		series.New(ptsAllw, series.Float, Headers[9]),
	)
}

// WriteCSV writes the predictions to path with a header row.
func WriteCSV(path string, preds []nfl.Prediction) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	df := Frame(preds)
	if df.Err != nil {
		return fmt.Errorf("building frame: %w", df.Err)
	}
	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
