package report

import (
	"fmt"
	"io"
	"math"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// Print writes the predictions as a fixed-width table.
func Print(w io.Writer, preds []nfl.Prediction) {
	fmt.Fprintf(w, "%-7s%-5s%-24s%-24s%-12s%-10s%8s%6s%8s%8s\n",
		"Season", "Wk", "Home Team", "Away Team", "Date", "Day", "WinP", "Conf", "Pts", "PtsAl")
	for _, p := range preds {
		fmt.Fprintf(w, "%-7d%-5d%-24s%-24s%-12s%-10s%8.3f%6s%8s%8s\n",
			p.Season, p.Week, p.Home, p.Away, p.Date, p.DayOfWeek,
			p.WinProbability, num(p.Confidence, 1), num(p.PredictedPoints, 1), num(p.PredictedPointsAllowed, 1))
	}
}

func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.*f", prec, v)
}
