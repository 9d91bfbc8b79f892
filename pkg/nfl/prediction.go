package nfl

// Prediction is one future game in the report.
type Prediction struct {
	Season                 int
	Week                   int
	Home                   string
	Away                   string
	Date                   string
	DayOfWeek              string
	WinProbability         float64
	Confidence             float64
	PredictedPoints        float64
	PredictedPointsAllowed float64
}

// Margin is the predicted home points minus the predicted away points.
func (p Prediction) Margin() float64 { return p.PredictedPoints - p.PredictedPointsAllowed }
