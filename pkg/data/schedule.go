package data

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Fixture is one scheduled game from the schedule CSV.
type Fixture struct {
	Week      int
	Date      string
	DayOfWeek string
	Home      string
	Away      string
}

// ReadSchedule loads a schedule CSV with columns week, date, dayofweek,
// homeTeam and awayTeam.
func ReadSchedule(path string) ([]Fixture, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyInput, path)
	}
	if _, err := columnIndex(df.Names(), "week", "date", "dayofweek", "homeTeam", "awayTeam"); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make([]Fixture, df.Nrow())
	for i := range out {
		w, err := parseInt(df.Col("week").Elem(i).String(), "week", i+2)
		if err != nil {
			return nil, err
		}
		out[i] = Fixture{
			Week:      w,
			Date:      df.Col("date").Elem(i).String(),
			DayOfWeek: df.Col("dayofweek").Elem(i).String(),
			Home:      df.Col("homeTeam").Elem(i).String(),
			Away:      df.Col("awayTeam").Elem(i).String(),
		}
	}
	return out, nil
}
