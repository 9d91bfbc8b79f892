package data

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// Key columns of the historical file. Every other column that is not
// discarded is a numeric statistic.
var historyKeys = []string{"Season", "Category", "Week", "Team", "Opponent", "AtHome", "Date"}

// HistoryDiscarded are dropped on load.
var HistoryDiscarded = []string{"Stadium", "Overtime", "VegasTotal", "VegasWin"}

// ReadHistory loads the historical by-team CSV.
func ReadHistory(path string) ([]nfl.TeamWeek, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := ParseHistory(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// ParseHistory reads historical by-team rows from CSV with a header row.
func ParseHistory(r io.Reader) ([]nfl.TeamWeek, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(naValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parsing csv: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, ErrEmptyInput
	}
	if _, err := columnIndex(df.Names(), "Season", "Week", "Team", "Opponent", "AtHome"); err != nil {
		return nil, err
	}

	var drop []string
	for _, name := range df.Names() {
		for _, d := range HistoryDiscarded {
			if name == d {
				drop = append(drop, name)
			}
		}
	}
	if len(drop) > 0 {
		df = df.Drop(drop)
	}

	var statCols []string
	for _, name := range df.Names() {
		if !contains(historyKeys, name) {
			statCols = append(statCols, name)
		}
	}
	statVals := make(map[string][]float64, len(statCols))
	for _, c := range statCols {
		statVals[c] = df.Col(c).Float()
	}

	season, week := df.Col("Season"), df.Col("Week")
	team, opp, home := df.Col("Team"), df.Col("Opponent"), df.Col("AtHome")
	optional := map[string]series.Series{}
	for _, name := range []string{"Category", "Date"} {
		if contains(df.Names(), name) {
			optional[name] = df.Col(name)
		}
	}
	text := func(name string, i int) string {
		col, ok := optional[name]
		if !ok || col.Elem(i).IsNA() {
			return ""
		}
		return col.Elem(i).String()
	}

	rows := make([]nfl.TeamWeek, df.Nrow())
	for i := range rows {
		s, err := parseInt(season.Elem(i).String(), "Season", i+2)
		if err != nil {
			return nil, err
		}
		w, err := parseInt(week.Elem(i).String(), "Week", i+2)
		if err != nil {
			return nil, err
		}
		atHome, err := strconv.ParseBool(strings.TrimSpace(home.Elem(i).String()))
		if err != nil && !home.Elem(i).IsNA() {
			return nil, fmt.Errorf("%w: row %d column AtHome: %q", ErrBadCell, i+2, home.Elem(i).String())
		}
		if team.Elem(i).IsNA() || strings.TrimSpace(team.Elem(i).String()) == "" {
			return nil, fmt.Errorf("%w: row %d column Team: missing", ErrBadCell, i+2)
		}
		rows[i] = nfl.TeamWeek{
			Season:   s,
			Week:     w,
			Team:     strings.TrimSpace(team.Elem(i).String()),
			AtHome:   atHome,
			Category: text("Category", i),
			Date:     text("Date", i),
			Stats:    make(map[string]float64, len(statCols)),
		}
		if !opp.Elem(i).IsNA() {
			rows[i].Opponent = opp.Elem(i).String()
		}
		for _, c := range statCols {
			rows[i].Stats[c] = statVals[c][i]
		}
	}
	return rows, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
