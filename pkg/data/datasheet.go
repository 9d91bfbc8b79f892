package data

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// Datasheet column headers.
const (
	ColWeek             = "Week"
	ColDate             = "Date"
	ColDayOfWeek        = "Day of Week"
	ColHomeTeam         = "Home Team"
	ColHomePoints       = "Home Points"
	ColAwayTeam         = "Away Team"
	ColAwayPoints       = "Away Points"
	ColVegasSpread      = "Vegas Spread"
	ColHomeFumbles      = "Home Fumbles"
	ColHomePenaltyYards = "Home Penalty Yards"
	ColAwayFumbles      = "Away Fumbles"
	ColAwayPenaltyYards = "Away Penalty Yards"
)

// DatasheetColumns is the column order of a season datasheet.
var DatasheetColumns = []string{
	ColWeek, ColDate, ColDayOfWeek,
	ColHomeTeam, ColHomePoints, ColAwayTeam, ColAwayPoints,
	ColVegasSpread, ColHomeFumbles, ColHomePenaltyYards,
	ColAwayFumbles, ColAwayPenaltyYards,
}

// ReadDatasheet loads the season datasheet from the first sheet of an
// .xlsx workbook or from a .csv file.
func ReadDatasheet(path string) ([]nfl.Game, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	var (
		games []nfl.Game
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		games, err = readDatasheetCSV(path)
	default:
		games, err = readDatasheetXLSX(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: %s has no games", ErrEmptyInput, path)
	}
	return games, nil
}

func readDatasheetXLSX(path string) ([]nfl.Game, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	p, err := newGameParser(rows[0])
	if err != nil {
		return nil, err
	}
	var games []nfl.Game
	for i, row := range rows[1:] {
		g, ok, err := p.parse(row, i+2)
		if err != nil {
			return nil, err
		}
		if ok {
			games = append(games, g)
		}
	}
	return games, nil
}

func readDatasheetCSV(path string) ([]nfl.Game, error) {
	records := make(chan Record)
	done, err := StreamCSV(path, records)
	if err != nil {
		return nil, err
	}
	defer close(done)

	var (
		p     *gameParser
		games []nfl.Game
	)
	for rec := range records {
		if rec.Err != nil {
			return nil, rec.Err
		}
		if p == nil {
			if p, err = newGameParser(rec.Fields); err != nil {
				return nil, err
			}
			continue
		}
		g, ok, err := p.parse(rec.Fields, rec.Line)
		if err != nil {
			return nil, err
		}
		if ok {
			games = append(games, g)
		}
	}
	return games, nil
}

type gameParser struct {
	idx map[string]int
}

func newGameParser(header []string) (*gameParser, error) {
	idx, err := columnIndex(header, ColWeek, ColHomeTeam, ColAwayTeam)
	if err != nil {
		return nil, err
	}
	return &gameParser{idx: idx}, nil
}

func (p *gameParser) cell(row []string, col string) string {
	i, ok := p.idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parse converts one datasheet row. Rows without a week are skipped.
func (p *gameParser) parse(row []string, line int) (nfl.Game, bool, error) {
	wk := p.cell(row, ColWeek)
	if isNA(wk) {
		return nfl.Game{}, false, nil
	}
	week, err := parseInt(wk, ColWeek, line)
	if err != nil {
		return nfl.Game{}, false, err
	}
	g := nfl.Game{
		Week:             week,
		Date:             p.cell(row, ColDate),
		DayOfWeek:        p.cell(row, ColDayOfWeek),
		Home:             p.cell(row, ColHomeTeam),
		Away:             p.cell(row, ColAwayTeam),
		HomePoints:       parseFloat(p.cell(row, ColHomePoints)),
		AwayPoints:       parseFloat(p.cell(row, ColAwayPoints)),
		VegasSpread:      parseFloat(p.cell(row, ColVegasSpread)),
		HomeFumbles:      parseFloat(p.cell(row, ColHomeFumbles)),
		HomePenaltyYards: parseFloat(p.cell(row, ColHomePenaltyYards)),
		AwayFumbles:      parseFloat(p.cell(row, ColAwayFumbles)),
		AwayPenaltyYards: parseFloat(p.cell(row, ColAwayPenaltyYards)),
	}
	if g.Home == "" || g.Away == "" {
		return nfl.Game{}, false, fmt.Errorf("%w: row %d: missing team", ErrBadCell, line)
	}
	return g, true, nil
}
