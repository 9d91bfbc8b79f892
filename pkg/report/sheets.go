package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/data"
)

var datasheetWidths = []float64{9, 16, 12, 20, 12, 20, 12, 16, 14, 20, 14, 20}

// DatasheetSheetName is the tab name of a season's blank datasheet.
func DatasheetSheetName(season int) string { return fmt.Sprintf("Season %d", season) }

// WriteDatasheet writes the blank season datasheet: one row per fixture
// with empty result columns for the user to fill in.
func WriteDatasheet(path string, season int, fixtures []data.Fixture) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := DatasheetSheetName(season)
	idx, err := replaceSheet(f, sheet)
	if err != nil {
		return err
	}
	if err := writeRow(f, sheet, 1, toAny(data.DatasheetColumns)); err != nil {
		return err
	}
	weeks := make([]int, len(fixtures))
	for i, fx := range fixtures {
		weeks[i] = fx.Week
		if err := writeRow(f, sheet, i+2, []interface{}{fx.Week, fx.Date, fx.DayOfWeek, fx.Home}); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("F%d", i+2), fx.Away); err != nil {
			return err
		}
	}
	if err := formatTable(f, sheet, datasheetWidths, 1, 1); err != nil {
		return err
	}
	if err := weekSeparators(f, sheet, weeks, 1, 1, len(data.DatasheetColumns)); err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	return save(f, path)
}

// Pick sheet layout: the game table header sits on row 8 and the table
// starts in column B.
const (
	gamesheetSkipRows = 7
	gamesheetSkipCols = 1
	gamesheetHomeWin  = "D"
	gamesheetAwayWin  = "G"
)

var (
	gamesheetHeaders = []string{"Day", "Home", "Win", "", "Away", "Win"}
	gamesheetWidths  = []float64{18, 9, 20, 5, 10, 20, 5}
)

// Conditional fills for a game row.
const (
	fillYellow = "FFFFDD"
	fillRed    = "FFCCCC"
	fillGreen  = "CCFFCC"
)

// WriteGamesheets writes one "Week n" pick sheet per week of fixtures.
func WriteGamesheets(path string, fixtures []data.Fixture) error {
	byWeek := map[int][]data.Fixture{}
	var weeks []int
	for _, fx := range fixtures {
		if _, ok := byWeek[fx.Week]; !ok {
			weeks = append(weeks, fx.Week)
		}
		byWeek[fx.Week] = append(byWeek[fx.Week], fx)
	}
	sort.Ints(weeks)

	f := excelize.NewFile()
	defer f.Close()

	fills, err := newFills(f)
	if err != nil {
		return err
	}
	for i, week := range weeks {
		idx, err := writeGamesheet(f, week, byWeek[week], fills)
		if err != nil {
			return fmt.Errorf("week %d: %w", week, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
	}
	return save(f, path)
}

type gameFills struct{ yellow, red, green int }

func newFills(f *excelize.File) (gameFills, error) {
	var g gameFills
	for _, c := range []struct {
		color string
		dst   *int
	}{{fillYellow, &g.yellow}, {fillRed, &g.red}, {fillGreen, &g.green}} {
		id, err := f.NewConditionalStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{c.color}, Pattern: 1},
		})
		if err != nil {
			return g, err
		}
		*c.dst = id
	}
	return g, nil
}

// sundayDate is the date of the week's first Sunday game, or of its first
// game when none is on a Sunday.
func sundayDate(games []data.Fixture) string {
	for _, g := range games {
		if g.DayOfWeek == "Sunday" {
			return g.Date
		}
	}
	if len(games) > 0 {
		return games[0].Date
	}
	return ""
}

func writeGamesheet(f *excelize.File, week int, games []data.Fixture, fills gameFills) (int, error) {
	sheet := fmt.Sprintf("Week %d", week)
	idx, err := replaceSheet(f, sheet)
	if err != nil {
		return 0, err
	}

	cells := map[string]interface{}{
		"A1": fmt.Sprintf("Week %d (Sunday is %s)", week, sundayDate(games)),
		"A2": "Mark the 'Win' column for each team you think will win. Winning sheet has the most correct.",
		"A4": "Name:",
		"B4": "<<your name>>",
		"A5": "Tiebreaker *:",
		"B5": "<<winning guess is closest to the total combined points in the final game>>",
	}
	lastRow := gamesheetSkipRows + 1 + len(games)
	tiebreak := fmt.Sprintf("A%d", lastRow)
	cells[tiebreak] = "Tiebreaker game *"
	for cell, v := range cells {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return 0, err
		}
	}

	headerRow := gamesheetSkipRows + 1
	if err := writeRowAt(f, sheet, gamesheetSkipCols+1, headerRow, toAny(gamesheetHeaders)); err != nil {
		return 0, err
	}
	// Win cells stay truly empty so ISBLANK holds until a pick is made.
	for i, g := range games {
		r := headerRow + 1 + i
		for col, v := range map[string]string{"B": g.DayOfWeek, "C": g.Home, "F": g.Away} {
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, r), v); err != nil {
				return 0, err
			}
		}
	}

	if err := formatTable(f, sheet, gamesheetWidths, 1, headerRow); err != nil {
		return 0, err
	}
	right, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{Horizontal: "right"}})
	if err != nil {
		return 0, err
	}
	for _, cell := range []string{"A4", "A5", tiebreak} {
		if err := f.SetCellStyle(sheet, cell, cell, right); err != nil {
			return 0, err
		}
	}

	for r := headerRow + 1; r <= lastRow; r++ {
		if err := f.SetConditionalFormat(sheet, fmt.Sprintf("B%d:G%d", r, r), pickRules(r, fills)); err != nil {
			return 0, err
		}
	}
	return idx, nil
}

// pickRules color a game row yellow when no team is marked, red when both
// are, and green when exactly one is.
func pickRules(row int, fills gameFills) []excelize.ConditionalFormatOptions {
	home := fmt.Sprintf("$%s$%d", gamesheetHomeWin, row)
	away := fmt.Sprintf("$%s$%d", gamesheetAwayWin, row)
	return []excelize.ConditionalFormatOptions{
		{
			Type:       "formula",
			Criteria:   fmt.Sprintf("AND(ISBLANK(%s),ISBLANK(%s))", home, away),
			Format:     fills.yellow,
			StopIfTrue: true,
		},
		{
			Type:       "formula",
			Criteria:   fmt.Sprintf("AND(NOT(ISBLANK(%s)),NOT(ISBLANK(%s)))", home, away),
			Format:     fills.red,
			StopIfTrue: true,
		},
		{
			Type: "formula",
			Criteria: fmt.Sprintf("OR(AND(NOT(ISBLANK(%[1]s)),ISBLANK(%[2]s)),AND(ISBLANK(%[1]s),NOT(ISBLANK(%[2]s))))",
				home, away),
			Format:     fills.green,
			StopIfTrue: true,
		},
	}
}
