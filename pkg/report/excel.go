// Package report writes predictions to the console, the prediction
// workbook, CSV and a chart, and builds the blank datasheet and weekly pick
// sheets.
package report

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

// Headers are the prediction sheet columns.
var Headers = []string{
	"Season", "Week", "Home Team", "Away Team", "Date", "Day of Week",
	"Win Probability", "Confidence", "Predicted Points", "Predicted Points Allowed",
}

var predictionWidths = []float64{9, 16, 12, 20, 12, 20, 12, 16, 14, 14}

const (
	defaultSheet = "Sheet1"
	scratchSheet = "nflpool scratch"
)

// SheetName is the tab name for a run on day t.
func SheetName(t time.Time) string {
	return t.Format("prediction on 02 Jan 2006")
}

// WriteWorkbook adds sheet to the workbook at path, creating the file when
// it does not exist. A sheet of the same name is replaced.
func WriteWorkbook(path, sheet string, preds []nfl.Prediction) error {
	f, err := openOrCreate(path)
	if err != nil {
		return err
	}
	defer f.Close()

	idx, err := replaceSheet(f, sheet)
	if err != nil {
		return err
	}

	if err := writeRow(f, sheet, 1, toAny(Headers)); err != nil {
		return err
	}
	for i, p := range preds {
		row := []interface{}{
			p.Season, p.Week, p.Home, p.Away, p.Date, p.DayOfWeek,
			cellFloat(p.WinProbability), cellFloat(p.Confidence),
			cellFloat(p.PredictedPoints), cellFloat(p.PredictedPointsAllowed),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := formatTable(f, sheet, predictionWidths, 1, 1); err != nil {
		return err
	}
	weeks := make([]int, len(preds))
	for i, p := range preds {
		weeks[i] = p.Week
	}
	if err := weekSeparators(f, sheet, weeks, 1, 1, len(Headers)); err != nil {
		return err
	}

	f.SetActiveSheet(idx)
	return save(f, path)
}

// openOrCreate opens path, or returns a new workbook when it does not
// exist yet.
func openOrCreate(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return f, nil
}

// replaceSheet creates name, deleting any sheet already called that. The
// placeholder sheet of a new workbook is dropped. A workbook cannot lose its
// last sheet, so an only sheet is replaced through a scratch sheet.
func replaceSheet(f *excelize.File, name string) (int, error) {
	scratch := ""
	if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
		if len(f.GetSheetList()) == 1 {
			scratch = scratchSheet
			if _, err := f.NewSheet(scratch); err != nil {
				return 0, fmt.Errorf("replacing sheet %q: %w", name, err)
			}
		}
		if err := f.DeleteSheet(name); err != nil {
			return 0, fmt.Errorf("replacing sheet %q: %w", name, err)
		}
	}
	idx, err := f.NewSheet(name)
	if err != nil {
		return 0, fmt.Errorf("creating sheet %q: %w", name, err)
	}
	if scratch != "" {
		if err := f.DeleteSheet(scratch); err != nil {
			return 0, fmt.Errorf("replacing sheet %q: %w", name, err)
		}
		if idx, err = f.GetSheetIndex(name); err != nil {
			return 0, err
		}
	}
	if name != defaultSheet {
		if list := f.GetSheetList(); len(list) == 2 && list[0] == defaultSheet {
			if rows, _ := f.GetRows(defaultSheet); len(rows) == 0 {
				if err := f.DeleteSheet(defaultSheet); err != nil {
					return 0, err
				}
				idx, _ = f.GetSheetIndex(name)
			}
		}
	}
	return idx, nil
}

func save(f *excelize.File, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating dir %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	return writeRowAt(f, sheet, 1, row, values)
}

func writeRowAt(f *excelize.File, sheet string, col, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d of %q: %w", row, sheet, err)
	}
	return nil
}

// formatTable sets column widths starting at column firstCol and bolds and
// centers the header row.
func formatTable(f *excelize.File, sheet string, widths []float64, firstCol, headerRow int) error {
	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(firstCol + i)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(firstCol, headerRow)
	last, _ := excelize.CoordinatesToCellName(firstCol+len(widths)-1, headerRow)
	return f.SetCellStyle(sheet, first, last, style)
}

// weekSeparators draws a thin bottom border under the last row of each
// run of equal weeks. Data starts on the row after headerRow.
func weekSeparators(f *excelize.File, sheet string, weeks []int, firstCol, headerRow, ncols int) error {
	if len(weeks) == 0 {
		return nil
	}
	style, err := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return err
	}
	for i := range weeks {
		if i+1 < len(weeks) && weeks[i+1] == weeks[i] {
			continue
		}
		row := headerRow + 1 + i
		first, _ := excelize.CoordinatesToCellName(firstCol, row)
		last, _ := excelize.CoordinatesToCellName(firstCol+ncols-1, row)
		if err := f.SetCellStyle(sheet, first, last, style); err != nil {
			return err
		}
	}
	return nil
}

func toAny(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// cellFloat leaves missing values blank.
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}
