package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/data"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

func samplePredictions() []nfl.Prediction {
	return []nfl.Prediction{
		{Season: 2015, Week: 4, Home: "Bears", Away: "Raiders", Date: "2015-10-04", DayOfWeek: "Sunday",
			WinProbability: 0.41, Confidence: 1, PredictedPoints: 20, PredictedPointsAllowed: 23},
		{Season: 2015, Week: 4, Home: "Jets", Away: "Dolphins", Date: "2015-10-04", DayOfWeek: "Sunday",
			WinProbability: 0.72, Confidence: 2, PredictedPoints: 24, PredictedPointsAllowed: 17},
		{Season: 2015, Week: 5, Home: "Colts", Away: "Texans", Date: "2015-10-08", DayOfWeek: "Thursday",
			WinProbability: 0.55, Confidence: 1, PredictedPoints: 21, PredictedPointsAllowed: 20},
	}
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "prediction on 04 Oct 2015", SheetName(time.Date(2015, 10, 4, 9, 0, 0, 0, time.UTC)))
}

func TestWriteWorkbookAppendsAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "prediction.xlsx")
	preds := samplePredictions()

	require.NoError(t, WriteWorkbook(path, "prediction on 01 Oct 2015", preds[:1]))
	require.NoError(t, WriteWorkbook(path, "prediction on 04 Oct 2015", preds))
	require.NoError(t, WriteWorkbook(path, "prediction on 04 Oct 2015", preds))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"prediction on 01 Oct 2015", "prediction on 04 Oct 2015"}, f.GetSheetList())

	rows, err := f.GetRows("prediction on 04 Oct 2015")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, "Jets", rows[2][2])
	assert.Equal(t, "0.72", rows[2][6])

	w, err := f.GetColWidth("prediction on 04 Oct 2015", "D")
	require.NoError(t, err)
	assert.Equal(t, 20.0, w)
}

func TestWriteWorkbookReplacesOnlySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction.xlsx")
	sheet := "prediction on 04 Oct 2015"
	preds := samplePredictions()

	require.NoError(t, WriteWorkbook(path, sheet, preds))
	require.NoError(t, WriteWorkbook(path, sheet, preds[:1]))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Bears", rows[1][2])
	assert.Equal(t, sheet, f.GetSheetName(f.GetActiveSheetIndex()))
}

func TestWriteDatasheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.xlsx")
	fixtures := []data.Fixture{
		{Week: 1, Date: "2015-09-10", DayOfWeek: "Thursday", Home: "Patriots", Away: "Steelers"},
		{Week: 1, Date: "2015-09-13", DayOfWeek: "Sunday", Home: "Bears", Away: "Packers"},
	}
	require.NoError(t, WriteDatasheet(path, 2015, fixtures))

	games, err := data.ReadDatasheet(path)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Packers", games[1].Away)
	assert.True(t, math.IsNaN(games[1].HomePoints))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Season 2015"}, f.GetSheetList())
}

func TestWriteGamesheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.xlsx")
	fixtures := []data.Fixture{
		{Week: 2, Date: "2015-09-17", DayOfWeek: "Thursday", Home: "Chiefs", Away: "Broncos"},
		{Week: 1, Date: "2015-09-10", DayOfWeek: "Thursday", Home: "Patriots", Away: "Steelers"},
		{Week: 1, Date: "2015-09-13", DayOfWeek: "Sunday", Home: "Bears", Away: "Packers"},
	}
	require.NoError(t, WriteGamesheets(path, fixtures))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Week 1", "Week 2"}, f.GetSheetList())

	a1, err := f.GetCellValue("Week 1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Week 1 (Sunday is 2015-09-13)", a1)

	hdr, err := f.GetCellValue("Week 1", "B8")
	require.NoError(t, err)
	assert.Equal(t, "Day", hdr)
	home, err := f.GetCellValue("Week 1", "C10")
	require.NoError(t, err)
	assert.Equal(t, "Bears", home)
	tie, err := f.GetCellValue("Week 1", "A10")
	require.NoError(t, err)
	assert.Equal(t, "Tiebreaker game *", tie)

	formats, err := f.GetConditionalFormats("Week 1")
	require.NoError(t, err)
	assert.Len(t, formats, 2)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	preds := samplePredictions()
	preds[0].PredictedPoints = math.NaN()
	Print(&buf, preds)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Home Team")
	assert.Contains(t, lines[1], "Bears")
	assert.Contains(t, lines[1], "-")
	assert.Contains(t, lines[2], "0.720")
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prediction.csv")
	require.NoError(t, WriteCSV(path, samplePredictions()))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(Headers, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "2015,4,Jets,Dolphins,2015-10-04,Sunday,0.72"))
}

func TestWriteChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, WriteChart(path, samplePredictions()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, WriteChart(path, nil))
}
