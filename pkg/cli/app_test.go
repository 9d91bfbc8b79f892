package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewApp(&out).Run(context.Background(), append([]string{appName}, args...))
	return out.String(), err
}

// pairings schedules eight teams once per week.
func pairings(week int) [][2]int {
	arr := []int{0}
	for i := 0; i < 7; i++ {
		arr = append(arr, 1+(i+week)%7)
	}
	out := make([][2]int, 4)
	for i := range out {
		out[i] = [2]int{arr[i], arr[7-i]}
	}
	return out
}

func points(own, opp int) int { return 14 + 3*own - opp }

func writeInputs(t *testing.T, dir string) (history, datasheet string) {
	t.Helper()
	var h strings.Builder
	h.WriteString("Season,Category,Week,Team,Opponent,AtHome,Points,PointsAllowed,Date,VegasSpread,Interceptions,Sacks,Fumbles,PenaltyYards\n")
	for _, season := range []int{2013, 2014} {
		for week := 1; week <= 6; week++ {
			for _, p := range pairings(week) {
				for side, home := range []bool{true, false} {
					own, opp := p[side], p[1-side]
					fmt.Fprintf(&h, "%d,regular,%d,T%d,T%d,%t,%d,%d,%d-10-%02d,%d,%d,%d,%d,%d\n",
						season, week, own, opp, home, points(own, opp), points(opp, own),
						season, week, opp-own, opp%2, own%4, (own+week)%3, 30+5*((own*week)%4))
				}
			}
		}
	}

	var d strings.Builder
	d.WriteString("Week,Date,Day of Week,Home Team,Home Points,Away Team,Away Points,Vegas Spread,Home Fumbles,Home Penalty Yards,Away Fumbles,Away Penalty Yards\n")
	for week := 1; week <= 4; week++ {
		date := time.Date(2015, 9, 13, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*(week-1)).Format(time.DateOnly)
		for _, p := range pairings(week) {
			hm, aw := p[0], p[1]
			if week == 4 {
				fmt.Fprintf(&d, "%d,%s,Sunday,T%d,,T%d,,%d,,,,\n", week, date, hm, aw, aw-hm)
				continue
			}
			fmt.Fprintf(&d, "%d,%s,Sunday,T%d,%d,T%d,%d,%d,%d,%d,%d,%d\n", week, date,
				hm, points(hm, aw), aw, points(aw, hm), aw-hm,
				(hm+week)%3, 30+5*((hm*week)%4), (aw+week)%3, 30+5*((aw*week)%4))
		}
	}

	history = filepath.Join(dir, "history.csv")
	datasheet = filepath.Join(dir, "season2015.csv")
	require.NoError(t, os.WriteFile(history, []byte(h.String()), 0o644))
	require.NoError(t, os.WriteFile(datasheet, []byte(d.String()), 0o644))
	return history, datasheet
}

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.Default()
	cfg.Win.Estimators = 20
	cfg.Evaluate.Folds = 3
	path := filepath.Join(dir, "nflpool.yaml")
	require.NoError(t, config.Save(path, cfg))
	return path
}

func TestPredictRecordsRun(t *testing.T) {
	dir := t.TempDir()
	history, datasheet := writeInputs(t, dir)
	cfgPath := writeConfig(t, dir)
	output := filepath.Join(dir, "prediction.xlsx")
	db := filepath.Join(dir, "runs.db")

	out, err := run(t, "--config", cfgPath, "predict",
		"--history", history, "--datasheet", datasheet,
		"--output", output, "--csv", filepath.Join(dir, "prediction.csv"), "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Home Team")
	assert.Equal(t, 4, strings.Count(out, "2015-10-04"))

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	sheets := f.GetSheetList()
	require.NoError(t, f.Close())
	require.Len(t, sheets, 1)
	assert.True(t, strings.HasPrefix(sheets[0], "prediction on "))
	assert.FileExists(t, filepath.Join(dir, "prediction.csv"))

	out, err = run(t, "history", "--db", db, "list")
	require.NoError(t, err)
	id := regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`).FindString(out)
	require.NotEmpty(t, id, out)
	assert.Contains(t, out, "gradient_boosting")

	out, err = run(t, "history", "--db", db, "show", "--id", id)
	require.NoError(t, err)
	assert.Contains(t, out, "season 2015")
	assert.Equal(t, 4, strings.Count(out, "2015-10-04"))

	_, err = run(t, "history", "--db", db, "show", "--id", "nope")
	assert.Error(t, err)
}

func TestPredictNoDB(t *testing.T) {
	dir := t.TempDir()
	history, datasheet := writeInputs(t, dir)
	_, err := run(t, "--config", writeConfig(t, dir), "predict", "--no-db",
		"--history", history, "--datasheet", datasheet,
		"--output", filepath.Join(dir, "p.xlsx"), "--db", filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "runs.db"))
}

func TestPredictMissingHistory(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "predict", "--no-db",
		"--history", filepath.Join(dir, "missing.csv"), "--datasheet", filepath.Join(dir, "missing.xlsx"))
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	dir := t.TempDir()
	history, datasheet := writeInputs(t, dir)
	out, err := run(t, "--config", writeConfig(t, dir), "evaluate",
		"--history", history, "--datasheet", datasheet, "--folds", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "2 folds")
	assert.Contains(t, out, "accuracy")
	assert.Contains(t, out, "rmse")
}

func TestSheets(t *testing.T) {
	dir := t.TempDir()
	schedule := filepath.Join(dir, "schedule.csv")
	require.NoError(t, os.WriteFile(schedule, []byte(`week,date,dayofweek,homeTeam,awayTeam
1,2015-09-10,Thursday,Patriots,Steelers
1,2015-09-13,Sunday,Bears,Packers
2,2015-09-17,Thursday,Broncos,Chiefs
`), 0o644))

	datasheet := filepath.Join(dir, "datasheet.xlsx")
	_, err := run(t, "datasheet", "--schedule", schedule, "--season", "2015", "-o", datasheet)
	require.NoError(t, err)
	f, err := excelize.OpenFile(datasheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Season 2015"}, f.GetSheetList())
	require.NoError(t, f.Close())

	gamesheets := filepath.Join(dir, "gamesheets.xlsx")
	_, err = run(t, "gamesheets", "--schedule", schedule, "-o", gamesheets)
	require.NoError(t, err)
	f, err = excelize.OpenFile(gamesheets)
	require.NoError(t, err)
	assert.Equal(t, []string{"Week 1", "Week 2"}, f.GetSheetList())
	require.NoError(t, f.Close())
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "nflpool.yaml")
	_, err := run(t, "config", "init", "--path", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = run(t, "config", "init", "--path", path)
	assert.Error(t, err)
	_, err = run(t, "config", "init", "--path", path, "--force")
	assert.NoError(t, err)
}

func TestBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("win_model:\n  kind: svm\n"), 0o644))
	_, err := run(t, "--config", path, "config", "init", "--path", filepath.Join(t.TempDir(), "x.yaml"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}
