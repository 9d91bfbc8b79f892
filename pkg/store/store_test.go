package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/nfl"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), DefaultFileName))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	run := &Run{
		CreatedAt:   time.Date(2015, 10, 1, 12, 0, 0, 0, time.UTC),
		Season:      2015,
		History:     "data/history.csv",
		Datasheet:   "excel_files/season.xlsx",
		Output:      "excel_files/prediction.xlsx",
		SheetName:   "prediction on 01 Oct 2015",
		WinModel:    "gradient_boosting",
		PointsModel: "ridge",
		TrainGames:  1200,
		TrainTeams:  2400,
		Predictions: []nfl.Prediction{
			{Season: 2015, Week: 4, Home: "Bears", Away: "Raiders", Date: "2015-10-04", DayOfWeek: "Sunday",
				WinProbability: 0.4, Confidence: 1, PredictedPoints: 20.5, PredictedPointsAllowed: 23},
			{Season: 2015, Week: 4, Home: "Jets", Away: "Dolphins", Date: "2015-10-04", DayOfWeek: "Sunday",
				WinProbability: 0.7, Confidence: 2, PredictedPoints: math.NaN(), PredictedPointsAllowed: 17},
		},
	}
	id, err := s.SaveRun(ctx, run)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, run.CreatedAt, got.CreatedAt)
	assert.Equal(t, "ridge", got.PointsModel)
	require.Len(t, got.Predictions, 2)
	assert.Equal(t, run.Predictions[0], got.Predictions[0])
	assert.True(t, math.IsNaN(got.Predictions[1].PredictedPoints))
	assert.Equal(t, 17.0, got.Predictions[1].PredictedPointsAllowed)
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(ctx, &Run{
			CreatedAt: time.Date(2015, 10, i+1, 0, 0, 0, 0, time.UTC),
			Season:    2015,
			WinModel:  "gradient_boosting",
		})
		require.NoError(t, err)
	}
	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3, runs[0].CreatedAt.Day())
	assert.Empty(t, runs[0].Predictions)
}

func TestGetRunNotFound(t *testing.T) {
	_, err := openTest(t).GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
