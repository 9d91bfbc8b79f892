package predict

import (
	"fmt"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/config"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/dataprep"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/model"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/pipeline"
	"github.com/tanyaschlusser/office-nfl-pool/pkg/stats"
)

func imputeSteps(cfg *config.Config) ([]pipeline.Transformer, error) {
	if cfg.Features.Impute == "" || cfg.Features.Impute == dataprep.StrategyDrop {
		return nil, nil
	}
	im, err := dataprep.NewImputer(cfg.Features.Impute)
	if err != nil {
		return nil, err
	}
	return []pipeline.Transformer{im}, nil
}

// NewWinModel builds the configured win classifier.
func NewWinModel(cfg *config.Config) (*pipeline.Classifier, error) {
	steps, err := imputeSteps(cfg)
	if err != nil {
		return nil, err
	}
	w := cfg.Win
	var m model.Classifier
	switch w.Kind {
	case config.KindGradientBoosting:
		m = model.NewGradientBoostingClassifier(
			model.WithEstimators(w.Estimators),
			model.WithLearningRate(w.LearningRate),
			model.WithBoostDepth(w.MaxDepth),
			model.WithBoostMinSplit(w.MinSamplesSplit),
			model.WithBoostMinLeaf(w.MinSamplesLeaf),
		)
	case config.KindRandomForest:
		rf := model.NewRandomForest(
			model.WithNEstimators(w.Estimators),
			model.WithForestDepth(w.MaxDepth),
			model.WithForestSeed(cfg.Seed),
			model.WithForestMaxFeatures(w.MaxFeatures),
			model.WithBootstrap(w.Bootstrap),
		)
		rf.MinSamplesSplit = w.MinSamplesSplit
		m = rf
	case config.KindDecisionTree:
		m = model.NewDecisionTreeClassifier(
			model.WithMaxDepth(w.MaxDepth),
			model.WithMinSamplesSplit(w.MinSamplesSplit),
			model.WithMinSamplesLeaf(w.MinSamplesLeaf),
			model.WithCriterion(w.Criterion),
			model.WithMaxFeatures(w.MaxFeatures),
			model.WithMinImpurityDecrease(w.MinImpurityDecrease),
			model.WithRandomState(cfg.Seed),
		)
	case config.KindLogistic:
		steps = append(steps, stats.NewStandardScaler())
		m = model.NewLogisticRegression(w.LearningRate, w.Epochs, w.BatchSize, cfg.Seed)
	default:
		return nil, fmt.Errorf("unknown win model %q", w.Kind)
	}
	return pipeline.NewClassifier(m, steps...), nil
}

// NewPointsModel builds the configured points regressor.
func NewPointsModel(cfg *config.Config) (*pipeline.Regressor, error) {
	steps, err := imputeSteps(cfg)
	if err != nil {
		return nil, err
	}
	p := cfg.Points
	var m model.Regressor
	switch p.Kind {
	case config.KindRidge:
		m = model.NewRidge(p.Alpha)
	case config.KindSGD:
		steps = append(steps, stats.NewStandardScaler())
		m = model.NewLinearRegression(p.LearningRate, p.Epochs, p.BatchSize, cfg.Seed)
	default:
		return nil, fmt.Errorf("unknown points model %q", p.Kind)
	}
	return pipeline.NewRegressor(m, steps...), nil
}
