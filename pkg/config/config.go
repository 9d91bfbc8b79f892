// Package config holds the file paths, season and model settings of a
// prediction run. Defaults live in code; a YAML file overrides them and
// command line flags override the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName = "nflpool.yaml"
	fileMode        = 0o644
	dirMode         = 0o755
)

// Model kinds.
const (
	KindGradientBoosting = "gradient_boosting"
	KindRandomForest     = "random_forest"
	KindDecisionTree     = "decision_tree"
	KindLogistic         = "logistic"
	KindRidge            = "ridge"
	KindSGD              = "sgd"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the full run configuration.
type Config struct {
	History    string `yaml:"history"`
	Datasheet  string `yaml:"datasheet"`
	Output     string `yaml:"output"`
	CSV        string `yaml:"csv,omitempty"`
	Chart      string `yaml:"chart,omitempty"`
	DB         string `yaml:"db"`
	Schedule   string `yaml:"schedule"`
	Gamesheets string `yaml:"gamesheets"`
	Season     int    `yaml:"season"`
	Seed       int64  `yaml:"seed"`

	Features Features    `yaml:"features"`
	Win      WinModel    `yaml:"win_model"`
	Points   PointsModel `yaml:"points_model"`
	Evaluate Evaluate    `yaml:"evaluate"`
}

// Smoothing names the columns a smoother applies to and its output prefix.
type Smoothing struct {
	Columns []string `yaml:"columns"`
	Prefix  string   `yaml:"prefix"`
}

type Features struct {
	Rolling struct {
		Smoothing  `yaml:",inline"`
		Window     int `yaml:"window"`
		MinPeriods int `yaml:"min_periods"`
	} `yaml:"rolling"`
	EWMA struct {
		Smoothing `yaml:",inline"`
		Center    float64 `yaml:"center_of_mass"`
	} `yaml:"ewma"`
	Lag struct {
		Smoothing `yaml:",inline"`
		Lag       int `yaml:"lag"`
	} `yaml:"lag"`
	DontMirror []string `yaml:"dont_mirror"`
	// Impute is drop, mean or median.
	Impute string `yaml:"impute"`
}

type WinModel struct {
	Kind            string   `yaml:"kind"`
	Features        []string `yaml:"features"`
	Estimators      int      `yaml:"estimators"`
	LearningRate    float64  `yaml:"learning_rate"`
	MaxDepth        int      `yaml:"max_depth"`
	MinSamplesSplit int      `yaml:"min_samples_split"`
	MinSamplesLeaf  int      `yaml:"min_samples_leaf"`
	Epochs          int      `yaml:"epochs"`
	BatchSize       int      `yaml:"batch_size"`

	// Tree and forest settings. MaxFeatures 0 means all features for a
	// tree and sqrt(features) for a forest.
	Criterion           string  `yaml:"criterion"`
	MaxFeatures         int     `yaml:"max_features"`
	MinImpurityDecrease float64 `yaml:"min_impurity_decrease"`
	Bootstrap           bool    `yaml:"bootstrap"`
}

type PointsModel struct {
	Kind         string   `yaml:"kind"`
	Features     []string `yaml:"features"`
	Alpha        float64  `yaml:"alpha"`
	LearningRate float64  `yaml:"learning_rate"`
	Epochs       int      `yaml:"epochs"`
	BatchSize    int      `yaml:"batch_size"`
}

type Evaluate struct {
	Folds int `yaml:"folds"`
}

// Default returns the configuration of the stock prediction run.
func Default() *Config {
	c := &Config{
		History:    filepath.Join("data", "nfl_season2008to2014.csv"),
		Datasheet:  filepath.Join("excel_files", "season2015_datasheet.xlsx"),
		Output:     filepath.Join("excel_files", "prediction.xlsx"),
		DB:         "nflpool.db",
		Schedule:   filepath.Join("data", "schedule2015.csv"),
		Gamesheets: filepath.Join("excel_files", "gamesheets.xlsx"),
		Season:     2015,
		Seed:       42,
	}

	f := &c.Features
	f.Rolling.Columns = []string{"Fumbles", "Interceptions", "Sacks"}
	f.Rolling.Prefix = "m_"
	f.Rolling.Window = 5
	f.Rolling.MinPeriods = 2
	f.EWMA.Columns = []string{"PenaltyYards", "Points", "PointsAllowed"}
	f.EWMA.Prefix = "ewma_"
	f.EWMA.Center = 2
	f.Lag.Columns = []string{
		"m_Fumbles", "m_Interceptions", "m_Sacks",
		"ewma_PenaltyYards", "ewma_Points", "ewma_PointsAllowed",
	}
	f.Lag.Prefix = "lag_"
	f.Lag.Lag = 1
	f.DontMirror = []string{"Spread", "VegasSpread", "Points", "PointsAllowed"}
	f.Impute = "drop"

	c.Win = WinModel{
		Kind: KindGradientBoosting,
		Features: []string{
			"Home",
			"H_LastWkBye", "H_lag_m_Fumbles", "H_lag_ewma_PenaltyYards",
			"H_lag_ewma_Points", "H_lag_ewma_PointsAllowed",
			"A_LastWkBye", "A_lag_m_Fumbles", "A_lag_ewma_PenaltyYards",
			"A_lag_ewma_Points", "A_lag_ewma_PointsAllowed",
		},
		Estimators:      100,
		LearningRate:    0.1,
		MaxDepth:        5,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Epochs:          200,
		BatchSize:       32,
		Criterion:       "gini",
		Bootstrap:       true,
	}
	c.Points = PointsModel{
		Kind: KindRidge,
		Features: []string{
			"Team", "AtHome",
			"LastWkBye", "lag_m_Fumbles", "lag_ewma_PenaltyYards",
			"lag_ewma_Points", "lag_ewma_PointsAllowed",
			"O_LastWkBye", "O_lag_m_Fumbles", "O_lag_ewma_PenaltyYards",
			"O_lag_ewma_Points", "O_lag_ewma_PointsAllowed",
		},
		Alpha:        1,
		LearningRate: 0.01,
		Epochs:       200,
		BatchSize:    32,
	}
	c.Evaluate.Folds = 5
	return c
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Save writes c as YAML to path, creating the parent directory.
func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("creating dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// Validate checks the settings a run cannot proceed without.
func (c *Config) Validate() error {
	switch {
	case c.History == "":
		return fmt.Errorf("%w: history path required", ErrInvalid)
	case c.Datasheet == "":
		return fmt.Errorf("%w: datasheet path required", ErrInvalid)
	case c.Season <= 0:
		return fmt.Errorf("%w: season %d", ErrInvalid, c.Season)
	case len(c.Win.Features) == 0 || len(c.Points.Features) == 0:
		return fmt.Errorf("%w: model features required", ErrInvalid)
	case c.Evaluate.Folds < 2:
		return fmt.Errorf("%w: evaluate.folds must be at least 2", ErrInvalid)
	}
	switch c.Win.Kind {
	case KindGradientBoosting, KindRandomForest, KindDecisionTree, KindLogistic:
	default:
		return fmt.Errorf("%w: win_model.kind %q", ErrInvalid, c.Win.Kind)
	}
	switch c.Win.Criterion {
	case "gini", "entropy":
	default:
		return fmt.Errorf("%w: win_model.criterion %q", ErrInvalid, c.Win.Criterion)
	}
	switch c.Points.Kind {
	case KindRidge, KindSGD:
	default:
		return fmt.Errorf("%w: points_model.kind %q", ErrInvalid, c.Points.Kind)
	}
	switch c.Features.Impute {
	case "drop", "mean", "median":
	default:
		return fmt.Errorf("%w: features.impute %q", ErrInvalid, c.Features.Impute)
	}
	return nil
}
