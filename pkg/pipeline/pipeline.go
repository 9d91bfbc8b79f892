package pipeline

import (
	"errors"

	"github.com/tanyaschlusser/office-nfl-pool/pkg/model"
)

var ErrNotFitted = errors.New("pipeline: predict called before fit")

// Transformer interface for fit/transform pattern.
type Transformer interface {
	Fit(X [][]float64, Y []float64) error
	Transform(X [][]float64) [][]float64
}

// Pipeline chains multiple transformers.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

func (p *Pipeline) Fit(X [][]float64, Y []float64) error {
	for _, step := range p.steps {
		if err := step.Fit(X, Y); err != nil {
			return err
		}
		X = step.Transform(X)
	}
	return nil
}

func (p *Pipeline) Transform(X [][]float64) [][]float64 {
	for _, step := range p.steps {
		X = step.Transform(X)
	}
	return X
}

// Regressor runs the transformer steps before a regression model.
type Regressor struct {
	*Pipeline
	Model  model.Regressor
	fitted bool
}

func NewRegressor(m model.Regressor, steps ...Transformer) *Regressor {
	return &Regressor{Pipeline: NewPipeline(steps...), Model: m}
}

func (r *Regressor) Fit(X [][]float64, y []float64) error {
	if err := r.Pipeline.Fit(X, y); err != nil {
		return err
	}
	if err := r.Model.Fit(r.Transform(X), y); err != nil {
		return err
	}
	r.fitted = true
	return nil
}

func (r *Regressor) Predict(X [][]float64) ([]float64, error) {
	if !r.fitted {
		return nil, ErrNotFitted
	}
	return r.Model.Predict(r.Transform(X)), nil
}

// Classifier runs the transformer steps before a binary classifier.
type Classifier struct {
	*Pipeline
	Model  model.Classifier
	fitted bool
}

func NewClassifier(m model.Classifier, steps ...Transformer) *Classifier {
	return &Classifier{Pipeline: NewPipeline(steps...), Model: m}
}

func (c *Classifier) Fit(X [][]float64, y []float64) error {
	if err := c.Pipeline.Fit(X, y); err != nil {
		return err
	}
	if err := c.Model.Fit(c.Transform(X), y); err != nil {
		return err
	}
	c.fitted = true
	return nil
}

func (c *Classifier) PredictProba(X [][]float64) ([]float64, error) {
	if !c.fitted {
		return nil, ErrNotFitted
	}
	return c.Model.PredictProba(c.Transform(X)), nil
}
