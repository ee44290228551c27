package holtwinters

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/aouyang1/go-holtwinters/boxcox"
	"github.com/aouyang1/go-holtwinters/state"
	"github.com/aouyang1/go-holtwinters/timedataset"
	"github.com/goccy/go-json"
)

var ErrInvalidModel = errors.New("invalid model")

// Model is a serializable snapshot of a fit that can rebuild the results on the same series
// without estimating again
type Model struct {
	Shape        state.Shape  `json:"shape"`
	Params       state.Params `json:"params"`
	Lambda       *float64     `json:"lambda,omitempty"`
	RemoveBias   bool         `json:"remove_bias"`
	BusinessDays string       `json:"business_days,omitempty"`
}

// Model returns the serializable snapshot of the fit
func (r *Results) Model() Model {
	return Model{
		Shape:        r.in.shape,
		Params:       r.in.params.Copy(),
		Lambda:       r.Lambda(),
		RemoveBias:   r.in.removeBias,
		BusinessDays: r.in.businessDays,
	}
}

// Validate checks the snapshot is internally consistent
func (m Model) Validate() error {
	if err := m.Shape.Validate(); err != nil {
		return fmt.Errorf("unable to validate shape, %w", err)
	}
	if len(m.Params.S0) != m.Shape.Period {
		return fmt.Errorf("expected %d seasonal states, but got %d, %w", m.Shape.Period, len(m.Params.S0), ErrInvalidModel)
	}
	if m.Lambda != nil && (math.IsNaN(*m.Lambda) || math.IsInf(*m.Lambda, 0)) {
		return fmt.Errorf("lambda %g, %w", *m.Lambda, ErrInvalidModel)
	}
	return nil
}

// Write serializes the model as indented json
func (m Model) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// ReadModel deserializes a model written by Write
func ReadModel(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, fmt.Errorf("unable to decode model, %w", err)
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// NewFromModel rebuilds the results of a saved model on its training series. t may be nil
// for an untimed series.
func NewFromModel(m Model, t []time.Time, y []float64) (*Results, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := state.CheckData(y, m.Shape); err != nil {
		return nil, fmt.Errorf("unable to validate series, %w", err)
	}

	in := resultsInput{
		shape:        m.Shape,
		params:       m.Params.Copy(),
		removeBias:   m.RemoveBias,
		y:            append([]float64(nil), y...),
		businessDays: m.BusinessDays,
	}
	if !m.Shape.Damped {
		in.params.Phi = 1
	}

	if t != nil {
		td, err := timedataset.NewUnivariateDataset(t, y)
		if err != nil {
			return nil, fmt.Errorf("unable to create training dataset, %w", err)
		}
		freq, err := timedataset.TimeSlice(td.T).EstimateFreq()
		if err != nil {
			return nil, fmt.Errorf("unable to infer series frequency, %w", err)
		}
		in.t = td.T
		in.freq = freq
	}

	bc, err := timedataset.NewCalendar(m.BusinessDays)
	if err != nil {
		return nil, err
	}
	in.calendar = bc

	in.data = in.y
	if m.Lambda != nil {
		lambda := *m.Lambda
		data, err := boxcox.Transform(in.y, lambda)
		if err != nil {
			return nil, fmt.Errorf("unable to transform series, %w", err)
		}
		in.data = data
		in.lambda = &lambda
	}
	return newResults(in)
}
