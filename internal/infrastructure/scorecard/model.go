package scorecard

import (
	"fmt"
	"math"

	"github.com/turtacn/credscore/internal/domain/models"
)

// Model is a loaded, immutable scorecard. It is safe for concurrent use.
type Model struct {
	artifact *Artifact
	selected []string
}

// NewModel wraps a validated artifact.
func NewModel(a *Artifact) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	selected := make([]string, len(a.SelectedFeatures))
	copy(selected, a.SelectedFeatures)
	return &Model{artifact: a, selected: selected}, nil
}

// LoadModel reads and wraps the artifact at path.
func LoadModel(path string) (*Model, error) {
	a, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return NewModel(a)
}

// Version identifies the loaded artifact.
func (m *Model) Version() string { return m.artifact.Version }

// Factor is the points-to-double-odds scaling constant.
func (m *Model) Factor() float64 { return m.artifact.Factor }

// Offset is the score at even odds.
func (m *Model) Offset() float64 { return m.artifact.Offset }

// Artifact exposes the underlying artifact for inspection.
func (m *Model) Artifact() *Artifact { return m.artifact }

// SelectedFeatures returns a copy of the model input order.
func (m *Model) SelectedFeatures() []string {
	out := make([]string, len(m.selected))
	copy(out, m.selected)
	return out
}

// TransformWoE replaces each raw value with the WoE of the bin it falls into.
func (m *Model) TransformWoE(raw models.FeatureVector) (models.FeatureVector, error) {
	out := make(models.FeatureVector, len(raw))
	for i, nv := range raw {
		feat, ok := m.artifact.Features[nv.Name]
		if !ok {
			return nil, fmt.Errorf("no binning for feature %q", nv.Name)
		}
		out[i] = models.NamedValue{Name: nv.Name, Value: feat.woe(nv.Value)}
	}
	return out, nil
}

// PredictProbability returns logistic(intercept + Σ coefficient·woe).
func (m *Model) PredictProbability(woe models.FeatureVector) (float64, error) {
	z := m.artifact.Intercept
	for _, nv := range woe {
		feat, ok := m.artifact.Features[nv.Name]
		if !ok {
			return 0, fmt.Errorf("no coefficient for feature %q", nv.Name)
		}
		z += feat.Coefficient * nv.Value
	}
	return 1 / (1 + math.Exp(-z)), nil
}

func (s FeatureSpec) woe(v float64) float64 {
	if math.IsNaN(v) {
		return s.MissingWoE
	}
	for _, b := range s.Bins {
		if b.Upper == nil || v < *b.Upper {
			return b.WoE
		}
	}
	return s.MissingWoE
}
