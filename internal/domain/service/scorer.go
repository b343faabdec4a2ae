package service

import (
	"fmt"
	"math"

	"github.com/turtacn/credscore/internal/domain/models"
	"github.com/turtacn/credscore/pkg/constants"
	"github.com/turtacn/credscore/pkg/errors"
)

// Scorer turns an applicant into a pre-override score using the currently loaded scorecard.
type Scorer struct {
	provider ModelProvider
}

// NewScorer creates a scorer that reads the model from provider on every call.
func NewScorer(provider ModelProvider) *Scorer {
	return &Scorer{provider: provider}
}

// Score runs cap -> select -> WoE -> probability -> log-odds scaling.
// The applicant is never modified; the revolving utilization cap applies to a copy.
func (s *Scorer) Score(applicant models.ApplicantRecord) (models.ScoreResult, error) {
	model, err := s.provider.Current()
	if err != nil {
		return models.ScoreResult{}, err
	}
	return ScoreWithModel(model, applicant)
}

// ScoreWithModel scores against an explicit model. Used by offline tooling that loads an artifact directly.
func ScoreWithModel(model ScoringModel, applicant models.ApplicantRecord) (models.ScoreResult, error) {
	capped := applicant.WithRevolUtilCap(constants.MaxRevolvingUtilization)

	raw, err := SelectFeatures(capped, model.SelectedFeatures())
	if err != nil {
		return models.ScoreResult{}, err
	}

	woe, err := model.TransformWoE(raw)
	if err != nil {
		return models.ScoreResult{}, errors.ErrServerError("weight-of-evidence transform failed").WithCause(err)
	}

	p, err := model.PredictProbability(woe)
	if err != nil {
		return models.ScoreResult{}, errors.ErrServerError("model prediction failed").WithCause(err)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return models.ScoreResult{}, errors.ErrServerError(fmt.Sprintf("model returned probability %v outside [0,1]", p))
	}

	return models.ScoreResult{
		Score:       ProbabilityToScore(p, model.Factor(), model.Offset()),
		Probability: RoundProbability(p),
	}, nil
}

// SelectFeatures picks the named features from the applicant in the given order.
func SelectFeatures(applicant models.ApplicantRecord, names []string) (models.FeatureVector, error) {
	vec := make(models.FeatureVector, 0, len(names))
	for _, name := range names {
		v, ok := applicant.Feature(name)
		if !ok {
			return nil, errors.ErrServerError(fmt.Sprintf("model selects unknown feature %q", name)).
				WithMetadata("feature", name)
		}
		vec = append(vec, models.NamedValue{Name: name, Value: v})
	}
	return vec, nil
}

// ProbabilityToScore applies score = offset - factor*ln(p/(1-p)).
// Degenerate probabilities (exactly 0 or 1) map to the offset. Ties round to even.
func ProbabilityToScore(p, factor, offset float64) int {
	if p <= 0 || p >= 1 {
		return int(math.RoundToEven(offset))
	}
	odds := p / (1 - p)
	return int(math.RoundToEven(offset - factor*math.Log(odds)))
}

// RoundProbability rounds to 2 decimal places, half to even on the exact binary value.
func RoundProbability(p float64) float64 {
	return RoundHalfEven(p, 2)
}
