// Package scorecard loads trained scorecard artifacts and serves them to the scoring pipeline.
package scorecard

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/turtacn/credscore/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// Artifact is the on-disk form of a trained scorecard.
// Artifact 是已训练评分卡的磁盘格式。
type Artifact struct {
	Version          string                 `yaml:"version" json:"version"`
	Factor           float64                `yaml:"factor" json:"factor"`
	Offset           float64                `yaml:"offset" json:"offset"`
	Intercept        float64                `yaml:"intercept" json:"intercept"`
	SelectedFeatures []string               `yaml:"selected_features" json:"selected_features"`
	Features         map[string]FeatureSpec `yaml:"features" json:"features"`
}

// FeatureSpec holds the fitted binning and coefficient of one selected feature.
// MissingWoE is used for NaN inputs.
// FeatureSpec 保存单个入模特征的分箱与系数。
type FeatureSpec struct {
	Coefficient float64 `yaml:"coefficient" json:"coefficient"`
	Bins        []Bin   `yaml:"bins" json:"bins"`
	MissingWoE  float64 `yaml:"missing_woe" json:"missing_woe"`
}

// Bin is a right-open interval ending at Upper. A nil Upper is +inf.
type Bin struct {
	Upper *float64 `yaml:"upper,omitempty" json:"upper,omitempty"`
	WoE   float64  `yaml:"woe" json:"woe"`
}

// ScoreBand is the lowest and highest score the artifact can produce.
type ScoreBand struct {
	Min int
	Max int
}

// LoadArtifact reads a YAML or JSON artifact and validates it.
// The format is chosen by extension; anything other than .json is parsed as YAML.
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scorecard artifact: %w", err)
	}
	return ParseArtifact(data, strings.EqualFold(filepath.Ext(path), ".json"))
}

// ParseArtifact decodes and validates artifact bytes.
func ParseArtifact(data []byte, isJSON bool) (*Artifact, error) {
	var a Artifact
	if isJSON {
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scorecard artifact: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scorecard artifact: %w", err)
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate checks the structural invariants the model relies on.
func (a *Artifact) Validate() error {
	if a.Factor <= 0 || math.IsNaN(a.Factor) || math.IsInf(a.Factor, 0) {
		return fmt.Errorf("scorecard factor must be a positive finite number, got %v", a.Factor)
	}
	if math.IsNaN(a.Offset) || math.IsInf(a.Offset, 0) {
		return fmt.Errorf("scorecard offset must be finite")
	}
	if len(a.SelectedFeatures) == 0 {
		return fmt.Errorf("scorecard has no selected features")
	}

	probe := models.ApplicantRecord{}
	seen := make(map[string]struct{}, len(a.SelectedFeatures))
	for _, name := range a.SelectedFeatures {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("feature %q selected twice", name)
		}
		seen[name] = struct{}{}

		if _, ok := probe.Feature(name); !ok {
			return fmt.Errorf("selected feature %q is not an applicant field", name)
		}
		feat, ok := a.Features[name]
		if !ok {
			return fmt.Errorf("selected feature %q has no binning", name)
		}
		if err := feat.validate(); err != nil {
			return fmt.Errorf("feature %q: %w", name, err)
		}
	}
	return nil
}

func (s FeatureSpec) validate() error {
	if len(s.Bins) == 0 {
		return fmt.Errorf("no bins")
	}
	prev := math.Inf(-1)
	for i, b := range s.Bins {
		if b.Upper == nil {
			if i != len(s.Bins)-1 {
				return fmt.Errorf("unbounded bin %d is not last", i)
			}
			continue
		}
		if *b.Upper <= prev {
			return fmt.Errorf("bin %d upper bound %v is not ascending", i, *b.Upper)
		}
		prev = *b.Upper
	}
	if s.Bins[len(s.Bins)-1].Upper != nil {
		return fmt.Errorf("last bin must be unbounded")
	}
	return nil
}

// Band computes the score range reachable by any combination of bins.
func (a *Artifact) Band() ScoreBand {
	lo, hi := a.Intercept, a.Intercept
	for _, name := range a.SelectedFeatures {
		feat := a.Features[name]
		minC, maxC := math.Inf(1), math.Inf(-1)
		for _, b := range feat.Bins {
			c := feat.Coefficient * b.WoE
			minC = math.Min(minC, c)
			maxC = math.Max(maxC, c)
		}
		lo += minC
		hi += maxC
	}
	// Higher log-odds of default means a lower score.
	return ScoreBand{
		Min: int(math.RoundToEven(a.Offset - a.Factor*hi)),
		Max: int(math.RoundToEven(a.Offset - a.Factor*lo)),
	}
}
