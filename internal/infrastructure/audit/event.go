// Package audit fans finished decisions out to the audit sinks: the structured log, Kafka, and the signature column.
package audit

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/turtacn/credscore/internal/domain/models"
)

// EventTypePrediction tags decision audit records.
const EventTypePrediction = "PREDICTION"

// DecisionEvent is the serialized audit form of one decision.
type DecisionEvent struct {
	Type               string                 `json:"type"`
	DecisionID         string                 `json:"decision_id"`
	ApplicantID        string                 `json:"applicant_id"`
	CreditScore        int                    `json:"credit_score"`
	DefaultProbability float64                `json:"default_probability"`
	RiskLevel          string                 `json:"risk_level"`
	Overridden         bool                   `json:"overridden"`
	Warnings           []string               `json:"warnings,omitempty"`
	ResponseTimeMs     float64                `json:"response_time_ms"`
	RequestIP          string                 `json:"request_ip,omitempty"`
	Input              models.ApplicantRecord `json:"input"`
	Timestamp          time.Time              `json:"timestamp"`
}

// NewDecisionEvent builds the audit event for record. Latency is rounded to 2 decimals.
func NewDecisionEvent(record *models.DecisionRecord) DecisionEvent {
	d := record.Decision
	latency, _ := decimal.NewFromFloat(d.LatencyMillis()).Round(2).Float64()
	return DecisionEvent{
		Type:               EventTypePrediction,
		DecisionID:         d.ID.String(),
		ApplicantID:        d.ApplicantID,
		CreditScore:        d.Score,
		DefaultProbability: d.Probability,
		RiskLevel:          string(d.Tier),
		Overridden:         d.Overridden,
		Warnings:           d.Warnings,
		ResponseTimeMs:     latency,
		RequestIP:          record.RequestIP,
		Input:              record.Applicant,
		Timestamp:          d.DecidedAt.UTC(),
	}
}
