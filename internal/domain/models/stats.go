package models

// DecisionStats aggregates stored decisions for monitoring.
type DecisionStats struct {
	TotalPredictions int64            `json:"total_predictions"`
	ByRiskLevel      map[string]int64 `json:"by_risk_level"`
	AvgCreditScore   float64          `json:"avg_credit_score"`
	Last24h          int64            `json:"last_24h"`
}

// NewDecisionStats returns zeroed stats with an empty tier map.
func NewDecisionStats() *DecisionStats {
	return &DecisionStats{ByRiskLevel: make(map[string]int64)}
}
