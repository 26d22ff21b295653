package models

import "time"

// ScoreBreakdown is the set of rates the reliability score is computed from.
type ScoreBreakdown struct {
	ProviderID           string  `json:"providerId"`
	TotalBookings        int     `json:"totalBookings"`
	CompletionRate       float64 `json:"completionRate"`
	OnTimeRate           float64 `json:"onTimeRate"`
	PositiveFeedbackRate float64 `json:"positiveFeedbackRate"`
	Score                int     `json:"score"`
}

const (
	TrendImproving    = "Improving"
	TrendDeclining    = "Declining"
	TrendStable       = "Stable"
	TrendInsufficient = "Insufficient Data"
)

// TrendPrediction is the direction forecast for a provider's score.
// Confidence is a unitless heuristic, not a statistical interval.
type TrendPrediction struct {
	ProviderID   string  `json:"providerId"`
	Trend        string  `json:"trend"`
	Prediction   *int    `json:"prediction,omitempty"`
	Confidence   float64 `json:"confidence"`
	Slope        float64 `json:"slope"`
	Observations int     `json:"observations"`
}

// SweepSummary reports the outcome of a batch score refresh.
type SweepSummary struct {
	Updated   int           `json:"updated"`
	Failed    int           `json:"failed"`
	Skipped   bool          `json:"skipped"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	FailedIDs []string      `json:"failedIds,omitempty"`
}
