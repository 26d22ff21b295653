package scoring

import (
	"math"

	"hirewise/models"
)

const (
	minTrendObservations = 3
	trendSlopeThreshold  = 0.5
	confidencePerSlope   = 20
)

// PredictTrendFromScores fits an ordinary least-squares line over the index-ordered
// series (x = 0..n-1) and extrapolates one step ahead.
func PredictTrendFromScores(scores []int) models.TrendPrediction {
	n := len(scores)
	if n < minTrendObservations {
		return models.TrendPrediction{Trend: models.TrendInsufficient, Confidence: 0, Observations: n}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, s := range scores {
		x, y := float64(i), float64(s)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	prediction := int(clamp(math.Round(slope*fn+intercept), 0, 100))

	trend := models.TrendStable
	switch {
	case slope > trendSlopeThreshold:
		trend = models.TrendImproving
	case slope < -trendSlopeThreshold:
		trend = models.TrendDeclining
	}

	return models.TrendPrediction{
		Trend:        trend,
		Prediction:   &prediction,
		Confidence:   clamp(math.Abs(slope)*confidencePerSlope, 0, 100),
		Slope:        slope,
		Observations: n,
	}
}
