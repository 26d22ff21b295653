package scoring

import (
	"testing"

	"hirewise/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictTrend_InsufficientData(t *testing.T) {
	for _, scores := range [][]int{nil, {}, {100}, {0, 100}, {90, 10}} {
		p := PredictTrendFromScores(scores)
		assert.Equal(t, models.TrendInsufficient, p.Trend)
		assert.Zero(t, p.Confidence)
		assert.Nil(t, p.Prediction)
		assert.Equal(t, len(scores), p.Observations)
	}
}

func TestPredictTrend_Improving(t *testing.T) {
	p := PredictTrendFromScores([]int{50, 55, 60})

	assert.Equal(t, models.TrendImproving, p.Trend)
	assert.InDelta(t, 5.0, p.Slope, 1e-9)
	require.NotNil(t, p.Prediction)
	assert.Equal(t, 65, *p.Prediction)
	assert.Equal(t, 100.0, p.Confidence)
}

func TestPredictTrend_Declining(t *testing.T) {
	p := PredictTrendFromScores([]int{90, 89, 88, 87})

	assert.Equal(t, models.TrendDeclining, p.Trend)
	assert.InDelta(t, -1.0, p.Slope, 1e-9)
	require.NotNil(t, p.Prediction)
	assert.Equal(t, 86, *p.Prediction)
	assert.InDelta(t, 20.0, p.Confidence, 1e-9)
}

func TestPredictTrend_Stable(t *testing.T) {
	p := PredictTrendFromScores([]int{70, 70, 70})

	assert.Equal(t, models.TrendStable, p.Trend)
	require.NotNil(t, p.Prediction)
	assert.Equal(t, 70, *p.Prediction)
	assert.Zero(t, p.Confidence)
}

func TestPredictTrend_ShallowSlopeIsStable(t *testing.T) {
	// slope 0.4 sits inside the stable band
	p := PredictTrendFromScores([]int{10, 10, 11, 11})
	assert.Equal(t, models.TrendStable, p.Trend)
	assert.InDelta(t, 0.4, p.Slope, 1e-9)
}

func TestPredictTrend_PredictionClamped(t *testing.T) {
	p := PredictTrendFromScores([]int{0, 100, 100, 100, 100})
	require.NotNil(t, p.Prediction)
	assert.LessOrEqual(t, *p.Prediction, 100)

	down := PredictTrendFromScores([]int{100, 0, 0})
	require.NotNil(t, down.Prediction)
	assert.GreaterOrEqual(t, *down.Prediction, 0)
	assert.Equal(t, 0, *down.Prediction)
}
