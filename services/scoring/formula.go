package scoring

import (
	"math"

	"hirewise/models"
)

// Score weights. They sum to 1.0.
const (
	WeightCompletion = 0.40
	WeightOnTime     = 0.30
	WeightFeedback   = 0.30
)

// WeightedScore applies the fixed formula to three 0..100 rates, clamps and rounds.
func WeightedScore(completionRate, onTimeRate, positiveFeedbackRate float64) int {
	raw := WeightCompletion*completionRate + WeightOnTime*onTimeRate + WeightFeedback*positiveFeedbackRate
	return int(math.Round(clamp(raw, 0, 100)))
}

// Breakdown aggregates the already-classified labels of a booking history.
// An empty history scores 0: no history and zero trust are treated the same.
func Breakdown(providerID string, bookings []models.Booking) models.ScoreBreakdown {
	out := models.ScoreBreakdown{ProviderID: providerID, TotalBookings: len(bookings)}
	if len(bookings) == 0 {
		return out
	}

	var completed, onTime, positive int
	for i := range bookings {
		if bookings[i].CompletionStatus == models.CompletionCompleted {
			completed++
		}
		if bookings[i].ArrivalStatus == models.ArrivalOnTime {
			onTime++
		}
		if bookings[i].FeedbackStatus == models.FeedbackPositive {
			positive++
		}
	}

	total := float64(len(bookings))
	out.CompletionRate = float64(completed) / total * 100
	out.OnTimeRate = float64(onTime) / total * 100
	out.PositiveFeedbackRate = float64(positive) / total * 100
	out.Score = WeightedScore(out.CompletionRate, out.OnTimeRate, out.PositiveFeedbackRate)
	return out
}

// JobScore is the single-booking observation fed to the trend predictor: the same formula with
// each rate being 100 or 0 for this one job.
func JobScore(b *models.Booking) int {
	return WeightedScore(
		indicator(b.CompletionStatus == models.CompletionCompleted),
		indicator(b.ArrivalStatus == models.ArrivalOnTime),
		indicator(b.FeedbackStatus == models.FeedbackPositive),
	)
}

func indicator(ok bool) float64 {
	if ok {
		return 100
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
