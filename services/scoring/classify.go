package scoring

import (
	"time"

	"hirewise/models"
)

const (
	onTimeWindow = 5 * time.Minute
	lateWindow   = 30 * time.Minute
)

// ClassifyArrival labels an arrival against its scheduled start.
// No arrival at all, or one more than 30 minutes off, counts as missed.
func ClassifyArrival(scheduled time.Time, actual *time.Time) string {
	if actual == nil || actual.IsZero() {
		return models.ArrivalMissed
	}
	diff := actual.Sub(scheduled)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= onTimeWindow:
		return models.ArrivalOnTime
	case diff <= lateWindow:
		return models.ArrivalLate
	default:
		return models.ArrivalMissed
	}
}

// ClassifyFeedback labels a 1..5 rating.
func ClassifyFeedback(rating int) string {
	switch {
	case rating >= 4:
		return models.FeedbackPositive
	case rating == 3:
		return models.FeedbackNeutral
	default:
		return models.FeedbackNegative
	}
}

// ClassifyCompletion labels a job by its operational state and whether the customer confirmed it.
func ClassifyCompletion(workStatus models.WorkStatus, customerConfirmed bool) string {
	if workStatus != models.WorkCompleted {
		return models.CompletionNotCompleted
	}
	if customerConfirmed {
		return models.CompletionCompleted
	}
	return models.CompletionPartial
}
