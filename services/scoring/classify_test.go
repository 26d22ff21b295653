package scoring

import (
	"testing"
	"time"

	"hirewise/models"

	"github.com/stretchr/testify/assert"
)

func TestClassifyArrival(t *testing.T) {
	scheduled := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := scheduled.Add(d)
		return &v
	}

	cases := []struct {
		name   string
		actual *time.Time
		want   string
	}{
		{"no arrival", nil, models.ArrivalMissed},
		{"exact", at(0), models.ArrivalOnTime},
		{"five minutes late", at(5 * time.Minute), models.ArrivalOnTime},
		{"four minutes early", at(-4 * time.Minute), models.ArrivalOnTime},
		{"six minutes late", at(6 * time.Minute), models.ArrivalLate},
		{"thirty minutes late", at(30 * time.Minute), models.ArrivalLate},
		{"twenty minutes early", at(-20 * time.Minute), models.ArrivalLate},
		{"thirty one minutes late", at(31 * time.Minute), models.ArrivalMissed},
		{"zero time", &time.Time{}, models.ArrivalMissed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyArrival(scheduled, tc.actual))
		})
	}
}

func TestClassifyFeedback(t *testing.T) {
	assert.Equal(t, models.FeedbackPositive, ClassifyFeedback(5))
	assert.Equal(t, models.FeedbackPositive, ClassifyFeedback(4))
	assert.Equal(t, models.FeedbackNeutral, ClassifyFeedback(3))
	assert.Equal(t, models.FeedbackNegative, ClassifyFeedback(2))
	assert.Equal(t, models.FeedbackNegative, ClassifyFeedback(1))
}

func TestClassifyCompletion(t *testing.T) {
	assert.Equal(t, models.CompletionCompleted, ClassifyCompletion(models.WorkCompleted, true))
	assert.Equal(t, models.CompletionPartial, ClassifyCompletion(models.WorkCompleted, false))
	assert.Equal(t, models.CompletionNotCompleted, ClassifyCompletion(models.WorkInProgress, true))
	assert.Equal(t, models.CompletionNotCompleted, ClassifyCompletion(models.WorkCancelled, false))
}
