package testutil

import (
	"context"
	"sync"

	"hirewise/models"
)

// RecordingNotifier captures emitted notifications instead of storing or pushing them.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []models.NotificationInput
}

func (r *RecordingNotifier) Emit(_ context.Context, in models.NotificationInput) *models.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, in)
	return &models.Notification{UserID: in.UserID, Type: in.Type, Title: in.Title, Message: in.Message, Link: in.Link}
}

// Sent returns a copy of everything emitted so far.
func (r *RecordingNotifier) Sent() []models.NotificationInput {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.NotificationInput(nil), r.sent...)
}

// OfType returns the emitted notifications with the given type.
func (r *RecordingNotifier) OfType(t models.NotificationType) []models.NotificationInput {
	var out []models.NotificationInput
	for _, n := range r.Sent() {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
