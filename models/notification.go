package models

import "time"

type NotificationType string

const (
	NotifyQuoteSubmitted   NotificationType = "quote_submitted"
	NotifyQuoteAccepted    NotificationType = "quote_accepted"
	NotifyServiceCompleted NotificationType = "service_completed"
	NotifyReviewReceived   NotificationType = "review_received"
	NotifyBookingCreated   NotificationType = "booking_created"
)

// Notification is created by lifecycle side effects only; just IsRead ever changes.
type Notification struct {
	ID        string           `bson:"id" json:"id"`
	UserID    string           `bson:"userId" json:"userId"`
	Type      NotificationType `bson:"type" json:"type"`
	Title     string           `bson:"title" json:"title"`
	Message   string           `bson:"message" json:"message"`
	Link      string           `bson:"link,omitempty" json:"link,omitempty"`
	IsRead    bool             `bson:"isRead" json:"isRead"`
	Metadata  map[string]any   `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
}

// NotificationInput is what a lifecycle transition hands to the emitter.
type NotificationInput struct {
	UserID   string
	Type     NotificationType
	Title    string
	Message  string
	Link     string
	Metadata map[string]any
}
