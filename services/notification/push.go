package notification

import (
	"context"
	"fmt"

	"hirewise/models"

	"firebase.google.com/go/v4/messaging"
)

// PushSender delivers a stored notification to the recipient's devices.
type PushSender interface {
	Push(ctx context.Context, userID string, n *models.Notification) error
}

// FCMPusher publishes to the per-user topic "user_<id>" that clients subscribe to at sign-in.
type FCMPusher struct {
	Client *messaging.Client
}

func NewFCMPusher(client *messaging.Client) *FCMPusher {
	return &FCMPusher{Client: client}
}

func UserTopic(userID string) string {
	return "user_" + userID
}

// BuildMessage shapes the FCM payload for a notification.
func BuildMessage(userID string, n *models.Notification) *messaging.Message {
	data := map[string]string{
		"notificationId": n.ID,
		"type":           string(n.Type),
	}
	if n.Link != "" {
		data["link"] = n.Link
	}
	return &messaging.Message{
		Topic: UserTopic(userID),
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "engagement",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}

func (p *FCMPusher) Push(ctx context.Context, userID string, n *models.Notification) error {
	if p.Client == nil {
		return fmt.Errorf("fcm client not configured")
	}
	if _, err := p.Client.Send(ctx, BuildMessage(userID, n)); err != nil {
		return fmt.Errorf("failed to send FCM message to %s: %w", UserTopic(userID), err)
	}
	return nil
}
