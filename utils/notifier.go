package utils

import (
	"context"
	"time"

	"jetacademy/logging"
	"jetacademy/models"
	"jetacademy/storage"
)

// DeliverNotification pushes n through every channel its recipient has
// enabled and records the delivery. In-app (push) delivery needs no transport.
func DeliverNotification(ctx context.Context, store storage.Storage, n models.Notification, now time.Time) ([]string, error) {
	user, err := store.GetUser(ctx, n.UserID)
	if err != nil {
		return nil, err
	}

	var channels []string
	if user.EmailNotifications && user.Email != "" {
		if err := SendNotificationEmail(user.Email, n.Title, n.Content); err == nil {
			channels = append(channels, models.ChannelEmail)
		}
	}
	if user.SMSNotifications && user.Phone != "" {
		if err := SendSMS(user.Phone, n.Title+": "+n.Content); err == nil {
			channels = append(channels, models.ChannelSMS)
		}
	}
	if user.PushNotifications {
		channels = append(channels, models.ChannelPush)
	}

	if err := store.MarkNotificationDelivered(ctx, n.ID, channels, now); err != nil {
		return nil, err
	}
	return channels, nil
}

// DispatchScheduledNotifications delivers every notification that has come due.
func DispatchScheduledNotifications(ctx context.Context, store storage.Storage, now time.Time) (int, error) {
	pending, err := store.ListPendingNotifications(ctx, now)
	if err != nil {
		return 0, err
	}
	log := logging.With("notifications")
	sent := 0
	for _, n := range pending {
		if _, err := DeliverNotification(ctx, store, n, now); err != nil {
			log.Error().Err(err).Uint("notificationId", n.ID).Msg("delivering scheduled notification failed")
			continue
		}
		sent++
	}
	return sent, nil
}
