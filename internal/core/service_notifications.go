package core

import (
	"context"
	"fmt"
	"strings"
)

// AddNotification appends a dashboard notification. The created date comes
// from the service clock when unset.
func (s *Service) AddNotification(ctx context.Context, notification Notification) (Notification, Result, error) {
	var created Notification
	res, err := s.transact(ctx, "add_notification", func(tx Transaction) (string, error) {
		if err := requireField(notification.Text, "notification text"); err != nil {
			return "", err
		}
		switch notification.Type {
		case NotificationLease, NotificationRent, NotificationMaintenance:
		default:
			return "", fmt.Errorf("unknown notification type %q", notification.Type)
		}
		if notification.Created == "" {
			notification.Created = s.today()
		}
		var txErr error
		created, txErr = tx.CreateNotification(notification)
		return created.ID, txErr
	})
	return created, res, err
}

// ClearNotifications removes every notification.
func (s *Service) ClearNotifications(ctx context.Context) (Result, error) {
	return s.transact(ctx, "clear_notifications", func(tx Transaction) (string, error) {
		return "", tx.ClearNotifications()
	})
}

// Profile returns the stored profile for an email, matching case-insensitively.
func (s *Service) Profile(email string) (Profile, bool) {
	return s.store.GetProfile(strings.ToLower(strings.TrimSpace(email)))
}

// SaveProfile stores a profile keyed by its email, replacing any existing
// record wholesale.
func (s *Service) SaveProfile(ctx context.Context, profile Profile) (Profile, Result, error) {
	var saved Profile
	res, err := s.transact(ctx, "save_profile", func(tx Transaction) (string, error) {
		var txErr error
		saved, txErr = tx.PutProfile(profile)
		return saved.Email, txErr
	})
	return saved, res, err
}
