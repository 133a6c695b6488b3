// Package notify keeps each user's notification feed and pushes new entries
// to connected websocket clients.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/farellandr/mealpass/internal/apperrors"
	"github.com/farellandr/mealpass/internal/logger"
	"github.com/farellandr/mealpass/internal/models"
	"github.com/farellandr/mealpass/internal/store"
)

// MaxStored bounds a user's feed; older entries fall off the end.
const MaxStored = 100

type Publisher interface {
	Publish(userID string, payload any)
}

type Service struct {
	store  store.Store
	locker store.Locker
	pub    Publisher
	log    *logger.Logger
	now    func() time.Time
}

func NewService(s store.Store, locker store.Locker, pub Publisher, log *logger.Logger) *Service {
	return &Service{store: s, locker: locker, pub: pub, log: log.WithComponent("notify"), now: time.Now}
}

// allowed maps a notification kind onto the preference that gates it.
func allowed(prefs models.NotificationPreferences, kind string) bool {
	switch {
	case strings.HasPrefix(kind, "wallet."):
		return prefs.Wallet
	case kind == "reservation.paid":
		return prefs.Payments
	case strings.HasPrefix(kind, "reservation."):
		return prefs.Reservations
	}
	return true
}

// Notify records a notification unless the user muted its kind. Failures
// are logged and never reach the caller.
func (s *Service) Notify(ctx context.Context, userID, kind, title, message string) {
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load notification preferences", "user_id", userID, "error", err)
		return
	}
	if !allowed(prefs, kind) {
		return
	}

	n := models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: s.now(),
	}
	unlock, err := store.LockWait(ctx, s.locker, store.NotificationsLockName(userID))
	if err != nil {
		s.log.Error("Failed to lock notification feed", "user_id", userID, "error", err)
		return
	}
	err = s.store.Update(ctx, func(tx store.Tx) error {
		var feed []models.Notification
		if _, err := store.GetJSON(ctx, tx, store.NotificationsKey(userID), &feed); err != nil {
			return err
		}
		feed = append([]models.Notification{n}, feed...)
		if len(feed) > MaxStored {
			feed = feed[:MaxStored]
		}
		return store.SetJSON(ctx, tx, store.NotificationsKey(userID), feed)
	})
	unlock()
	if err != nil {
		s.log.Error("Failed to store notification", "user_id", userID, "kind", kind, "error", err)
		return
	}
	if s.pub != nil {
		s.pub.Publish(userID, n)
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Notification, error) {
	feed := []models.Notification{}
	if _, err := store.GetJSON(ctx, s.store, store.NotificationsKey(userID), &feed); err != nil {
		return nil, err
	}
	return feed, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	unlock, err := store.LockWait(ctx, s.locker, store.NotificationsLockName(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var out *models.Notification
	err = s.store.Update(ctx, func(tx store.Tx) error {
		var feed []models.Notification
		if _, err := store.GetJSON(ctx, tx, store.NotificationsKey(userID), &feed); err != nil {
			return err
		}
		for i := range feed {
			if feed[i].ID == id {
				feed[i].Read = true
				out = &feed[i]
				return store.SetJSON(ctx, tx, store.NotificationsKey(userID), feed)
			}
		}
		return apperrors.NewNotFound(apperrors.KindNotificationMissing, id)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Preferences(ctx context.Context, userID string) (models.NotificationPreferences, error) {
	prefs := models.DefaultNotificationPreferences()
	if _, err := store.GetJSON(ctx, s.store, store.NotificationPreferencesKey(userID), &prefs); err != nil {
		return prefs, err
	}
	return prefs, nil
}

func (s *Service) SetPreferences(ctx context.Context, userID string, prefs models.NotificationPreferences) error {
	return store.SetJSON(ctx, s.store, store.NotificationPreferencesKey(userID), prefs)
}
