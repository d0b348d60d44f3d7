// internal/services/notification_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wareflow/wareflow-backend/internal/models"
	"github.com/wareflow/wareflow-backend/internal/utils"
)

// NotificationService resolves the audience for stock events, persists
// a shared notification record and fans delivery out per recipient.
// Delivery is best-effort: one recipient's failure never blocks the
// others, and no failure surfaces to the caller.
type NotificationService struct {
	db     *gorm.DB
	mailer EmailSender
	push   PushSender
}

// Event describes one trigger for the dispatcher.
type Event struct {
	Type          models.NotificationType
	Title         string
	Message       string
	ProductID     *uuid.UUID
	WarehouseID   *uuid.UUID
	TransactionID *uuid.UUID
}

func NewNotificationService(db *gorm.DB, mailer EmailSender, push PushSender) *NotificationService {
	return &NotificationService{
		db:     db,
		mailer: mailer,
		push:   push,
	}
}

// Dispatch resolves the audience, persists the notification and
// attempts email and web-push delivery to every recipient.
func (s *NotificationService) Dispatch(event Event) error {
	audience, err := s.resolveAudience(event.WarehouseID)
	if err != nil {
		return fmt.Errorf("failed to resolve audience: %w", err)
	}

	if len(audience) == 0 {
		logrus.WithField("type", event.Type).Info("Notification skipped: empty audience")
		return nil
	}

	// The shared record is created once, before any fan-out, so a
	// delivery failure cannot lose the in-app notification.
	notification := &models.Notification{
		Type:          event.Type,
		Title:         event.Title,
		Message:       event.Message,
		ProductID:     event.ProductID,
		WarehouseID:   event.WarehouseID,
		TransactionID: event.TransactionID,
	}
	for _, u := range audience {
		notification.Recipients = append(notification.Recipients, models.NotificationRecipient{
			UserID: u.ID,
		})
	}
	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	payload, _ := json.Marshal(map[string]string{
		"title":   event.Title,
		"message": event.Message,
		"type":    string(event.Type),
	})

	for i := range audience {
		user := &audience[i]

		if err := s.mailer.Send(user.Email, event.Title, event.Message); err != nil {
			logrus.WithError(err).WithField("user_id", user.ID).Warn("Email delivery failed")
		}

		s.pushToUser(user.ID, payload)
	}

	return nil
}

// resolveAudience returns all admins plus the managers assigned to the
// warehouse, deduplicated.
func (s *NotificationService) resolveAudience(warehouseID *uuid.UUID) ([]models.User, error) {
	var admins []models.User
	if err := s.db.Where("role = ? AND active = ? AND deleted = ?",
		models.UserRoleAdmin, true, false).Find(&admins).Error; err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(admins))
	audience := make([]models.User, 0, len(admins))
	for _, u := range admins {
		seen[u.ID] = true
		audience = append(audience, u)
	}

	if warehouseID != nil {
		var warehouse models.Warehouse
		err := s.db.Preload("Managers").First(&warehouse, "id = ?", *warehouseID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		for _, m := range warehouse.Managers {
			if !seen[m.ID] && m.Active && !m.Deleted {
				seen[m.ID] = true
				audience = append(audience, m)
			}
		}
	}

	return audience, nil
}

func (s *NotificationService) pushToUser(userID uuid.UUID, payload []byte) {
	var subs []models.PushSubscription
	if err := s.db.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load push subscriptions")
		return
	}

	for i := range subs {
		sub := &subs[i]
		err := s.push.Send(sub, payload)
		if err == nil {
			continue
		}

		if errors.Is(err, ErrSubscriptionExpired) {
			if delErr := s.db.Delete(sub).Error; delErr != nil {
				logrus.WithError(delErr).Warn("Failed to prune expired push subscription")
			}
			continue
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id":  userID,
			"endpoint": sub.Endpoint,
		}).Warn("Push delivery failed")
	}
}

// ListForUser returns the user's notifications, newest first, with the
// per-user seen flag attached.
func (s *NotificationService) ListForUser(userID uuid.UUID, params utils.PaginationParams) ([]models.Notification, int64, error) {
	base := s.db.Model(&models.Notification{}).
		Joins("JOIN notification_recipients nr ON nr.notification_id = notifications.id").
		Where("nr.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.Notification
	if err := utils.ApplyPagination(base.Select("notifications.*").Order("notifications.created_at DESC"), params).
		Preload("Recipients", "user_id = ?", userID).
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkSeen records that the user has seen the notification.
func (s *NotificationService) MarkSeen(notificationID, userID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.NotificationRecipient{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"seen": true, "seen_at": &now})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification seen: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

// UnseenCount returns how many notifications the user has not seen yet.
func (s *NotificationService) UnseenCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.NotificationRecipient{}).
		Where("user_id = ? AND seen = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unseen notifications: %w", err)
	}
	return count, nil
}

// Subscribe registers a push subscription for the user, replacing a
// previous registration of the same endpoint.
func (s *NotificationService) Subscribe(userID uuid.UUID, endpoint, p256dh, auth string) (*models.PushSubscription, error) {
	var existing models.PushSubscription
	err := s.db.Where("endpoint = ?", endpoint).First(&existing).Error
	if err == nil {
		existing.UserID = userID
		existing.P256dh = p256dh
		existing.Auth = auth
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update subscription: %w", err)
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	return sub, nil
}

// Unsubscribe removes the user's subscription for the endpoint.
func (s *NotificationService) Unsubscribe(userID uuid.UUID, endpoint string) error {
	result := s.db.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("subscription not found")
	}
	return nil
}
