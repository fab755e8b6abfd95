package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/repositories"
)

// NotificationService defines the interface for notification operations
type NotificationService interface {
	// Notify records a notification for a user. Best-effort: failures are
	// logged and never surfaced to the action that triggered them.
	Notify(ctx context.Context, userID int64, notifType models.NotificationType, message string)
	GetNotifications(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) error
}

// notificationServiceImpl implements NotificationService
type notificationServiceImpl struct {
	notificationRepo *repositories.NotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo *repositories.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Notify records a notification without failing the caller
func (s *notificationServiceImpl) Notify(ctx context.Context, userID int64, notifType models.NotificationType, message string) {
	_, err := s.notificationRepo.Create(ctx, &models.Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("userID", userID).
			Str("type", string(notifType)).
			Msg("Failed to record notification")
	}
}

// GetNotifications retrieves a user's notifications newest-first
func (s *notificationServiceImpl) GetNotifications(ctx context.Context, userID int64, limit, offset int) ([]*models.Notification, error) {
	return s.notificationRepo.GetByUserID(ctx, userID, limit, offset)
}

// MarkRead marks one of the user's notifications as read
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

// MarkAllRead marks every notification of the user as read
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID int64) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
