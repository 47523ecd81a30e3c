package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sirupsen/logrus"
)

// NotificationRepository определяет контракт для работы с бд уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
}

// NotificationService определяет контракт чтения уведомлений получателем
type NotificationService interface {
	ListNotifications(ctx context.Context, viewer models.Viewer) ([]*models.Notification, error)
}

type notificationService struct {
	repo   NotificationRepository
	logger *logrus.Logger
}

func NewNotificationService(repo NotificationRepository, logger *logrus.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger,
	}
}

// ListNotifications возвращает уведомления вызывающего, новые первыми
func (s *notificationService) ListNotifications(ctx context.Context, viewer models.Viewer) ([]*models.Notification, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "notification",
		"method":  "ListNotifications",
		"user_id": viewer.ID,
	})
	log.Info("Listing notifications")

	notifications, err := s.repo.ListByUser(ctx, viewer.ID)
	if err != nil {
		log.WithError(err).Error("Failed to list notifications from repository")
		return nil, fmt.Errorf("service: could not list notifications: %w", err)
	}

	return notifications, nil
}
