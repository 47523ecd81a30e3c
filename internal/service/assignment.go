package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/config"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/notify"
	"github.com/sirupsen/logrus"
)

// AssignmentService определяет контракт диспетчерского назначения ответчика.
// Выбор конкретного ответчика - ручное решение оператора, сервис лишь
// проверяет предусловия.
type AssignmentService interface {
	Assign(ctx context.Context, incidentID, responderID uuid.UUID, etaMinutes int) (*models.Task, error)
}

type assignmentService struct {
	taskRepo     TaskRepository
	incidentRepo IncidentRepository
	logger       *logrus.Logger
	cfg          *config.Config
	publisher    notify.Publisher
}

func NewAssignmentService(
	taskRepo TaskRepository,
	incidentRepo IncidentRepository,
	logger *logrus.Logger,
	cfg *config.Config,
	publisher notify.Publisher,
) AssignmentService {
	return &assignmentService{
		taskRepo:     taskRepo,
		incidentRepo: incidentRepo,
		logger:       logger,
		cfg:          cfg,
		publisher:    publisher,
	}
}

// Assign привязывает ответчика к незанятому инциденту с заданным ETA.
// Инцидент переходит в assigned, ответчик помечается занятым, заявителю
// уходит уведомление. При гонке за один инцидент побеждает ровно один
// вызов, остальные получают ErrAlreadyAssigned.
func (s *assignmentService) Assign(ctx context.Context, incidentID, responderID uuid.UUID, etaMinutes int) (*models.Task, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "assignment",
		"method":       "Assign",
		"incident_id":  incidentID,
		"responder_id": responderID,
		"eta_minutes":  etaMinutes,
	})
	log.Info("Attempting to assign responder to incident")

	if !s.cfg.EtaAllowed(etaMinutes) {
		return nil, fmt.Errorf("service: eta %d is not in the accepted set: %w", etaMinutes, ErrInvalidEta)
	}

	task, notification, err := s.taskRepo.ClaimIncident(ctx, incidentID, responderID, etaMinutes)
	if err != nil {
		log.WithError(err).Warn("Failed to claim incident for assignment")
		return nil, fmt.Errorf("service: could not assign incident: %w", err)
	}

	if err := s.incidentRepo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	if notification != nil {
		event := notify.Event{
			UserID:     notification.UserID,
			IncidentID: notification.IncidentID,
			Type:       notification.Type,
			Title:      notification.Title,
			Message:    notification.Message,
			EtaMinutes: notification.EtaMinutes,
			Timestamp:  time.Now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.WithError(err).Error("Failed to publish notification event")
		}
	}

	log.WithField("task_id", task.ID).Info("Responder assigned successfully")
	return task, nil
}
