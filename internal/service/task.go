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

// TaskRepository определяет контракт для работы с задачами ответчиков.
// Методы ClaimIncident, StartTask и CompleteTask выполняются в одной
// транзакции с изменением статуса инцидента и занятости ответчика.
type TaskRepository interface {
	// ClaimIncident атомарно забирает незанятый инцидент: переводит его в
	// assigned, помечает ответчика занятым, создает задачу и уведомление
	// заявителю. Победитель гонки ровно один, остальные получают
	// ErrAlreadyAssigned.
	ClaimIncident(ctx context.Context, incidentID, responderID uuid.UUID, etaMinutes int) (*models.Task, *models.Notification, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListByResponder(ctx context.Context, responderID uuid.UUID) ([]*models.Task, error)
	// StartTask переводит задачу assigned -> in-progress вместе с инцидентом
	StartTask(ctx context.Context, taskID, responderID uuid.UUID) (*models.Task, error)
	// CompleteTask переводит задачу in-progress -> completed, инцидент в
	// resolved, освобождает ответчика и создает уведомление заявителю
	CompleteTask(ctx context.Context, taskID, responderID uuid.UUID) (*models.Task, *models.Notification, error)
}

// TaskService определяет контракт продвижения задач ответчика
type TaskService interface {
	ListTasks(ctx context.Context, viewer models.Viewer) ([]*models.Task, error)
	Accept(ctx context.Context, viewer models.Viewer, incidentID uuid.UUID, etaMinutes int) (*models.Task, error)
	Start(ctx context.Context, viewer models.Viewer, taskID uuid.UUID) (*models.Task, error)
	Complete(ctx context.Context, viewer models.Viewer, taskID uuid.UUID) (*models.Task, error)
}

type taskService struct {
	repo          TaskRepository
	responderRepo ResponderRepository
	incidentRepo  IncidentRepository
	logger        *logrus.Logger
	cfg           *config.Config
	publisher     notify.Publisher
}

func NewTaskService(
	repo TaskRepository,
	responderRepo ResponderRepository,
	incidentRepo IncidentRepository,
	logger *logrus.Logger,
	cfg *config.Config,
	publisher notify.Publisher,
) TaskService {
	return &taskService{
		repo:          repo,
		responderRepo: responderRepo,
		incidentRepo:  incidentRepo,
		logger:        logger,
		cfg:           cfg,
		publisher:     publisher,
	}
}

// responderFor находит профиль ответчика вызывающего пользователя
func (s *taskService) responderFor(ctx context.Context, viewer models.Viewer) (*models.Responder, error) {
	responder, err := s.responderRepo.GetByUserID(ctx, viewer.ID)
	if err != nil {
		return nil, fmt.Errorf("service: responder profile for user %s not found: %w", viewer.ID, err)
	}
	return responder, nil
}

// ListTasks возвращает задачи вызывающего ответчика
func (s *taskService) ListTasks(ctx context.Context, viewer models.Viewer) ([]*models.Task, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "task",
		"method":  "ListTasks",
		"user_id": viewer.ID,
	})
	log.Info("Listing responder tasks")

	responder, err := s.responderFor(ctx, viewer)
	if err != nil {
		log.WithError(err).Warn("Responder profile not found")
		return nil, err
	}

	tasks, err := s.repo.ListByResponder(ctx, responder.ID)
	if err != nil {
		log.WithError(err).Error("Failed to list tasks from repository")
		return nil, fmt.Errorf("service: could not list tasks: %w", err)
	}

	log.WithField("count", len(tasks)).Info("Tasks listed successfully")
	return tasks, nil
}

// Accept - самостоятельное принятие незанятого инцидента ответчиком.
// Эквивалентно назначению диспетчером, но инициируется самим ответчиком.
func (s *taskService) Accept(ctx context.Context, viewer models.Viewer, incidentID uuid.UUID, etaMinutes int) (*models.Task, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "task",
		"method":      "Accept",
		"incident_id": incidentID,
		"user_id":     viewer.ID,
	})
	log.Info("Responder accepting incident")

	if !s.cfg.EtaAllowed(etaMinutes) {
		return nil, fmt.Errorf("service: eta %d is not in the accepted set: %w", etaMinutes, ErrInvalidEta)
	}

	responder, err := s.responderFor(ctx, viewer)
	if err != nil {
		log.WithError(err).Warn("Responder profile not found")
		return nil, err
	}

	task, notification, err := s.repo.ClaimIncident(ctx, incidentID, responder.ID, etaMinutes)
	if err != nil {
		log.WithError(err).Warn("Failed to claim incident")
		return nil, fmt.Errorf("service: could not accept incident: %w", err)
	}

	if err := s.incidentRepo.InvalidateIncidentCache(ctx, incidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.publish(ctx, notification)
	log.WithField("task_id", task.ID).Info("Incident accepted successfully")
	return task, nil
}

// Start переводит задачу в in-progress вместе с инцидентом
func (s *taskService) Start(ctx context.Context, viewer models.Viewer, taskID uuid.UUID) (*models.Task, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "task",
		"method":  "Start",
		"task_id": taskID,
	})
	log.Info("Starting task")

	responder, err := s.responderFor(ctx, viewer)
	if err != nil {
		log.WithError(err).Warn("Responder profile not found")
		return nil, err
	}

	task, err := s.repo.StartTask(ctx, taskID, responder.ID)
	if err != nil {
		log.WithError(err).Warn("Failed to start task")
		return nil, fmt.Errorf("service: could not start task: %w", err)
	}

	if err := s.incidentRepo.InvalidateIncidentCache(ctx, task.IncidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Task started successfully")
	return task, nil
}

// Complete завершает задачу. Завершение атомарно с переводом инцидента
// в resolved и освобождением ответчика.
func (s *taskService) Complete(ctx context.Context, viewer models.Viewer, taskID uuid.UUID) (*models.Task, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "task",
		"method":  "Complete",
		"task_id": taskID,
	})
	log.Info("Completing task")

	responder, err := s.responderFor(ctx, viewer)
	if err != nil {
		log.WithError(err).Warn("Responder profile not found")
		return nil, err
	}

	task, notification, err := s.repo.CompleteTask(ctx, taskID, responder.ID)
	if err != nil {
		log.WithError(err).Warn("Failed to complete task")
		return nil, fmt.Errorf("service: could not complete task: %w", err)
	}

	if err := s.incidentRepo.InvalidateIncidentCache(ctx, task.IncidentID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	s.publish(ctx, notification)
	log.Info("Task completed successfully")
	return task, nil
}

// publish отправляет событие уведомления в очередь доставки.
// Ошибка публикации не откатывает операцию - запись уже сохранена в бд.
func (s *taskService) publish(ctx context.Context, notification *models.Notification) {
	if notification == nil {
		return
	}
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
		s.logger.WithError(err).Error("Failed to publish notification event")
	}
}
