package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sirupsen/logrus"
)

// ResponderRepository определяет контракт для работы с реестром ответчиков
type ResponderRepository interface {
	CreateResponder(ctx context.Context, responder *models.Responder) error
	GetResponderByID(ctx context.Context, id uuid.UUID) (*models.Responder, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Responder, error)
	ListResponders(ctx context.Context, typeFilter, search string) ([]*models.Responder, error)
	UpdateResponderStatus(ctx context.Context, id uuid.UUID, status string) error
	FindNearby(ctx context.Context, lat, lon float64, radiusMeters int) ([]*models.Responder, error)
}

// ResponderService определяет контракт управления реестром ответчиков
type ResponderService interface {
	RegisterResponder(ctx context.Context, viewer models.Viewer, responder *models.Responder) error
	Approve(ctx context.Context, id uuid.UUID) error
	Suspend(ctx context.Context, id uuid.UUID) error
	ListResponders(ctx context.Context, typeFilter, search string) ([]*models.Responder, error)
	NearbyResources(ctx context.Context, viewer models.Viewer) ([]*models.Responder, error)
}

type responderService struct {
	repo   ResponderRepository
	logger *logrus.Logger
}

func NewResponderService(repo ResponderRepository, logger *logrus.Logger) ResponderService {
	return &responderService{
		repo:   repo,
		logger: logger,
	}
}

// RegisterResponder регистрирует нового ответчика. Заявки от волонтеров и
// ведомств ждут одобрения администратора, записи самого администратора
// активируются сразу.
func (s *responderService) RegisterResponder(ctx context.Context, viewer models.Viewer, responder *models.Responder) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "responder",
		"method":  "RegisterResponder",
		"name":    responder.Name,
		"type":    responder.Type,
	})
	log.Info("Registering new responder")

	if !models.ValidResponderType(responder.Type) {
		return fmt.Errorf("service: unknown responder type %q: %w", responder.Type, ErrValidation)
	}
	if responder.RadiusMeters <= 0 {
		return fmt.Errorf("service: operating radius must be positive: %w", ErrValidation)
	}

	if viewer.Role == models.RoleAdmin {
		responder.Status = models.ResponderStatusActive
	} else {
		responder.Status = models.ResponderStatusPending
		userID := viewer.ID
		responder.UserID = &userID
	}
	responder.Available = true

	if err := s.repo.CreateResponder(ctx, responder); err != nil {
		log.WithError(err).Error("Failed to create responder in repository")
		return fmt.Errorf("service: could not register responder: %w", err)
	}

	log.WithField("responder_id", responder.ID).Info("Responder registered successfully")
	return nil
}

// Approve активирует ожидающего ответчика
func (s *responderService) Approve(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "responder",
		"method":       "Approve",
		"responder_id": id,
	})
	log.Info("Approving responder")

	if err := s.repo.UpdateResponderStatus(ctx, id, models.ResponderStatusActive); err != nil {
		log.WithError(err).Warn("Failed to approve responder")
		return fmt.Errorf("service: could not approve responder: %w", err)
	}

	log.Info("Responder approved successfully")
	return nil
}

// Suspend приостанавливает ответчика. Записи никогда не удаляются -
// приостановка это флаг статуса.
func (s *responderService) Suspend(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "responder",
		"method":       "Suspend",
		"responder_id": id,
	})
	log.Info("Suspending responder")

	if err := s.repo.UpdateResponderStatus(ctx, id, models.ResponderStatusSuspended); err != nil {
		log.WithError(err).Warn("Failed to suspend responder")
		return fmt.Errorf("service: could not suspend responder: %w", err)
	}

	log.Info("Responder suspended successfully")
	return nil
}

// ListResponders возвращает реестр ответчиков с фильтром по варианту и имени
func (s *responderService) ListResponders(ctx context.Context, typeFilter, search string) ([]*models.Responder, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "responder",
		"method":  "ListResponders",
		"type":    typeFilter,
	})
	log.Info("Listing responders")

	if typeFilter != "" && !models.ValidResponderType(typeFilter) {
		return nil, fmt.Errorf("service: unknown responder type %q: %w", typeFilter, ErrValidation)
	}

	responders, err := s.repo.ListResponders(ctx, typeFilter, search)
	if err != nil {
		log.WithError(err).Error("Failed to list responders from repository")
		return nil, fmt.Errorf("service: could not list responders: %w", err)
	}

	log.WithField("count", len(responders)).Info("Responders listed successfully")
	return responders, nil
}

// NearbyResources возвращает НКО и волонтерские группы в юрисдикции
// вызывающего ведомства
func (s *responderService) NearbyResources(ctx context.Context, viewer models.Viewer) ([]*models.Responder, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "responder",
		"method":  "NearbyResources",
		"user_id": viewer.ID,
	})
	log.Info("Looking up nearby resources")

	own, err := s.repo.GetByUserID(ctx, viewer.ID)
	if err != nil {
		log.WithError(err).Warn("Responder profile not found for viewer")
		return nil, fmt.Errorf("service: responder profile for user %s not found: %w", viewer.ID, err)
	}

	responders, err := s.repo.FindNearby(ctx, own.Latitude, own.Longitude, own.RadiusMeters)
	if err != nil {
		log.WithError(err).Error("Failed to find nearby responders")
		return nil, fmt.Errorf("service: could not find nearby resources: %w", err)
	}

	log.WithField("count", len(responders)).Info("Nearby resources found")
	return responders, nil
}
