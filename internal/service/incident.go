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

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) error
	Stats(ctx context.Context, windowMinutes int) (*models.IncidentStats, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// ListOptions - параметры выборки, пришедшие из запроса
type ListOptions struct {
	Tab      string
	Severity string
	Status   string
	Search   string
	Page     int
	PageSize int
}

// SOSRequest - запрос тревожной кнопки
type SOSRequest struct {
	Type      string
	Latitude  float64
	Longitude float64
	Address   string
}

// IncidentService определяет контракт для бизнес-логики реестра инцидентов
type IncidentService interface {
	Report(ctx context.Context, viewer models.Viewer, incident *models.Incident) error
	SOS(ctx context.Context, viewer models.Viewer, req SOSRequest) (*models.Incident, error)
	Get(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, viewer models.Viewer, opts ListOptions) ([]*models.Incident, error)
	Transition(ctx context.Context, id uuid.UUID, newStatus string) error
	Stats(ctx context.Context) (*models.IncidentStats, error)
}

type incidentService struct {
	repo             IncidentRepository
	responderRepo    ResponderRepository
	notificationRepo NotificationRepository
	logger           *logrus.Logger
	cfg              *config.Config
	publisher        notify.Publisher
}

func NewIncidentService(
	repo IncidentRepository,
	responderRepo ResponderRepository,
	notificationRepo NotificationRepository,
	logger *logrus.Logger,
	cfg *config.Config,
	publisher notify.Publisher,
) IncidentService {
	return &incidentService{
		repo:             repo,
		responderRepo:    responderRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		cfg:              cfg,
		publisher:        publisher,
	}
}

// Report регистрирует новый инцидент от имени заявителя
func (s *incidentService) Report(ctx context.Context, viewer models.Viewer, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "Report",
		"type":     incident.Type,
		"severity": incident.Severity,
	})
	log.Info("Attempting to report a new incident")

	if !models.ValidIncidentType(incident.Type) {
		return fmt.Errorf("service: unknown incident type %q: %w", incident.Type, ErrValidation)
	}
	if !models.ValidSeverity(incident.Severity) {
		return fmt.Errorf("service: unknown severity %q: %w", incident.Severity, ErrValidation)
	}

	incident.ReportedBy = viewer.ID
	incident.Status = models.IncidentStatusUnassigned
	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident reported successfully")
	return nil
}

// sosTypeMap переводит тип тревожной кнопки в тип инцидента
var sosTypeMap = map[string]string{
	"medical":  models.IncidentTypeMedical,
	"fire":     models.IncidentTypeFire,
	"police":   models.IncidentTypeCrime,
	"disaster": models.IncidentTypeFlood,
	"other":    models.IncidentTypeOther,
}

// SOS создает критический инцидент одним нажатием тревожной кнопки
func (s *incidentService) SOS(ctx context.Context, viewer models.Viewer, req SOSRequest) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "SOS",
		"sos_type": req.Type,
	})
	log.Info("SOS alert received")

	incidentType, ok := sosTypeMap[req.Type]
	if !ok {
		return nil, fmt.Errorf("service: unknown sos type %q: %w", req.Type, ErrValidation)
	}

	incident := &models.Incident{
		Type:        incidentType,
		Severity:    models.SeverityCritical,
		Description: "SOS alert triggered from mobile app",
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		ReportedBy:  viewer.ID,
		Status:      models.IncidentStatusUnassigned,
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create SOS incident in repository")
		return nil, fmt.Errorf("service: could not create sos incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("SOS incident created")
	return incident, nil
}

// Get возвращает инцидент по ID с учетом видимости вызывающего
func (s *incidentService) Get(ctx context.Context, viewer models.Viewer, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Get",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	incident, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}

	if incident == nil {
		incident, err = s.repo.GetByID(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to get incident from repository")
			return nil, fmt.Errorf("service: could not get incident: %w", err)
		}
		if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
			log.WithError(err).Warn("Failed to cache incident")
		}
	}

	// Гражданин видит только собственные заявки; чужие скрываем как несуществующие
	if viewer.Role == models.RoleCitizen && incident.ReportedBy != viewer.ID {
		return nil, fmt.Errorf("service: incident %s is not visible to viewer: %w", id, ErrNotFound)
	}

	log.Info("Incident fetched successfully")
	return incident, nil
}

// List возвращает инциденты, видимые вызывающему согласно его роли
func (s *incidentService) List(ctx context.Context, viewer models.Viewer, opts ListOptions) ([]*models.Incident, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 || opts.PageSize > 100 {
		opts.PageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "List",
		"role":    viewer.Role,
		"tab":     opts.Tab,
	})
	log.Info("Listing incidents")

	filter := models.IncidentFilter{
		ViewerID:   viewer.ID,
		ViewerRole: viewer.Role,
		Tab:        opts.Tab,
		Severity:   opts.Severity,
		Status:     opts.Status,
		Search:     opts.Search,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
	}

	// Волонтеры и ведомства видят инциденты в пределах своего рабочего радиуса.
	// Профиль ответчика может отсутствовать (еще не настроен) - тогда
	// географическое ограничение не применяется.
	if viewer.Role == models.RoleVolunteer || viewer.Role == models.RoleAgency {
		responder, err := s.responderRepo.GetByUserID(ctx, viewer.ID)
		if err == nil && responder != nil {
			filter.ResponderID = &responder.ID
			filter.Latitude = &responder.Latitude
			filter.Longitude = &responder.Longitude
			filter.RadiusMeters = &responder.RadiusMeters
		}
	}

	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// Transition переводит инцидент в новый статус. Допускаются только
// последовательные переходы вперед; переходы в assigned и resolved
// порождают уведомление заявителю.
func (s *incidentService) Transition(ctx context.Context, id uuid.UUID, newStatus string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Transition",
		"incident_id": id,
		"new_status":  newStatus,
	})
	log.Info("Attempting incident status transition")

	if !models.ValidIncidentStatus(newStatus) {
		return fmt.Errorf("service: unknown status %q: %w", newStatus, ErrInvalidTransition)
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to transition a non-existent incident")
		return fmt.Errorf("service: incident %s not found for transition: %w", id, err)
	}

	if !models.CanTransitionIncident(incident.Status, newStatus) {
		return fmt.Errorf("service: transition %s -> %s is not allowed: %w", incident.Status, newStatus, ErrInvalidTransition)
	}

	// Guarded update: проигрыш гонки со встречным переходом виден как 0 строк
	if err := s.repo.TransitionStatus(ctx, id, incident.Status, newStatus); err != nil {
		log.WithError(err).Error("Failed to transition incident status in repository")
		return fmt.Errorf("service: could not transition incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	if newStatus == models.IncidentStatusAssigned || newStatus == models.IncidentStatusResolved {
		s.notifyReporter(ctx, incident, newStatus)
	}

	log.Info("Incident status transitioned successfully")
	return nil
}

// notifyReporter сохраняет уведомление заявителю и публикует событие доставки
func (s *incidentService) notifyReporter(ctx context.Context, incident *models.Incident, newStatus string) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "notifyReporter",
		"incident_id": incident.ID,
	})

	notification := &models.Notification{
		UserID:     incident.ReportedBy,
		IncidentID: incident.ID,
		EtaMinutes: incident.EtaMinutes,
	}
	switch newStatus {
	case models.IncidentStatusAssigned:
		notification.Type = models.NotificationTypeAssigned
		notification.Title = "Help is on the way"
		notification.Message = fmt.Sprintf("A responder has been assigned to your %s report.", incident.Type)
	case models.IncidentStatusResolved:
		notification.Type = models.NotificationTypeResolved
		notification.Title = "Incident resolved"
		notification.Message = fmt.Sprintf("Your %s report has been resolved.", incident.Type)
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		log.WithError(err).Error("Failed to save notification")
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
		log.WithError(err).Error("Failed to publish notification event")
	}
}

// Stats возвращает агрегированную статистику для администратора
func (s *incidentService) Stats(ctx context.Context) (*models.IncidentStats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Stats",
	})
	log.Info("Collecting incident stats")

	stats, err := s.repo.Stats(ctx, s.cfg.StatsTimeWindowMinutes)
	if err != nil {
		log.WithError(err).Error("Failed to get stats from repository")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}

	return stats, nil
}
