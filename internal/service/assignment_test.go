package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/config"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/notify"
	notify_mocks "github.com/sahyog/crisis_response_platform/internal/notify/mocks"
	"github.com/sahyog/crisis_response_platform/internal/service"
	"github.com/sahyog/crisis_response_platform/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type assignmentServiceMocks struct {
	taskRepo     *mocks.MockTaskRepository
	incidentRepo *mocks.MockIncidentRepository
	publisher    *notify_mocks.MockPublisher
}

// newTestAssignmentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAssignmentService(t *testing.T) (service.AssignmentService, assignmentServiceMocks) {
	ctrl := gomock.NewController(t)
	m := assignmentServiceMocks{
		taskRepo:     mocks.NewMockTaskRepository(ctrl),
		incidentRepo: mocks.NewMockIncidentRepository(ctrl),
		publisher:    notify_mocks.NewMockPublisher(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		EtaOptions: []int{5, 10, 15, 20, 30, 45, 60},
	}

	svc := service.NewAssignmentService(m.taskRepo, m.incidentRepo, logger, cfg, m.publisher)
	return svc, m
}

func TestAssign_Success(t *testing.T) {
	// Подготовка
	svc, m := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	responderID := uuid.New()
	eta := 20
	createdTask := &models.Task{
		ID:          uuid.New(),
		IncidentID:  incidentID,
		ResponderID: responderID,
		Status:      models.TaskStatusAssigned,
		EtaMinutes:  eta,
	}
	notification := &models.Notification{
		UserID:     uuid.New(),
		IncidentID: incidentID,
		Type:       models.NotificationTypeAssigned,
		EtaMinutes: &eta,
	}

	// Ожидания
	m.taskRepo.EXPECT().ClaimIncident(ctx, incidentID, responderID, eta).Return(createdTask, notification, nil).Times(1)
	m.incidentRepo.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil).Times(1)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(_ context.Context, event notify.Event) {
			assert.Equal(t, notification.UserID, event.UserID)
			assert.Equal(t, models.NotificationTypeAssigned, event.Type)
		}).Return(nil).Times(1)

	// Действие
	task, err := svc.Assign(ctx, incidentID, responderID, eta)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, createdTask, task)
}

func TestAssign_InvalidEta(t *testing.T) {
	// Подготовка
	svc, m := newTestAssignmentService(t)
	ctx := context.Background()

	// Ожидания: до репозитория дело не доходит
	m.taskRepo.EXPECT().ClaimIncident(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	task, err := svc.Assign(ctx, uuid.New(), uuid.New(), 7)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, service.ErrInvalidEta)
}

func TestAssign_AlreadyAssigned(t *testing.T) {
	// Подготовка
	svc, m := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	responderID := uuid.New()
	raceErr := fmt.Errorf("incident %s: %w", incidentID, service.ErrAlreadyAssigned)

	// Ожидания
	m.taskRepo.EXPECT().ClaimIncident(ctx, incidentID, responderID, 10).Return(nil, nil, raceErr).Times(1)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	task, err := svc.Assign(ctx, incidentID, responderID, 10)

	// Проверки: второй диспетчер получает конфликт, а не второе назначение
	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, service.ErrAlreadyAssigned)
}

func TestAssign_ResponderUnavailable(t *testing.T) {
	// Подготовка
	svc, m := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	responderID := uuid.New()
	busyErr := fmt.Errorf("responder %s: %w", responderID, service.ErrResponderUnavailable)

	// Ожидания
	m.taskRepo.EXPECT().ClaimIncident(ctx, incidentID, responderID, 30).Return(nil, nil, busyErr).Times(1)
	m.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	task, err := svc.Assign(ctx, incidentID, responderID, 30)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, service.ErrResponderUnavailable)
}

func TestAssign_CacheInvalidationFailureDoesNotFail(t *testing.T) {
	// Подготовка
	svc, m := newTestAssignmentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	responderID := uuid.New()
	createdTask := &models.Task{ID: uuid.New(), IncidentID: incidentID, ResponderID: responderID}

	// Ожидания: ошибка кэша только логируется
	m.taskRepo.EXPECT().ClaimIncident(ctx, incidentID, responderID, 15).Return(createdTask, nil, nil).Times(1)
	m.incidentRepo.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(fmt.Errorf("redis: connection refused")).Times(1)

	// Действие
	task, err := svc.Assign(ctx, incidentID, responderID, 15)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, createdTask, task)
}
