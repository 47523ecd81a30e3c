package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/service"
	"github.com/sahyog/crisis_response_platform/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestResponderService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestResponderService(t *testing.T) (service.ResponderService, *mocks.MockResponderRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockResponderRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	return service.NewResponderService(repo, logger), repo
}

func TestRegisterResponder_PendingForVolunteer(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	responder := &models.Responder{
		Name:         "Seva Relief Group",
		Type:         models.ResponderTypeVolunteerGroup,
		Latitude:     19.076,
		Longitude:    72.8777,
		RadiusMeters: 5000,
	}

	// Ожидания: заявка волонтера ждет одобрения и привязана к его пользователю
	repo.EXPECT().
		CreateResponder(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Responder) error {
			assert.Equal(t, models.ResponderStatusPending, r.Status)
			require.NotNil(t, r.UserID)
			assert.Equal(t, viewer.ID, *r.UserID)
			assert.True(t, r.Available)
			r.ID = uuid.New()
			return nil
		}).Times(1)

	// Действие
	err := svc.RegisterResponder(ctx, viewer, responder)

	// Проверки
	require.NoError(t, err)
}

func TestRegisterResponder_ActiveForAdmin(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleAdmin}
	responder := &models.Responder{
		Name:         "City Fire Brigade",
		Type:         models.ResponderTypeAgency,
		RadiusMeters: 20000,
	}

	// Ожидания: записи администратора активируются сразу
	repo.EXPECT().
		CreateResponder(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, r *models.Responder) error {
			assert.Equal(t, models.ResponderStatusActive, r.Status)
			assert.Nil(t, r.UserID)
			return nil
		}).Times(1)

	// Действие
	err := svc.RegisterResponder(ctx, viewer, responder)

	// Проверки
	require.NoError(t, err)
}

func TestRegisterResponder_UnknownType(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	responder := &models.Responder{Name: "X", Type: "militia", RadiusMeters: 1000}

	// Ожидания
	repo.EXPECT().CreateResponder(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := svc.RegisterResponder(ctx, viewer, responder)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRegisterResponder_NonPositiveRadius(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleAgency}
	responder := &models.Responder{Name: "X", Type: models.ResponderTypeNGO, RadiusMeters: 0}

	// Ожидания
	repo.EXPECT().CreateResponder(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := svc.RegisterResponder(ctx, viewer, responder)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestApprove_Success(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	id := uuid.New()

	// Ожидания
	repo.EXPECT().UpdateResponderStatus(ctx, id, models.ResponderStatusActive).Return(nil).Times(1)

	// Действие
	err := svc.Approve(ctx, id)

	// Проверки
	require.NoError(t, err)
}

func TestSuspend_NotFound(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	id := uuid.New()
	repoErr := fmt.Errorf("responder %s: %w", id, service.ErrNotFound)

	// Ожидания
	repo.EXPECT().UpdateResponderStatus(ctx, id, models.ResponderStatusSuspended).Return(repoErr).Times(1)

	// Действие
	err := svc.Suspend(ctx, id)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListResponders_UnknownTypeFilter(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()

	// Ожидания
	repo.EXPECT().ListResponders(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	responders, err := svc.ListResponders(ctx, "militia", "")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, responders)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestNearbyResources_Success(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleAgency}
	own := &models.Responder{
		ID:           uuid.New(),
		Latitude:     28.6139,
		Longitude:    77.209,
		RadiusMeters: 10000,
	}
	nearby := []*models.Responder{
		{ID: uuid.New(), Type: models.ResponderTypeNGO},
		{ID: uuid.New(), Type: models.ResponderTypeVolunteerGroup},
	}

	// Ожидания: поиск идет по юрисдикции профиля вызывающего
	repo.EXPECT().GetByUserID(ctx, viewer.ID).Return(own, nil).Times(1)
	repo.EXPECT().FindNearby(ctx, own.Latitude, own.Longitude, own.RadiusMeters).Return(nearby, nil).Times(1)

	// Действие
	responders, err := svc.NearbyResources(ctx, viewer)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, nearby, responders)
}

func TestNearbyResources_NoProfile(t *testing.T) {
	// Подготовка
	svc, repo := newTestResponderService(t)
	ctx := context.Background()
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleAgency}
	profileErr := fmt.Errorf("responder profile: %w", service.ErrNotFound)

	// Ожидания
	repo.EXPECT().GetByUserID(ctx, viewer.ID).Return(nil, profileErr).Times(1)
	repo.EXPECT().FindNearby(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	responders, err := svc.NearbyResources(ctx, viewer)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, responders)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
