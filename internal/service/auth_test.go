package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/config"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/service"
	"github.com/sahyog/crisis_response_platform/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

// newTestAuthService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAuthService(t *testing.T) (service.AuthService, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		JWTSecret: "test-secret",
		JWTTTL:    time.Hour,
	}

	return service.NewAuthService(repo, logger, cfg), repo
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	svc, repo := newTestAuthService(t)
	ctx := context.Background()
	password := "s3cret-pass"

	// Ожидания: пароль сохраняется только в виде bcrypt-хэша
	repo.EXPECT().
		CreateUser(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User) error {
			assert.Equal(t, "Asha Verma", user.Name)
			assert.Equal(t, "asha@example.com", user.Email)
			assert.Equal(t, models.RoleCitizen, user.Role)
			assert.NotEqual(t, password, user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)))
			user.ID = uuid.New()
			return nil
		}).Times(1)

	// Действие
	user, err := svc.Register(ctx, "Asha Verma", "asha@example.com", "+91-9000000001", password, models.RoleCitizen)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
}

func TestRegister_UnknownRole(t *testing.T) {
	// Подготовка
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	user, err := svc.Register(ctx, "Asha Verma", "asha@example.com", "", "pass", "superuser")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRegister_EmailTaken(t *testing.T) {
	// Подготовка
	svc, repo := newTestAuthService(t)
	ctx := context.Background()
	repoErr := fmt.Errorf("email asha@example.com: %w", service.ErrEmailTaken)

	// Ожидания
	repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(repoErr).Times(1)

	// Действие
	user, err := svc.Register(ctx, "Asha Verma", "asha@example.com", "", "pass", models.RoleCitizen)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	svc, repo := newTestAuthService(t)
	ctx := context.Background()
	password := "s3cret-pass"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	storedUser := &models.User{
		ID:           uuid.New(),
		Email:        "vol@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleVolunteer,
	}

	// Ожидания
	repo.EXPECT().GetByEmail(ctx, "vol@example.com").Return(storedUser, nil).Times(1)

	// Действие
	token, user, err := svc.Login(ctx, "vol@example.com", password, models.RoleVolunteer)

	// Проверки: токен разбирается обратно в ту же идентичность
	require.NoError(t, err)
	assert.Equal(t, storedUser, user)
	require.NotEmpty(t, token)

	viewer, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, storedUser.ID, viewer.ID)
	assert.Equal(t, models.RoleVolunteer, viewer.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Подготовка
	svc, repo := newTestAuthService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("right-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	storedUser := &models.User{
		ID:           uuid.New(),
		Email:        "vol@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleVolunteer,
	}

	// Ожидания
	repo.EXPECT().GetByEmail(ctx, "vol@example.com").Return(storedUser, nil).Times(1)

	// Действие
	token, user, err := svc.Login(ctx, "vol@example.com", "wrong-pass", models.RoleVolunteer)

	// Проверки
	require.Error(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_RoleMismatch(t *testing.T) {
	// Подготовка
	svc, repo := newTestAuthService(t)
	ctx := context.Background()
	password := "s3cret-pass"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	storedUser := &models.User{
		ID:           uuid.New(),
		Email:        "vol@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleVolunteer,
	}

	// Ожидания
	repo.EXPECT().GetByEmail(ctx, "vol@example.com").Return(storedUser, nil).Times(1)

	// Действие: верный пароль, но чужая роль
	token, user, err := svc.Login(ctx, "vol@example.com", password, models.RoleAdmin)

	// Проверки: ответ неотличим от неверного пароля
	require.Error(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UserNotFound(t *testing.T) {
	// Подготовка
	svc, repo := newTestAuthService(t)
	ctx := context.Background()
	repoErr := fmt.Errorf("user: %w", service.ErrNotFound)

	// Ожидания
	repo.EXPECT().GetByEmail(ctx, "ghost@example.com").Return(nil, repoErr).Times(1)

	// Действие
	token, user, err := svc.Login(ctx, "ghost@example.com", "pass", models.RoleCitizen)

	// Проверки
	require.Error(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestParseToken_Invalid(t *testing.T) {
	// Подготовка
	svc, _ := newTestAuthService(t)

	// Действие
	viewer, err := svc.ParseToken("not-a-token")

	// Проверки
	require.Error(t, err)
	assert.Equal(t, models.Viewer{}, viewer)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
