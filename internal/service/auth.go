package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/config"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository определяет контракт для работы с бд пользователей
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthService определяет контракт аутентификации. Сессия без состояния:
// идентичность и роль переносятся в JWT и явно передаются в операции.
type AuthService interface {
	Register(ctx context.Context, name, email, phone, password, role string) (*models.User, error)
	Login(ctx context.Context, email, password, role string) (string, *models.User, error)
	ParseToken(tokenString string) (models.Viewer, error)
}

// sessionClaims - полезная нагрузка токена сессии
type sessionClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	repo   UserRepository
	logger *logrus.Logger
	cfg    *config.Config
}

func NewAuthService(repo UserRepository, logger *logrus.Logger, cfg *config.Config) AuthService {
	return &authService{
		repo:   repo,
		logger: logger,
		cfg:    cfg,
	}
}

// Register создает нового пользователя с хэшированным паролем
func (s *authService) Register(ctx context.Context, name, email, phone, password, role string) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Register",
		"email":   email,
		"role":    role,
	})
	log.Info("Registering new user")

	if !models.ValidRole(role) {
		return nil, fmt.Errorf("service: unknown role %q: %w", role, ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		log.WithError(err).Warn("Failed to create user in repository")
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Login проверяет учетные данные и роль, возвращает токен сессии
func (s *authService) Login(ctx context.Context, email, password, role string) (string, *models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
	})
	log.Info("User login attempt")

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		log.WithError(err).Warn("Login failed: user not found")
		return "", nil, fmt.Errorf("service: login failed: %w", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Login failed: password mismatch")
		return "", nil, fmt.Errorf("service: login failed: %w", ErrInvalidCredentials)
	}

	// Роли взаимоисключающие: вход под чужой ролью запрещен
	if user.Role != role {
		log.Warn("Login failed: role mismatch")
		return "", nil, fmt.Errorf("service: login failed: %w", ErrInvalidCredentials)
	}

	token, err := s.generateToken(user)
	if err != nil {
		log.WithError(err).Error("Failed to generate session token")
		return "", nil, fmt.Errorf("service: could not generate token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return token, user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Role:  user.Role,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTTTL)),
			Issuer:    "sahyog",
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ParseToken проверяет токен сессии и возвращает идентичность вызывающего
func (s *authService) ParseToken(tokenString string) (models.Viewer, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return models.Viewer{}, fmt.Errorf("service: invalid session token: %w", ErrInvalidCredentials)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return models.Viewer{}, fmt.Errorf("service: invalid session token: %w", ErrInvalidCredentials)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Viewer{}, fmt.Errorf("service: invalid subject in token: %w", ErrInvalidCredentials)
	}

	return models.Viewer{ID: userID, Role: claims.Role}, nil
}
