package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/service"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) service.NotificationRepository {
	return &NotificationRepository{
		db: db,
	}
}

// Create сохраняет уведомление заявителю
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, incident_id, type, title, message, eta_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		notification.UserID,
		notification.IncidentID,
		notification.Type,
		notification.Title,
		notification.Message,
		notification.EtaMinutes,
	).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListByUser возвращает уведомления пользователя, новые первыми
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, incident_id, type, title, message, eta_minutes, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		notification := &models.Notification{}
		err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.IncidentID,
			&notification.Type,
			&notification.Title,
			&notification.Message,
			&notification.EtaMinutes,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return notifications, nil
}
