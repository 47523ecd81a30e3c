package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/service"
)

const responderColumns = `
	id,
	name,
	contact,
	type,
	status,
	available,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	radius_meters,
	volunteers,
	vehicles,
	supplies,
	user_id,
	created_at,
	updated_at
`

type ResponderRepository struct {
	db *pgxpool.Pool
}

func NewResponderRepository(db *pgxpool.Pool) service.ResponderRepository {
	return &ResponderRepository{
		db: db,
	}
}

// CreateResponder создает новую запись об ответчике
func (r *ResponderRepository) CreateResponder(ctx context.Context, responder *models.Responder) error {
	query := `
		INSERT INTO responders (name, contact, type, status, available, location, radius_meters, volunteers, vehicles, supplies, user_id)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		responder.Name,
		responder.Contact,
		responder.Type,
		responder.Status,
		responder.Available,
		responder.Longitude,
		responder.Latitude,
		responder.RadiusMeters,
		responder.Volunteers,
		responder.Vehicles,
		responder.Supplies,
		responder.UserID,
	).Scan(&responder.ID, &responder.CreatedAt, &responder.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create responder: %w", err)
	}
	return nil
}

func scanResponder(row pgx.Row) (*models.Responder, error) {
	responder := &models.Responder{}
	err := row.Scan(
		&responder.ID,
		&responder.Name,
		&responder.Contact,
		&responder.Type,
		&responder.Status,
		&responder.Available,
		&responder.Latitude,
		&responder.Longitude,
		&responder.RadiusMeters,
		&responder.Volunteers,
		&responder.Vehicles,
		&responder.Supplies,
		&responder.UserID,
		&responder.CreatedAt,
		&responder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return responder, nil
}

// GetResponderByID возвращает ответчика по его UUID
func (r *ResponderRepository) GetResponderByID(ctx context.Context, id uuid.UUID) (*models.Responder, error) {
	query := `SELECT ` + responderColumns + ` FROM responders WHERE id = $1;`
	responder, err := scanResponder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("responder with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get responder by id: %w", err)
	}
	return responder, nil
}

// GetByUserID возвращает профиль ответчика, привязанный к пользователю
func (r *ResponderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Responder, error) {
	query := `SELECT ` + responderColumns + ` FROM responders WHERE user_id = $1;`
	responder, err := scanResponder(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("responder profile for user %s: %w", userID, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get responder by user id: %w", err)
	}
	return responder, nil
}

// ListResponders возвращает реестр ответчиков с фильтром по варианту и поиском по имени
func (r *ResponderRepository) ListResponders(ctx context.Context, typeFilter, search string) ([]*models.Responder, error) {
	query := `
		SELECT ` + responderColumns + `
		FROM responders
		WHERE ($1 = '' OR type = $1)
			AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC;
	`
	rows, err := r.db.Query(ctx, query, typeFilter, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list responders: %w", err)
	}
	defer rows.Close()

	responders := make([]*models.Responder, 0)
	for rows.Next() {
		responder, err := scanResponder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan responder row: %w", err)
		}
		responders = append(responders, responder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return responders, nil
}

// UpdateResponderStatus меняет статус регистрации ответчика (approve/suspend)
func (r *ResponderRepository) UpdateResponderStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE responders SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update responder status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("responder with id %s: %w", id, service.ErrNotFound)
	}
	return nil
}

// FindNearby находит активные НКО и волонтерские группы в заданном радиусе
func (r *ResponderRepository) FindNearby(ctx context.Context, lat, lon float64, radiusMeters int) ([]*models.Responder, error) {
	query := `
		SELECT ` + responderColumns + `
		FROM responders
		WHERE
			status = 'active'
			AND type IN ('ngo', 'volunteer-group')
			AND ST_DWithin(
				location,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography,
				$3
			)
		ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query, lon, lat, radiusMeters)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearby responders: %w", err)
	}
	defer rows.Close()

	responders := make([]*models.Responder, 0)
	for rows.Next() {
		responder, err := scanResponder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan responder row in FindNearby: %w", err)
		}
		responders = append(responders, responder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration in FindNearby: %w", err)
	}
	return responders, nil
}
