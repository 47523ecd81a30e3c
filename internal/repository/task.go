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

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) service.TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// ClaimIncident атомарно забирает незанятый инцидент для ответчика.
// Все изменения - статус инцидента, занятость ответчика, задача и
// уведомление заявителю - выполняются в одной транзакции. Гонку за
// инцидент выигрывает ровно один вызов: guarded-обновление статуса
// затрагивает ноль строк у проигравших.
func (r *TaskRepository) ClaimIncident(ctx context.Context, incidentID, responderID uuid.UUID, etaMinutes int) (*models.Task, *models.Notification, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin claim transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем строку ответчика, чтобы занятость менялась согласованно
	var responderStatus string
	var available bool
	err = tx.QueryRow(ctx,
		`SELECT status, available FROM responders WHERE id = $1 FOR UPDATE;`,
		responderID,
	).Scan(&responderStatus, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("responder with id %s: %w", responderID, service.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to lock responder: %w", err)
	}
	if responderStatus != models.ResponderStatusActive || !available {
		return nil, nil, fmt.Errorf("responder %s is busy or suspended: %w", responderID, service.ErrResponderUnavailable)
	}

	// Забираем инцидент: победитель гонки ровно один
	var reportedBy uuid.UUID
	var incidentType string
	err = tx.QueryRow(ctx, `
		UPDATE incidents SET
			status = 'assigned',
			assigned_to = $1,
			eta_minutes = $2,
			assigned_at = NOW(),
			updated_at = NOW()
		WHERE id = $3 AND status = 'unassigned'
		RETURNING reported_by, type;
	`, responderID, etaMinutes, incidentID).Scan(&reportedBy, &incidentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM incidents WHERE id = $1);`, incidentID,
			).Scan(&exists); checkErr != nil {
				return nil, nil, fmt.Errorf("failed to check incident existence: %w", checkErr)
			}
			if !exists {
				return nil, nil, fmt.Errorf("incident with id %s: %w", incidentID, service.ErrNotFound)
			}
			return nil, nil, fmt.Errorf("incident %s: %w", incidentID, service.ErrAlreadyAssigned)
		}
		return nil, nil, fmt.Errorf("failed to claim incident: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE responders SET available = false, updated_at = NOW() WHERE id = $1;`,
		responderID,
	); err != nil {
		return nil, nil, fmt.Errorf("failed to mark responder busy: %w", err)
	}

	task := &models.Task{
		IncidentID:  incidentID,
		ResponderID: responderID,
		Status:      models.TaskStatusAssigned,
		EtaMinutes:  etaMinutes,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO tasks (incident_id, responder_id, status, eta_minutes)
		VALUES ($1, $2, 'assigned', $3)
		RETURNING id, accepted_at;
	`, incidentID, responderID, etaMinutes).Scan(&task.ID, &task.AcceptedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create task: %w", err)
	}

	notification := &models.Notification{
		UserID:     reportedBy,
		IncidentID: incidentID,
		Type:       models.NotificationTypeAssigned,
		Title:      "Help is on the way",
		Message:    fmt.Sprintf("A responder has been assigned to your %s report.", incidentType),
		EtaMinutes: &etaMinutes,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO notifications (user_id, incident_id, type, title, message, eta_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`, notification.UserID, notification.IncidentID, notification.Type,
		notification.Title, notification.Message, notification.EtaMinutes,
	).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit claim transaction: %w", err)
	}
	return task, notification, nil
}

// GetTaskByID возвращает задачу по ее UUID
func (r *TaskRepository) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task := &models.Task{}
	query := `
		SELECT t.id, t.incident_id, t.responder_id, t.status, t.eta_minutes,
			t.accepted_at, t.started_at, t.completed_at,
			i.type, i.severity, i.address, i.description
		FROM tasks t
		JOIN incidents i ON i.id = t.incident_id
		WHERE t.id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.IncidentID, &task.ResponderID, &task.Status, &task.EtaMinutes,
		&task.AcceptedAt, &task.StartedAt, &task.CompletedAt,
		&task.IncidentType, &task.IncidentSeverity, &task.IncidentAddress, &task.IncidentDetails,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("task with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task by id: %w", err)
	}
	return task, nil
}

// ListByResponder возвращает задачи ответчика, новые первыми
func (r *TaskRepository) ListByResponder(ctx context.Context, responderID uuid.UUID) ([]*models.Task, error) {
	query := `
		SELECT t.id, t.incident_id, t.responder_id, t.status, t.eta_minutes,
			t.accepted_at, t.started_at, t.completed_at,
			i.type, i.severity, i.address, i.description
		FROM tasks t
		JOIN incidents i ON i.id = t.incident_id
		WHERE t.responder_id = $1
		ORDER BY t.accepted_at DESC;
	`
	rows, err := r.db.Query(ctx, query, responderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(
			&task.ID, &task.IncidentID, &task.ResponderID, &task.Status, &task.EtaMinutes,
			&task.AcceptedAt, &task.StartedAt, &task.CompletedAt,
			&task.IncidentType, &task.IncidentSeverity, &task.IncidentAddress, &task.IncidentDetails,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return tasks, nil
}

// diagnoseTaskFailure выясняет, почему guarded-обновление задачи не
// затронуло строк: чужая или несуществующая задача либо недопустимый переход
func (r *TaskRepository) diagnoseTaskFailure(ctx context.Context, tx pgx.Tx, taskID, responderID uuid.UUID) error {
	var ownerID uuid.UUID
	var status string
	err := tx.QueryRow(ctx,
		`SELECT responder_id, status FROM tasks WHERE id = $1;`, taskID,
	).Scan(&ownerID, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("task with id %s: %w", taskID, service.ErrNotFound)
		}
		return fmt.Errorf("failed to inspect task: %w", err)
	}
	// Чужие задачи скрываем как несуществующие
	if ownerID != responderID {
		return fmt.Errorf("task %s belongs to another responder: %w", taskID, service.ErrNotFound)
	}
	return fmt.Errorf("task %s is in status %s: %w", taskID, status, service.ErrInvalidTransition)
}

// StartTask переводит задачу assigned -> in-progress вместе с инцидентом
func (r *TaskRepository) StartTask(ctx context.Context, taskID, responderID uuid.UUID) (*models.Task, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	task := &models.Task{ID: taskID, ResponderID: responderID, Status: models.TaskStatusInProgress}
	err = tx.QueryRow(ctx, `
		UPDATE tasks SET status = 'in-progress', started_at = NOW()
		WHERE id = $1 AND responder_id = $2 AND status = 'assigned'
		RETURNING incident_id, eta_minutes, accepted_at, started_at;
	`, taskID, responderID).Scan(&task.IncidentID, &task.EtaMinutes, &task.AcceptedAt, &task.StartedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.diagnoseTaskFailure(ctx, tx, taskID, responderID)
		}
		return nil, fmt.Errorf("failed to start task: %w", err)
	}

	// Инцидент двигается синхронно с задачей
	cmdTag, err := tx.Exec(ctx, `
		UPDATE incidents SET status = 'in-progress', updated_at = NOW()
		WHERE id = $1 AND status = 'assigned';
	`, task.IncidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to transition incident to in-progress: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("incident %s is not in status assigned: %w", task.IncidentID, service.ErrInvalidTransition)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit start transaction: %w", err)
	}
	return task, nil
}

// CompleteTask завершает задачу: задача completed, инцидент resolved,
// ответчик свободен, заявителю уходит уведомление. Все в одной транзакции.
func (r *TaskRepository) CompleteTask(ctx context.Context, taskID, responderID uuid.UUID) (*models.Task, *models.Notification, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin complete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	task := &models.Task{ID: taskID, ResponderID: responderID, Status: models.TaskStatusCompleted}
	err = tx.QueryRow(ctx, `
		UPDATE tasks SET status = 'completed', completed_at = NOW()
		WHERE id = $1 AND responder_id = $2 AND status = 'in-progress'
		RETURNING incident_id, eta_minutes, accepted_at, started_at, completed_at;
	`, taskID, responderID).Scan(&task.IncidentID, &task.EtaMinutes, &task.AcceptedAt, &task.StartedAt, &task.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, r.diagnoseTaskFailure(ctx, tx, taskID, responderID)
		}
		return nil, nil, fmt.Errorf("failed to complete task: %w", err)
	}

	var reportedBy uuid.UUID
	var incidentType string
	err = tx.QueryRow(ctx, `
		UPDATE incidents SET status = 'resolved', resolved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'in-progress'
		RETURNING reported_by, type;
	`, task.IncidentID).Scan(&reportedBy, &incidentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("incident %s is not in status in-progress: %w", task.IncidentID, service.ErrInvalidTransition)
		}
		return nil, nil, fmt.Errorf("failed to resolve incident: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE responders SET available = true, updated_at = NOW() WHERE id = $1;`,
		responderID,
	); err != nil {
		return nil, nil, fmt.Errorf("failed to free responder: %w", err)
	}

	notification := &models.Notification{
		UserID:     reportedBy,
		IncidentID: task.IncidentID,
		Type:       models.NotificationTypeResolved,
		Title:      "Incident resolved",
		Message:    fmt.Sprintf("Your %s report has been resolved.", incidentType),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO notifications (user_id, incident_id, type, title, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at;
	`, notification.UserID, notification.IncidentID, notification.Type,
		notification.Title, notification.Message,
	).Scan(&notification.ID, &notification.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit complete transaction: %w", err)
	}
	return task, notification, nil
}
