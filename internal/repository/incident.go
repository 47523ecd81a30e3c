package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/service"
)

// incidentColumns - общий список выбираемых колонок инцидента.
// Счетчики ближайших ответчиков считаются подзапросами по их рабочим радиусам.
const incidentColumns = `
	i.id,
	i.type,
	i.severity,
	i.description,
	ST_Y(i.location::geometry) as latitude,
	ST_X(i.location::geometry) as longitude,
	i.address,
	i.photos,
	i.reported_by,
	u.name as reporter_name,
	u.phone as reporter_phone,
	i.status,
	i.assigned_to,
	COALESCE(r.name, '') as assigned_to_name,
	i.eta_minutes,
	i.assigned_at,
	i.resolved_at,
	(SELECT COUNT(*) FROM responders nr
		WHERE nr.type = 'ngo' AND nr.status = 'active'
		AND ST_DWithin(nr.location, i.location, nr.radius_meters)) as nearby_ngos,
	(SELECT COUNT(*) FROM responders nr
		WHERE nr.type IN ('volunteer', 'volunteer-group') AND nr.status = 'active'
		AND ST_DWithin(nr.location, i.location, nr.radius_meters)) as nearby_volunteers,
	i.created_at,
	i.updated_at
`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (type, severity, description, location, address, photos, reported_by, status)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4, $5), 4326), $6, $7, $8, $9)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Type,
		incident.Severity,
		incident.Description,
		incident.Longitude,
		incident.Latitude,
		incident.Address,
		incident.Photos,
		incident.ReportedBy,
		incident.Status,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.Type,
		&incident.Severity,
		&incident.Description,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Address,
		&incident.Photos,
		&incident.ReportedBy,
		&incident.ReporterName,
		&incident.ReporterPhone,
		&incident.Status,
		&incident.AssignedTo,
		&incident.AssignedToName,
		&incident.EtaMinutes,
		&incident.AssignedAt,
		&incident.ResolvedAt,
		&incident.NearbyNGOs,
		&incident.NearbyVolunteers,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `
		SELECT ` + incidentColumns + `
		FROM incidents i
		JOIN users u ON u.id = i.reported_by
		LEFT JOIN responders r ON r.id = i.assigned_to
		WHERE i.id = $1;
	`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// List возвращает инциденты по ролевому фильтру видимости, новые первыми
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	conditions := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)

	addArg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	switch filter.ViewerRole {
	case models.RoleCitizen:
		// Гражданин видит только собственные заявки
		conditions = append(conditions, fmt.Sprintf("i.reported_by = %s", addArg(filter.ViewerID)))
	case models.RoleVolunteer, models.RoleAgency:
		// Ответчики видят инциденты в пределах своего рабочего радиуса
		if filter.Latitude != nil && filter.Longitude != nil && filter.RadiusMeters != nil {
			lon := addArg(*filter.Longitude)
			lat := addArg(*filter.Latitude)
			radius := addArg(*filter.RadiusMeters)
			conditions = append(conditions, fmt.Sprintf(
				"ST_DWithin(i.location, ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography, %s)",
				lon, lat, radius,
			))
		}
	case models.RoleAdmin:
		// Администратор видит все без ограничений
	default:
		return nil, fmt.Errorf("unknown viewer role %q: %w", filter.ViewerRole, service.ErrValidation)
	}

	switch filter.Tab {
	case models.IncidentTabAssignedToMe:
		if filter.ResponderID != nil {
			conditions = append(conditions, fmt.Sprintf("i.assigned_to = %s", addArg(*filter.ResponderID)))
		}
	case models.IncidentTabNeedsHelp:
		conditions = append(conditions, fmt.Sprintf("i.status = %s", addArg(models.IncidentStatusUnassigned)))
	}

	if filter.Severity != "" {
		conditions = append(conditions, fmt.Sprintf("i.severity = %s", addArg(filter.Severity)))
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = %s", addArg(filter.Status)))
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("i.address ILIKE %s", addArg("%"+filter.Search+"%")))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	offset := (filter.Page - 1) * filter.PageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM incidents i
		JOIN users u ON u.id = i.reported_by
		LEFT JOIN responders r ON r.id = i.assigned_to
		%s
		ORDER BY i.created_at DESC
		LIMIT %s OFFSET %s;
	`, incidentColumns, where, addArg(filter.PageSize), addArg(offset))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// TransitionStatus переводит инцидент из from в to guarded-обновлением.
// Ноль затронутых строк означает проигранную гонку со встречным переходом.
func (r *IncidentRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	query := `
		UPDATE incidents SET
			status = $1,
			resolved_at = CASE WHEN $1 = 'resolved' THEN NOW() ELSE resolved_at END,
			updated_at = NOW()
		WHERE id = $2 AND status = $3;
	`
	cmdTag, err := r.db.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to transition incident status: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident %s is no longer in status %s: %w", id, from, service.ErrInvalidTransition)
	}
	return nil
}

// Stats возвращает агрегированную статистику по реестру. Среднее время
// реакции считается по инцидентам, решенным внутри окна.
func (r *IncidentRepository) Stats(ctx context.Context, windowMinutes int) (*models.IncidentStats, error) {
	stats := &models.IncidentStats{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM incidents),
			(SELECT COUNT(*) FROM incidents WHERE status <> 'resolved'),
			(SELECT COUNT(*) FROM incidents WHERE status = 'unassigned'),
			(SELECT COUNT(*) FROM incidents WHERE status = 'assigned'),
			(SELECT COUNT(*) FROM incidents WHERE status = 'in-progress'),
			(SELECT COUNT(*) FROM incidents WHERE status = 'resolved'),
			(SELECT COUNT(*) FROM responders WHERE type = 'ngo' AND status <> 'suspended'),
			(SELECT COALESCE(SUM(volunteers), 0) FROM responders
				WHERE type IN ('volunteer', 'volunteer-group') AND status <> 'suspended'),
			(SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 60), 0)
				FROM incidents
				WHERE resolved_at IS NOT NULL
				AND resolved_at >= NOW() - ($1 * INTERVAL '1 minute'));
	`
	err := r.db.QueryRow(ctx, query, windowMinutes).Scan(
		&stats.TotalIncidents,
		&stats.ActiveIncidents,
		&stats.UnassignedCount,
		&stats.AssignedCount,
		&stats.InProgressCount,
		&stats.ResolvedCount,
		&stats.RegisteredNGOs,
		&stats.TotalVolunteers,
		&stats.AvgResponseMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get incident stats: %w", err)
	}
	return stats, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Срок жизни кэша - 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
