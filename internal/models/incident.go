package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы инцидентов, которые может сообщить гражданин
const (
	IncidentTypeFire           = "fire"
	IncidentTypeMedical        = "medical"
	IncidentTypeAccident       = "accident"
	IncidentTypeFlood          = "flood"
	IncidentTypeCrime          = "crime"
	IncidentTypeInfrastructure = "infrastructure"
	IncidentTypeOther          = "other"
)

// Уровни серьезности в порядке возрастания
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Статусы жизненного цикла инцидента. Переходы только вперед:
// unassigned -> assigned -> in-progress -> resolved
const (
	IncidentStatusUnassigned = "unassigned"
	IncidentStatusAssigned   = "assigned"
	IncidentStatusInProgress = "in-progress"
	IncidentStatusResolved   = "resolved"
)

type Incident struct {
	ID               uuid.UUID  `json:"id"`
	Type             string     `json:"type"`
	Severity         string     `json:"severity"`
	Description      string     `json:"description"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Address          string     `json:"address"`
	Photos           []string   `json:"photos,omitempty"`
	ReportedBy       uuid.UUID  `json:"reported_by"`
	ReporterName     string     `json:"reporter_name"`
	ReporterPhone    string     `json:"reporter_phone"`
	Status           string     `json:"status"`
	AssignedTo       *uuid.UUID `json:"assigned_to,omitempty"`
	AssignedToName   string     `json:"assigned_to_name,omitempty"`
	EtaMinutes       *int       `json:"eta_minutes,omitempty"`
	AssignedAt       *time.Time `json:"assigned_at,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	NearbyNGOs       int        `json:"nearby_ngos"`
	NearbyVolunteers int        `json:"nearby_volunteers"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// incidentStatusOrder задает порядок статусов для проверки переходов
var incidentStatusOrder = map[string]int{
	IncidentStatusUnassigned: 0,
	IncidentStatusAssigned:   1,
	IncidentStatusInProgress: 2,
	IncidentStatusResolved:   3,
}

// ValidIncidentStatus проверяет, что строка является известным статусом
func ValidIncidentStatus(status string) bool {
	_, ok := incidentStatusOrder[status]
	return ok
}

// CanTransitionIncident проверяет допустимость перехода статуса.
// Разрешен только шаг вперед на одну позицию, без пропусков и возвратов.
func CanTransitionIncident(from, to string) bool {
	fromOrd, okFrom := incidentStatusOrder[from]
	toOrd, okTo := incidentStatusOrder[to]
	if !okFrom || !okTo {
		return false
	}
	return toOrd == fromOrd+1
}

// ValidIncidentType проверяет тип инцидента
func ValidIncidentType(t string) bool {
	switch t {
	case IncidentTypeFire, IncidentTypeMedical, IncidentTypeAccident,
		IncidentTypeFlood, IncidentTypeCrime, IncidentTypeInfrastructure,
		IncidentTypeOther:
		return true
	}
	return false
}

// ValidSeverity проверяет уровень серьезности
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Вкладки фильтрации для ролей volunteer/agency
const (
	IncidentTabAll          = "all"
	IncidentTabAssignedToMe = "assigned-to-me"
	IncidentTabNeedsHelp    = "needs-help"
)

// IncidentFilter описывает ролевой фильтр видимости для выборки инцидентов.
// Заполняется сервисом из явного viewer, а не из глобального состояния.
type IncidentFilter struct {
	ViewerID     uuid.UUID
	ViewerRole   string
	Tab          string
	Severity     string
	Status       string
	Search       string
	ResponderID  *uuid.UUID
	Latitude     *float64
	Longitude    *float64
	RadiusMeters *int
	Page         int
	PageSize     int
}

// IncidentStats - агрегированная статистика для панели администратора
type IncidentStats struct {
	TotalIncidents     int     `json:"total_incidents"`
	ActiveIncidents    int     `json:"active_incidents"`
	UnassignedCount    int     `json:"unassigned_count"`
	AssignedCount      int     `json:"assigned_count"`
	InProgressCount    int     `json:"in_progress_count"`
	ResolvedCount      int     `json:"resolved_count"`
	RegisteredNGOs     int     `json:"registered_ngos"`
	TotalVolunteers    int     `json:"total_volunteers"`
	AvgResponseMinutes float64 `json:"avg_response_minutes"`
}
