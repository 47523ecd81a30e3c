package models

import (
	"time"

	"github.com/google/uuid"
)

// Под-статусы задачи ответчика. Независимы от статуса инцидента,
// но коррелируют с ним: assigned -> in-progress -> completed.
const (
	TaskStatusAssigned   = "assigned"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Task - локальное представление назначения у ответчика.
// Создается вместе с назначением инцидента; на инцидент существует
// не более одной активной задачи.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	IncidentID  uuid.UUID  `json:"incident_id"`
	ResponderID uuid.UUID  `json:"responder_id"`
	Status      string     `json:"status"`
	EtaMinutes  int        `json:"eta_minutes"`
	AcceptedAt  time.Time  `json:"accepted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Денормализованные поля инцидента для списка задач
	IncidentType     string `json:"incident_type,omitempty"`
	IncidentSeverity string `json:"incident_severity,omitempty"`
	IncidentAddress  string `json:"incident_address,omitempty"`
	IncidentDetails  string `json:"incident_details,omitempty"`
}

var taskStatusOrder = map[string]int{
	TaskStatusAssigned:   0,
	TaskStatusInProgress: 1,
	TaskStatusCompleted:  2,
}

// CanTransitionTask проверяет переход под-статуса задачи:
// только на шаг вперед, без пропусков и возвратов.
func CanTransitionTask(from, to string) bool {
	fromOrd, okFrom := taskStatusOrder[from]
	toOrd, okTo := taskStatusOrder[to]
	if !okFrom || !okTo {
		return false
	}
	return toOrd == fromOrd+1
}
