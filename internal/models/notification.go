package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений заявителю
const (
	NotificationTypeAssigned = "assigned"
	NotificationTypeResolved = "resolved"
)

// Notification - уведомление заявителю о ходе работы по его инциденту.
// Только для чтения получателем, без отметки о прочтении.
type Notification struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	IncidentID uuid.UUID `json:"incident_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	EtaMinutes *int      `json:"eta_minutes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
