package v1

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=citizen volunteer agency admin"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=citizen volunteer agency admin"`
}

// UserResponse DTO с публичными данными пользователя
// @Description DTO с публичными данными пользователя
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone,omitempty"`
	Role  string    `json:"role"`
}

// AuthResponse DTO для ответа на вход
// @Description DTO для ответа на вход
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ReportIncidentRequest DTO для заявки об инциденте
// @Description DTO для заявки об инциденте
type ReportIncidentRequest struct {
	Type        string   `json:"type" validate:"required"`
	Severity    string   `json:"severity" validate:"required"`
	Description string   `json:"description,omitempty"`
	Latitude    float64  `json:"latitude" validate:"required,latitude"`
	Longitude   float64  `json:"longitude" validate:"required,longitude"`
	Address     string   `json:"address,omitempty"`
	Photos      []string `json:"photos,omitempty"`
}

// SOSRequest DTO для тревожной кнопки
// @Description DTO для тревожной кнопки
type SOSRequest struct {
	Type      string  `json:"type" validate:"required,oneof=medical fire police disaster other"`
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	Address   string  `json:"address,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID               uuid.UUID  `json:"id"`
	Type             string     `json:"type"`
	Severity         string     `json:"severity"`
	Description      string     `json:"description,omitempty"`
	Latitude         float64    `json:"latitude"`
	Longitude        float64    `json:"longitude"`
	Address          string     `json:"address,omitempty"`
	Photos           []string   `json:"photos,omitempty"`
	ReportedBy       uuid.UUID  `json:"reported_by"`
	ReporterName     string     `json:"reporter_name,omitempty"`
	ReporterPhone    string     `json:"reporter_phone,omitempty"`
	Status           string     `json:"status"`
	AssignedTo       *uuid.UUID `json:"assigned_to,omitempty"`
	AssignedToName   string     `json:"assigned_to_name,omitempty"`
	EtaMinutes       *int       `json:"eta_minutes,omitempty"`
	NearbyNGOs       int        `json:"nearby_ngos"`
	NearbyVolunteers int        `json:"nearby_volunteers"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AssignRequest DTO для назначения ответчика диспетчером
// @Description DTO для назначения ответчика диспетчером
type AssignRequest struct {
	ResponderID uuid.UUID `json:"responder_id" validate:"required"`
	EtaMinutes  int       `json:"eta_minutes" validate:"required,gt=0"`
}

// AcceptTaskRequest DTO для самостоятельного принятия инцидента
// @Description DTO для самостоятельного принятия инцидента
type AcceptTaskRequest struct {
	IncidentID uuid.UUID `json:"incident_id" validate:"required"`
	EtaMinutes int       `json:"eta_minutes" validate:"required,gt=0"`
}

// TaskResponse DTO для ответа с задачей ответчика
// @Description DTO для ответа с задачей ответчика
type TaskResponse struct {
	ID               uuid.UUID  `json:"id"`
	IncidentID       uuid.UUID  `json:"incident_id"`
	ResponderID      uuid.UUID  `json:"responder_id"`
	Status           string     `json:"status"`
	EtaMinutes       int        `json:"eta_minutes"`
	IncidentType     string     `json:"incident_type,omitempty"`
	IncidentSeverity string     `json:"incident_severity,omitempty"`
	IncidentAddress  string     `json:"incident_address,omitempty"`
	IncidentDetails  string     `json:"incident_details,omitempty"`
	AcceptedAt       time.Time  `json:"accepted_at"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// CreateResponderRequest DTO для регистрации ответчика
// @Description DTO для регистрации ответчика
type CreateResponderRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=255"`
	Contact      string   `json:"contact,omitempty"`
	Type         string   `json:"type" validate:"required,oneof=agency ngo volunteer volunteer-group"`
	Latitude     float64  `json:"latitude" validate:"required,latitude"`
	Longitude    float64  `json:"longitude" validate:"required,longitude"`
	RadiusMeters int      `json:"radius_meters" validate:"required,gt=0"`
	Volunteers   int      `json:"volunteers" validate:"gte=0"`
	Vehicles     int      `json:"vehicles" validate:"gte=0"`
	Supplies     []string `json:"supplies,omitempty"`
}

// ResponderResponse DTO для ответа с информацией об ответчике
// @Description DTO для ответа с информацией об ответчике
type ResponderResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Contact      string    `json:"contact,omitempty"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Available    bool      `json:"available"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	RadiusMeters int       `json:"radius_meters"`
	Volunteers   int       `json:"volunteers"`
	Vehicles     int       `json:"vehicles"`
	Supplies     []string  `json:"supplies,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NotificationResponse DTO для ответа с уведомлением
// @Description DTO для ответа с уведомлением
type NotificationResponse struct {
	ID         uuid.UUID `json:"id"`
	IncidentID uuid.UUID `json:"incident_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	EtaMinutes *int      `json:"eta_minutes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
