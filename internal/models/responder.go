package models

import (
	"time"

	"github.com/google/uuid"
)

// Варианты ответчиков: ведомство, НКО, волонтер или волонтерская группа
const (
	ResponderTypeAgency         = "agency"
	ResponderTypeNGO            = "ngo"
	ResponderTypeVolunteer      = "volunteer"
	ResponderTypeVolunteerGroup = "volunteer-group"
)

// Статусы регистрации ответчика. Удаления нет - только приостановка.
const (
	ResponderStatusActive    = "active"
	ResponderStatusPending   = "pending"
	ResponderStatusSuspended = "suspended"
)

// Responder - любая сущность, которую можно назначить на инцидент.
// Available отражает занятость, Status - решение администратора.
type Responder struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Contact      string     `json:"contact"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	Available    bool       `json:"available"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	RadiusMeters int        `json:"radius_meters"`
	Volunteers   int        `json:"volunteers"`
	Vehicles     int        `json:"vehicles"`
	Supplies     []string   `json:"supplies,omitempty"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ValidResponderType проверяет вариант ответчика
func ValidResponderType(t string) bool {
	switch t {
	case ResponderTypeAgency, ResponderTypeNGO, ResponderTypeVolunteer, ResponderTypeVolunteerGroup:
		return true
	}
	return false
}
