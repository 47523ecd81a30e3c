package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей. Роли взаимоисключающие, без наслоения прав.
const (
	RoleCitizen   = "citizen"
	RoleVolunteer = "volunteer"
	RoleAgency    = "agency"
	RoleAdmin     = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Viewer - явная идентичность вызывающего, извлеченная из токена сессии.
// Передается в каждую операцию вместо глобального текущего пользователя.
type Viewer struct {
	ID   uuid.UUID
	Role string
}

// ValidRole проверяет роль пользователя
func ValidRole(role string) bool {
	switch role {
	case RoleCitizen, RoleVolunteer, RoleAgency, RoleAdmin:
		return true
	}
	return false
}
