package v1

import "github.com/sahyog/crisis_response_platform/internal/models"

// ReportDTOToIncidentModel преобразует DTO заявки в доменную модель
func ReportDTOToIncidentModel(dto ReportIncidentRequest) *models.Incident {
	return &models.Incident{
		Type:        dto.Type,
		Severity:    dto.Severity,
		Description: dto.Description,
		Latitude:    dto.Latitude,
		Longitude:   dto.Longitude,
		Address:     dto.Address,
		Photos:      dto.Photos,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:               model.ID,
		Type:             model.Type,
		Severity:         model.Severity,
		Description:      model.Description,
		Latitude:         model.Latitude,
		Longitude:        model.Longitude,
		Address:          model.Address,
		Photos:           model.Photos,
		ReportedBy:       model.ReportedBy,
		ReporterName:     model.ReporterName,
		ReporterPhone:    model.ReporterPhone,
		Status:           model.Status,
		AssignedTo:       model.AssignedTo,
		AssignedToName:   model.AssignedToName,
		EtaMinutes:       model.EtaMinutes,
		NearbyNGOs:       model.NearbyNGOs,
		NearbyVolunteers: model.NearbyVolunteers,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToTaskResponse преобразует задачу в DTO для ответа
func ModelToTaskResponse(model *models.Task) *TaskResponse {
	return &TaskResponse{
		ID:               model.ID,
		IncidentID:       model.IncidentID,
		ResponderID:      model.ResponderID,
		Status:           model.Status,
		EtaMinutes:       model.EtaMinutes,
		IncidentType:     model.IncidentType,
		IncidentSeverity: model.IncidentSeverity,
		IncidentAddress:  model.IncidentAddress,
		IncidentDetails:  model.IncidentDetails,
		AcceptedAt:       model.AcceptedAt,
		StartedAt:        model.StartedAt,
		CompletedAt:      model.CompletedAt,
	}
}

// ModelsToTaskResponses преобразует слайс задач в слайс DTO
func ModelsToTaskResponses(models []*models.Task) []*TaskResponse {
	responses := make([]*TaskResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToTaskResponse(model)
	}
	return responses
}

// CreateDTOToResponderModel преобразует DTO регистрации в доменную модель
func CreateDTOToResponderModel(dto CreateResponderRequest) *models.Responder {
	return &models.Responder{
		Name:         dto.Name,
		Contact:      dto.Contact,
		Type:         dto.Type,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
		RadiusMeters: dto.RadiusMeters,
		Volunteers:   dto.Volunteers,
		Vehicles:     dto.Vehicles,
		Supplies:     dto.Supplies,
	}
}

// ModelToResponderResponse преобразует модель ответчика в DTO для ответа
func ModelToResponderResponse(model *models.Responder) *ResponderResponse {
	return &ResponderResponse{
		ID:           model.ID,
		Name:         model.Name,
		Contact:      model.Contact,
		Type:         model.Type,
		Status:       model.Status,
		Available:    model.Available,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
		RadiusMeters: model.RadiusMeters,
		Volunteers:   model.Volunteers,
		Vehicles:     model.Vehicles,
		Supplies:     model.Supplies,
		CreatedAt:    model.CreatedAt,
	}
}

// ModelsToResponderResponses преобразует слайс ответчиков в слайс DTO
func ModelsToResponderResponses(models []*models.Responder) []*ResponderResponse {
	responses := make([]*ResponderResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToResponderResponse(model)
	}
	return responses
}

// ModelToUserResponse преобразует пользователя в DTO для ответа
func ModelToUserResponse(model *models.User) UserResponse {
	return UserResponse{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
		Phone: model.Phone,
		Role:  model.Role,
	}
}

// ModelsToNotificationResponses преобразует слайс уведомлений в слайс DTO
func ModelsToNotificationResponses(items []*models.Notification) []*NotificationResponse {
	responses := make([]*NotificationResponse, len(items))
	for i, item := range items {
		responses[i] = &NotificationResponse{
			ID:         item.ID,
			IncidentID: item.IncidentID,
			Type:       item.Type,
			Title:      item.Title,
			Message:    item.Message,
			EtaMinutes: item.EtaMinutes,
			CreatedAt:  item.CreatedAt,
		}
	}
	return responses
}
