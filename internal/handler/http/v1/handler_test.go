package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sahyog/crisis_response_platform/internal/config"
	"github.com/sahyog/crisis_response_platform/internal/models"
	"github.com/sahyog/crisis_response_platform/internal/service"
	"github.com/sahyog/crisis_response_platform/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerMocks struct {
	incidentService     *mocks.MockIncidentService
	assignmentService   *mocks.MockAssignmentService
	taskService         *mocks.MockTaskService
	authService         *mocks.MockAuthService
	responderService    *mocks.MockResponderService
	notificationService *mocks.MockNotificationService
}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*Handler, handlerMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := handlerMocks{
		incidentService:     mocks.NewMockIncidentService(ctrl),
		assignmentService:   mocks.NewMockAssignmentService(ctrl),
		taskService:         mocks.NewMockTaskService(ctrl),
		authService:         mocks.NewMockAuthService(ctrl),
		responderService:    mocks.NewMockResponderService(ctrl),
		notificationService: mocks.NewMockNotificationService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		EtaOptions: []int{5, 10, 15, 20, 30, 45, 60},
	}

	handler := NewHandler(
		m.incidentService,
		m.assignmentService,
		m.taskService,
		m.authService,
		m.responderService,
		m.notificationService,
		logger,
		cfg,
	)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// authAs настраивает разбор токена на заданную идентичность и возвращает
// заголовок для запросов от ее имени
func authAs(m handlerMocks, viewer models.Viewer) map[string]string {
	m.authService.EXPECT().ParseToken("test-token").Return(viewer, nil).AnyTimes()
	return map[string]string{"Authorization": "Bearer test-token"}
}

func TestRegister_Created(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Role:     models.RoleCitizen,
	}
	createdUser := &models.User{
		ID:    uuid.New(),
		Name:  reqBody.Name,
		Email: reqBody.Email,
		Role:  reqBody.Role,
	}

	m.authService.EXPECT().
		Register(gomock.Any(), reqBody.Name, reqBody.Email, "", reqBody.Password, reqBody.Role).
		Return(createdUser, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp UserResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, createdUser.ID, resp.ID)
	assert.Equal(t, reqBody.Email, resp.Email)
	assert.NotContains(t, w.Body.String(), "password") // Хэш пароля не утекает в ответ
}

func TestRegister_EmailTaken(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := RegisterRequest{
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "s3cret-pass",
		Role:     models.RoleCitizen,
	}
	serviceError := fmt.Errorf("service: could not register user: %w", service.ErrEmailTaken)

	m.authService.EXPECT().
		Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, serviceError).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestRegister_ValidationError(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := RegisterRequest{ // Пароль короче 8 символов
		Name:     "Asha Verma",
		Email:    "asha@example.com",
		Password: "short",
		Role:     models.RoleCitizen,
	}

	m.authService.EXPECT().
		Register(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Password' failed on the 'min' tag")
}

func TestLogin_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := LoginRequest{
		Email:    "vol@example.com",
		Password: "s3cret-pass",
		Role:     models.RoleVolunteer,
	}
	user := &models.User{ID: uuid.New(), Email: reqBody.Email, Role: reqBody.Role}

	m.authService.EXPECT().
		Login(gomock.Any(), reqBody.Email, reqBody.Password, reqBody.Role).
		Return("session-token", user, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "session-token", resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, m, router := newTestHandler(t)
	reqBody := LoginRequest{
		Email:    "vol@example.com",
		Password: "wrong-pass",
		Role:     models.RoleVolunteer,
	}
	serviceError := fmt.Errorf("service: login failed: %w", service.ErrInvalidCredentials)

	m.authService.EXPECT().
		Login(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", nil, serviceError).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestReportIncident_Created(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleCitizen}
	headers := authAs(m, viewer)
	reqBody := ReportIncidentRequest{
		Type:      models.IncidentTypeFire,
		Severity:  models.SeverityHigh,
		Latitude:  19.076,
		Longitude: 72.8777,
		Address:   "Dadar West, Mumbai",
	}
	incidentID := uuid.New()

	m.incidentService.EXPECT().
		Report(gomock.Any(), viewer, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Viewer, inc *models.Incident) error {
			assert.Equal(t, reqBody.Type, inc.Type)
			assert.Equal(t, reqBody.Severity, inc.Severity)
			inc.ID = incidentID
			inc.Status = models.IncidentStatusUnassigned
			inc.CreatedAt = time.Now()
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, models.IncidentStatusUnassigned, resp.Status)
}

func TestReportIncident_InvalidJSON(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleCitizen})

	m.incidentService.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"type": "fire"`), headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestReportIncident_NoToken(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.incidentService.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "session token required")
}

func TestReportIncident_InvalidToken(t *testing.T) {
	_, m, router := newTestHandler(t)
	tokenError := fmt.Errorf("service: invalid session token: %w", service.ErrInvalidCredentials)

	m.authService.EXPECT().ParseToken("bad-token").Return(models.Viewer{}, tokenError).Times(1)
	m.incidentService.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{}`),
		map[string]string{"Authorization": "Bearer bad-token"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid session token")
}

func TestSOS_Created(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleCitizen}
	headers := authAs(m, viewer)
	reqBody := SOSRequest{
		Type:      "police",
		Latitude:  28.6139,
		Longitude: 77.209,
	}
	created := &models.Incident{
		ID:       uuid.New(),
		Type:     models.IncidentTypeCrime,
		Severity: models.SeverityCritical,
		Status:   models.IncidentStatusUnassigned,
	}

	m.incidentService.EXPECT().
		SOS(gomock.Any(), viewer, service.SOSRequest{
			Type:      reqBody.Type,
			Latitude:  reqBody.Latitude,
			Longitude: reqBody.Longitude,
		}).Return(created, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/sos", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, models.IncidentTypeCrime, resp.Type)
	assert.Equal(t, models.SeverityCritical, resp.Severity)
}

func TestSOS_UnknownType(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleCitizen})
	reqBody := SOSRequest{Type: "tsunami", Latitude: 28.6139, Longitude: 77.209}

	m.incidentService.EXPECT().SOS(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/sos", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Type' failed on the 'oneof' tag")
}

func TestListIncidents_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	headers := authAs(m, viewer)
	expected := []*models.Incident{
		{ID: uuid.New(), Type: models.IncidentTypeFlood, Status: models.IncidentStatusUnassigned},
		{ID: uuid.New(), Type: models.IncidentTypeFire, Status: models.IncidentStatusAssigned},
	}

	m.incidentService.EXPECT().
		List(gomock.Any(), viewer, service.ListOptions{
			Tab:      models.IncidentTabNeedsHelp,
			Severity: models.SeverityHigh,
			Page:     2,
			PageSize: 10,
		}).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?tab=needs-help&severity=high&page=2&pageSize=10", nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, expected[0].ID, resp[0].ID)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleCitizen})

	m.incidentService.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/invalid-uuid", nil, headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_ForeignReportHidden(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleCitizen}
	headers := authAs(m, viewer)
	incidentID := uuid.New()
	serviceError := fmt.Errorf("service: incident %s: %w", incidentID, service.ErrNotFound)

	// Чужая заявка гражданина выглядит как отсутствующая, а не запрещенная
	m.incidentService.EXPECT().Get(gomock.Any(), viewer, incidentID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", incidentID.String()), nil, headers)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestAssignIncident_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleAgency}
	headers := authAs(m, viewer)
	incidentID := uuid.New()
	reqBody := AssignRequest{ResponderID: uuid.New(), EtaMinutes: 15}
	task := &models.Task{
		ID:          uuid.New(),
		IncidentID:  incidentID,
		ResponderID: reqBody.ResponderID,
		Status:      models.TaskStatusAssigned,
		EtaMinutes:  reqBody.EtaMinutes,
	}

	m.assignmentService.EXPECT().
		Assign(gomock.Any(), incidentID, reqBody.ResponderID, reqBody.EtaMinutes).
		Return(task, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/assign", incidentID.String()), bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp TaskResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, task.ID, resp.ID)
	assert.Equal(t, models.TaskStatusAssigned, resp.Status)
}

func TestAssignIncident_AlreadyAssigned(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleAgency}
	headers := authAs(m, viewer)
	incidentID := uuid.New()
	reqBody := AssignRequest{ResponderID: uuid.New(), EtaMinutes: 15}
	serviceError := fmt.Errorf("service: could not assign incident: %w", service.ErrAlreadyAssigned)

	m.assignmentService.EXPECT().
		Assign(gomock.Any(), incidentID, reqBody.ResponderID, reqBody.EtaMinutes).
		Return(nil, serviceError).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/assign", incidentID.String()), bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "incident already assigned")
}

func TestAssignIncident_ForbiddenForCitizen(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleCitizen})

	m.assignmentService.EXPECT().Assign(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	bodyBytes, _ := json.Marshal(AssignRequest{ResponderID: uuid.New(), EtaMinutes: 15})
	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/assign", uuid.NewString()), bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "operation not permitted for role")
}

func TestAcceptTask_Created(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	headers := authAs(m, viewer)
	reqBody := AcceptTaskRequest{IncidentID: uuid.New(), EtaMinutes: 10}
	task := &models.Task{
		ID:          uuid.New(),
		IncidentID:  reqBody.IncidentID,
		ResponderID: uuid.New(),
		Status:      models.TaskStatusAssigned,
		EtaMinutes:  reqBody.EtaMinutes,
	}

	m.taskService.EXPECT().
		Accept(gomock.Any(), viewer, reqBody.IncidentID, reqBody.EtaMinutes).
		Return(task, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/tasks/accept", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp TaskResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, task.ID, resp.ID)
}

func TestAcceptTask_InvalidEta(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	headers := authAs(m, viewer)
	reqBody := AcceptTaskRequest{IncidentID: uuid.New(), EtaMinutes: 17}
	serviceError := fmt.Errorf("service: eta 17 is not in the accepted set: %w", service.ErrInvalidEta)

	m.taskService.EXPECT().
		Accept(gomock.Any(), viewer, reqBody.IncidentID, reqBody.EtaMinutes).
		Return(nil, serviceError).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/tasks/accept", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "invalid eta value")
}

func TestStartTask_InvalidTransition(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	headers := authAs(m, viewer)
	taskID := uuid.New()
	serviceError := fmt.Errorf("service: could not start task: %w", service.ErrInvalidTransition)

	m.taskService.EXPECT().Start(gomock.Any(), viewer, taskID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/tasks/%s/start", taskID.String()), nil, headers)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid status transition")
}

func TestCompleteTask_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	headers := authAs(m, viewer)
	taskID := uuid.New()
	task := &models.Task{
		ID:          taskID,
		IncidentID:  uuid.New(),
		ResponderID: uuid.New(),
		Status:      models.TaskStatusCompleted,
	}

	m.taskService.EXPECT().Complete(gomock.Any(), viewer, taskID).Return(task, nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/tasks/%s/complete", taskID.String()), nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp TaskResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, resp.Status)
}

func TestListTasks_ForbiddenForCitizen(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleCitizen})

	m.taskService.EXPECT().ListTasks(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/tasks", nil, headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetStats_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleAdmin})
	expected := &models.IncidentStats{
		TotalIncidents:  12,
		ActiveIncidents: 5,
		ResolvedCount:   7,
	}

	m.incidentService.EXPECT().Stats(gomock.Any()).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.IncidentStats
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, expected.TotalIncidents, resp.TotalIncidents)
}

func TestGetStats_ForbiddenForVolunteer(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer})

	m.incidentService.EXPECT().Stats(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil, headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "operation not permitted for role")
}

func TestListNotifications_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleCitizen}
	headers := authAs(m, viewer)
	eta := 15
	expected := []*models.Notification{
		{ID: uuid.New(), IncidentID: uuid.New(), Type: models.NotificationTypeAssigned, Title: "Help is on the way", EtaMinutes: &eta},
	}

	m.notificationService.EXPECT().ListNotifications(gomock.Any(), viewer).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/notifications", nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []NotificationResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, expected[0].Title, resp[0].Title)
}

func TestCreateResponder_Created(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleVolunteer}
	headers := authAs(m, viewer)
	reqBody := CreateResponderRequest{
		Name:         "Seva Relief Group",
		Type:         models.ResponderTypeVolunteerGroup,
		Latitude:     19.076,
		Longitude:    72.8777,
		RadiusMeters: 5000,
		Volunteers:   12,
	}

	m.responderService.EXPECT().
		RegisterResponder(gomock.Any(), viewer, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Viewer, r *models.Responder) error {
			assert.Equal(t, reqBody.Name, r.Name)
			r.ID = uuid.New()
			r.Status = models.ResponderStatusPending
			return nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/responders", bytes.NewBuffer(bodyBytes), headers)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp ResponderResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, models.ResponderStatusPending, resp.Status)
}

func TestApproveResponder_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleAdmin})
	responderID := uuid.New()

	m.responderService.EXPECT().Approve(gomock.Any(), responderID).Return(nil).Times(1)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/responders/%s/approve", responderID.String()), nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"approved"`)
}

func TestSuspendResponder_ForbiddenForAgency(t *testing.T) {
	_, m, router := newTestHandler(t)
	headers := authAs(m, models.Viewer{ID: uuid.New(), Role: models.RoleAgency})

	m.responderService.EXPECT().Suspend(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/responders/%s/suspend", uuid.NewString()), nil, headers)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNearbyResources_OK(t *testing.T) {
	_, m, router := newTestHandler(t)
	viewer := models.Viewer{ID: uuid.New(), Role: models.RoleAgency}
	headers := authAs(m, viewer)
	expected := []*models.Responder{
		{ID: uuid.New(), Name: "Food Relief NGO", Type: models.ResponderTypeNGO, Status: models.ResponderStatusActive},
	}

	m.responderService.EXPECT().NearbyResources(gomock.Any(), viewer).Return(expected, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/responders/nearby", nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []ResponderResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, expected[0].Name, resp[0].Name)
}

func TestHealthCheck_OK(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
