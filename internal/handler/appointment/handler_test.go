package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/kiliniks-api/internal/handler"
	"github.com/jwalitptl/kiliniks-api/internal/model"
	apperrors "github.com/jwalitptl/kiliniks-api/pkg/errors"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateAppointment(ctx context.Context, input model.CreateAppointmentInput) (*model.Appointment, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockService) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockService) UpdateAppointment(ctx context.Context, id uuid.UUID, input model.UpdateAppointmentInput) (*model.Appointment, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockService) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockService) ListAppointments(ctx context.Context) ([]*model.Appointment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Appointment), args.Error(1)
}

func setupRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(handler.ContextSubject, "local-user")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func perform(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAppointment(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc)

	created := &model.Appointment{ID: uuid.New(), PatientName: "John", DoctorName: "Dr. Smith", Status: model.AppointmentStatusScheduled}
	svc.On("CreateAppointment", mock.Anything, mock.MatchedBy(func(in model.CreateAppointmentInput) bool {
		return in.PatientName == "John" &&
			in.Date.Format("2006-01-02") == "2023-10-10" &&
			in.CreatedBy != nil && *in.CreatedBy == "local-user"
	})).Return(created, nil)

	w := perform(r, http.MethodPost, "/api/v1/appointments", map[string]string{
		"patientName": "John",
		"doctorName":  "Dr. Smith",
		"date":        "2023-10-10",
		"status":      "COMPLETED",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Status string            `json:"status"`
		Data   model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, model.AppointmentStatusScheduled, resp.Data.Status)
	svc.AssertExpectations(t)
}

func TestCreateAppointment_Validation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing patient", map[string]string{"doctorName": "Dr. Smith", "date": "2023-10-10"}},
		{"bad date", map[string]string{"patientName": "John", "doctorName": "Dr. Smith", "date": "10/10/2023"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			w := perform(setupRouter(svc), http.MethodPost, "/api/v1/appointments", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything)
		})
	}
}

func TestGetAppointment(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc)
	id := uuid.New()

	svc.On("GetAppointment", mock.Anything, id).Return(nil, apperrors.NotFound("appointment", nil))

	w := perform(r, http.MethodGet, "/api/v1/appointments/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(r, http.MethodGet, "/api/v1/appointments/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAppointment_InvalidStatus(t *testing.T) {
	svc := new(MockService)
	w := perform(setupRouter(svc), http.MethodPut, "/api/v1/appointments/"+uuid.NewString(), map[string]string{"status": "NO_SHOW"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateAppointment", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateAppointment(t *testing.T) {
	svc := new(MockService)
	id := uuid.New()
	status := model.AppointmentStatusCancelled

	svc.On("UpdateAppointment", mock.Anything, id, model.UpdateAppointmentInput{Status: &status}).
		Return(&model.Appointment{ID: id, Status: status}, nil)

	w := perform(setupRouter(svc), http.MethodPut, "/api/v1/appointments/"+id.String(), map[string]string{"status": "CANCELLED"})
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteAppointment(t *testing.T) {
	svc := new(MockService)
	r := setupRouter(svc)
	existing, missing := uuid.New(), uuid.New()

	svc.On("DeleteAppointment", mock.Anything, existing).Return(nil)
	svc.On("DeleteAppointment", mock.Anything, missing).Return(apperrors.NotFound("appointment", nil))

	assert.Equal(t, http.StatusOK, perform(r, http.MethodDelete, "/api/v1/appointments/"+existing.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, http.MethodDelete, "/api/v1/appointments/"+missing.String(), nil).Code)
}

func TestListAppointments_StorageFailure(t *testing.T) {
	svc := new(MockService)
	svc.On("ListAppointments", mock.Anything).Return(nil, errors.New("pq: connection refused"))

	w := perform(setupRouter(svc), http.MethodGet, "/api/v1/appointments", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
