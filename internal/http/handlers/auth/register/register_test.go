package register

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RegisterOrganizer(ctx context.Context, req models.DummyRegisterOrganizer) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockService) RegisterRequester(ctx context.Context, req models.DummyRegisterRequester) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterOrganizerHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		setupMocks     func(*MockService)
		expectedStatus int
	}{
		{
			name: "success - register organizer",
			requestBody: `{"email":"org@example.com","username":"lanka","password":"secret123",
				"organization_name":"Lanka Events","phone":"+94770000000"}`,
			setupMocks: func(s *MockService) {
				s.On("RegisterOrganizer", mock.Anything, mock.MatchedBy(func(r models.DummyRegisterOrganizer) bool {
					return r.Email == "org@example.com" && r.OrganizationName == "Lanka Events"
				})).Return("uid-1", nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing organization name",
			requestBody: `{"email":"org@example.com","username":"lanka","password":"secret123",
				"phone":"+94770000000"}`,
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate email",
			requestBody: `{"email":"org@example.com","username":"lanka","password":"secret123",
				"organization_name":"Lanka Events","phone":"+94770000000"}`,
			setupMocks: func(s *MockService) {
				s.On("RegisterOrganizer", mock.Anything, mock.Anything).
					Return("", errs.ErrAlreadyExists).Once()
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)
			handler := NewOrganizer(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/register/organizer",
				bytes.NewBufferString(tt.requestBody))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestRegisterRequesterHandler_ServeHTTP(t *testing.T) {
	service := new(MockService)
	service.On("RegisterRequester", mock.Anything, mock.MatchedBy(func(r models.DummyRegisterRequester) bool {
		return r.Email == "nimal@example.com" && r.Name == "Nimal Perera"
	})).Return("uid-2", nil).Once()
	handler := NewRequester(newNoopLogger(), service)

	body := `{"email":"nimal@example.com","username":"nimal","password":"secret123",
		"name":"Nimal Perera","position":"HR manager"}`
	req := httptest.NewRequest(http.MethodPost, "/register/requester", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	service.AssertExpectations(t)
}
