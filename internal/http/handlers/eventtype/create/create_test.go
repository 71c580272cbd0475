package create

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

	"github.com/udara-chinthaka/ems/internal/http/middlewarectx"
	"github.com/udara-chinthaka/ems/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateEventType(ctx context.Context, organizerUID string, req models.DummyEventType) (string, error) {
	args := m.Called(ctx, organizerUID, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateEventTypeHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		userUID        string
		setupMocks     func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success - create event type",
			requestBody: `{"name":"Wedding","description":"Full wedding planning"}`,
			userUID:     "org-1",
			setupMocks: func(s *MockService) {
				s.On("CreateEventType", mock.Anything, "org-1",
					models.DummyEventType{Name: "Wedding", Description: "Full wedding planning"}).
					Return("type-1", nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","data":{"id":"type-1"}}`,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			userUID:        "org-1",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "missing name",
			requestBody:    `{"description":"Full wedding planning"}`,
			userUID:        "org-1",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing user UID",
			requestBody:    `{"name":"Wedding","description":"Full wedding planning"}`,
			userUID:        "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)
			handler := New(newNoopLogger(), service)

			req := httptest.NewRequest(http.MethodPost, "/event-types",
				bytes.NewBufferString(tt.requestBody))
			ctx := req.Context()
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
			service.AssertExpectations(t)
		})
	}
}
