package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/udara-chinthaka/ems/internal/http/middlewarectx"
	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, requesterUID string, req models.DummyEventRequest) (string, error) {
	args := m.Called(ctx, requesterUID, req)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateRequestHandler_ServeHTTP(t *testing.T) {
	validBody := models.DummyEventRequest{
		PackageID:    "9a1f33c0-3333-4d2e-8c7a-000000000003",
		OrganizerUID: "9a1f33c0-1111-4d2e-8c7a-000000000001",
		EventDate:    time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
		Attendees:    50,
		Comments:     "outdoor ceremony",
	}

	tests := []struct {
		name           string
		requestBody    any
		userUID        string
		setupMocks     func(*MockService)
		expectedStatus int
	}{
		{
			name:        "success - create request",
			requestBody: validBody,
			userUID:     "user-1",
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, "user-1", validBody).Return("req-1", nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not a json",
			userUID:        "user-1",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed package id",
			requestBody: func() models.DummyEventRequest {
				r := validBody
				r.PackageID = "not-a-uuid"
				return r
			}(),
			userUID:        "user-1",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "zero attendees",
			requestBody: func() models.DummyEventRequest {
				r := validBody
				r.Attendees = 0
				return r
			}(),
			userUID:        "user-1",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "missing user UID",
			requestBody:    validBody,
			userUID:        "",
			setupMocks:     func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:        "package unavailable",
			requestBody: validBody,
			userUID:     "user-1",
			setupMocks: func(s *MockService) {
				s.On("Create", mock.Anything, "user-1", validBody).
					Return("", errs.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			tt.setupMocks(service)
			handler := New(newNoopLogger(), service)

			var body bytes.Buffer
			if s, ok := tt.requestBody.(string); ok {
				body.WriteString(s)
			} else {
				err := json.NewEncoder(&body).Encode(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/requests", &body)
			ctx := req.Context()
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			service.AssertExpectations(t)
		})
	}
}
