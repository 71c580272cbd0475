package profile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/udara-chinthaka/ems/internal/http/middlewarectx"
	"github.com/udara-chinthaka/ems/internal/lib/errs"
	"github.com/udara-chinthaka/ems/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Profile(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, service *MockService, userUID string) *httptest.ResponseRecorder {
	t.Helper()

	h := New(newNoopLogger(), service)
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if userUID != "" {
		ctx := context.WithValue(req.Context(), middlewarectx.UserUID, userUID)
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestProfileHandler_ServeHTTP(t *testing.T) {
	t.Run("профиль организатора с рейтингом", func(t *testing.T) {
		service := new(MockService)
		service.On("Profile", mock.Anything, "org-1").Return(&models.User{
			UID:              "org-1",
			Email:            "org@example.com",
			Username:         "lanka",
			Role:             "organizer",
			OrganizationName: "Lanka Events",
			Phone:            "+94770000000",
			Rating:           4.5,
			ReviewCount:      2,
		}, nil).Once()

		rr := doRequest(t, service, "org-1")

		assert.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Status string         `json:"status"`
			Data   map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		profile, ok := body.Data["profile"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Lanka Events", profile["organization_name"])
		assert.InDelta(t, 4.5, profile["rating"], 1e-9)
		assert.NotContains(t, profile, "name")
		assert.NotContains(t, profile, "password_hash")
		service.AssertExpectations(t)
	})

	t.Run("профиль заказчика без рейтинга", func(t *testing.T) {
		service := new(MockService)
		service.On("Profile", mock.Anything, "req-1").Return(&models.User{
			UID:      "req-1",
			Email:    "req@example.com",
			Username: "saman",
			Role:     "requester",
			Name:     "Saman",
			Position: "HR Manager",
		}, nil).Once()

		rr := doRequest(t, service, "req-1")

		assert.Equal(t, http.StatusOK, rr.Code)

		var body struct {
			Status string         `json:"status"`
			Data   map[string]any `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		profile, ok := body.Data["profile"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Saman", profile["name"])
		assert.NotContains(t, profile, "rating")
		service.AssertExpectations(t)
	})

	t.Run("без uid в контексте", func(t *testing.T) {
		service := new(MockService)

		rr := doRequest(t, service, "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"unauthorized"}`, rr.Body.String())
		service.AssertNotCalled(t, "Profile", mock.Anything, mock.Anything)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		service := new(MockService)
		service.On("Profile", mock.Anything, "ghost").Return(nil, errs.ErrNotFound).Once()

		rr := doRequest(t, service, "ghost")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
