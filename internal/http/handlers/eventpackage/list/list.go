// Package list реализует HTTP-обработчик каталога пакетов услуг.
//
// Организатор видит все свои пакеты. Заказчик указывает organizer_id в query
// и получает только активные пакеты этого организатора.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/udara-chinthaka/ems/internal/domain"
	"github.com/udara-chinthaka/ems/internal/http/middlewarectx"
	"github.com/udara-chinthaka/ems/internal/http/response"
	"github.com/udara-chinthaka/ems/internal/lib/sl"
	"github.com/udara-chinthaka/ems/internal/models"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	ListEventPackages(ctx context.Context, organizerUID string, activeOnly bool) ([]*models.EventPackage, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список пакетов услуг
// @Description Организатор получает свои пакеты, заказчик — активные пакеты организатора из organizer_id.
// @Tags EventPackages
// @Produce  json
// @Param organizer_id query string false "ID организатора (обязателен для заказчика)"
// @Success 200 {object} map[string]any "Список пакетов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Не указан organizer_id"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /event-packages [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.eventpackage.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, ok := r.Context().Value(middlewarectx.Role).(string)
	if !ok || role == "" {
		log.Error("role not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	organizerUID := userUID
	activeOnly := false
	if role == string(domain.RoleRequester) {
		organizerUID = r.URL.Query().Get("organizer_id")
		if organizerUID == "" {
			log.Error("organizer_id query param missing")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("organizer_id is required"))
			return
		}
		activeOnly = true
	}

	res, err := h.service.ListEventPackages(r.Context(), organizerUID, activeOnly)
	if err != nil {
		log.Error("failed to list event packages", sl.Err(err))
		w.WriteHeader(response.DomainStatus(err))
		render.JSON(w, r, response.DomainError(err))
		return
	}

	log.Info("event packages listed", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":     len(res),
		"event_packages": res,
	}))
}
